// Command board prints the board a set of game settings produces, and the
// fragment that shares it.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/settings"
)

var log = logrus.New()

func main() {
	var (
		fragment = flag.String("fragment", "", "settings fragment, e.g. '#?rows=3&seed=7'")
		preset   = flag.String("preset", "", "start from a named preset")
		rows     = flag.Int("rows", 0, "override rows")
		cols     = flag.Int("cols", 0, "override cols")
		items    = flag.Int("items", 0, "override number of items")
		seed     = flag.Int64("seed", 0, "override seed")
		draws    = flag.Int("draws", 0, "also print this many raw generator outputs")
		base     = flag.String("base", "http://localhost:5173/", "link base")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	settings.Log = log
	random.Log = log

	s := settings.Defaults()
	if *preset != "" {
		p, suggestion, err := settings.FindPreset(*preset)
		if err != nil {
			log.WithField("did_you_mean", suggestion).Fatal(err)
		}
		s = p.Settings
	}
	if p := settings.Decode(*fragment); p != nil {
		for _, key := range p.Defaulted() {
			log.WithField("key", key).Warn("malformed value, using default")
		}
		s = p.Apply(s)
	} else if *fragment != "" {
		log.Warnf("fragment must start with %q, ignoring it", settings.Marker)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			s.Rows = *rows
		case "cols":
			s.Cols = *cols
		case "items":
			s.NumItems = *items
		case "seed":
			s.Seed = *seed
		}
	})
	s.SelectedPreset = settings.MatchPreset(s)

	if err := s.Validate(); err != nil {
		log.Fatal(err)
	}
	r, err := random.New(s.Seed)
	if err != nil {
		log.Fatal(err)
	}

	baseURL, err := url.Parse(*base)
	if err != nil {
		log.Fatal("invalid -base: ", err)
	}
	link := settings.Share(settings.NewMemoryAddress(""), baseURL, s)

	fmt.Fprintf(os.Stdout, "preset: %s\nlink:   %s\n\n", s.SelectedPreset, link)
	fmt.Fprint(os.Stdout, recall.NewBoard(s, r.Clone()))

	if *draws > 0 {
		fmt.Fprintln(os.Stdout)
		for i := range *draws {
			fmt.Fprintf(os.Stdout, "%3d  %.10f\n", i, r.Next())
		}
	}
}
