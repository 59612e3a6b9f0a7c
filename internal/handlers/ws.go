package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/recall"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrCommandArgs    = errors.New("invalid number of arguments")
)

var commandNargs = map[string]int{
	"g": 0, /* get */
	"b": 0, /* begin */
	"f": 0, /* flash */
	"s": 2, /* select x y */
	"r": 0, /* resign */
}

func parseXY(args []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("first argument must be an int")
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("second argument must be an int")
	}
	return x, y, nil
}

// ExecuteCommand runs one play loop command against g. Only a select
// reports correctness.
func ExecuteCommand(g *recall.GameState, c string) (*bool, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return nil, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return nil, ErrCommandArgs
	}

	switch parts[0] {
	case "b":
		return nil, g.Begin()
	case "f":
		return nil, g.Flash()
	case "s":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return nil, err
		}
		correct, err := g.Select(x, y)
		if err != nil {
			return nil, err
		}
		return &correct, nil
	case "r":
		g.Surrender()
	}
	return nil, nil
}

// ConnectWS plays a session over a WebSocket. Every text message holds one
// or more newline separated commands; after each message the session is
// saved and its state sent back. A rejected command is reported and the
// connection stays open.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), g.logger)
	session, game, ok := g.load(w, r, log)
	if !ok {
		return
	}
	if !owns(r.Context(), session) {
		sendError(w, log, http.StatusForbidden, ErrForbidden)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		var correct *bool
		var cmdErr error
		for _, cmd := range strings.Split(text, "\n") {
			if correct, cmdErr = ExecuteCommand(game, cmd); cmdErr != nil {
				break
			}
		}

		session, err = g.save(r.Context(), session, game)
		if err != nil {
			log.WithError(err).Error("unable to update session in db")
			return
		}

		if cmdErr != nil {
			log.WithError(cmdErr).Debug("rejected command")
			err = c.WriteJSON(wrapError(cmdErr))
		} else {
			dto := NewGameSessionDTO(session, game)
			dto.Correct = correct
			err = c.WriteJSON(dto)
		}
		if err != nil {
			log.WithError(err).Error("unable to write to ws")
			return
		}
	}
}
