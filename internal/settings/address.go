package settings

import (
	"net/url"
	"strings"
)

// AddressStore is the page address a fragment lives in. Read returns the
// fragment with its leading '#', or "" when there is none.
type AddressStore interface {
	Read() string
	Write(fragment string)
	Clear()
}

// URLAddress keeps the fragment of a URL.
type URLAddress struct {
	u *url.URL
}

func NewURLAddress(u *url.URL) *URLAddress {
	return &URLAddress{u}
}

func (a *URLAddress) Read() string {
	f := a.u.EscapedFragment()
	if f == "" {
		return ""
	}
	return "#" + f
}

func (a *URLAddress) Write(fragment string) {
	raw := strings.TrimPrefix(fragment, "#")
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		unescaped = raw
	}
	a.u.Fragment, a.u.RawFragment = unescaped, raw
}

func (a *URLAddress) Clear() {
	a.u.Fragment, a.u.RawFragment = "", ""
}

func (a *URLAddress) URL() *url.URL {
	return a.u
}

// MemoryAddress is an address with nothing but a fragment.
type MemoryAddress struct {
	fragment string
}

func NewMemoryAddress(fragment string) *MemoryAddress {
	a := &MemoryAddress{}
	a.Write(fragment)
	return a
}

func (a *MemoryAddress) Read() string {
	return a.fragment
}

func (a *MemoryAddress) Write(fragment string) {
	if fragment == "" || fragment == "#" {
		a.fragment = ""
		return
	}
	a.fragment = "#" + strings.TrimPrefix(fragment, "#")
}

func (a *MemoryAddress) Clear() {
	a.fragment = ""
}

// Share writes the settings fragment to store and returns base with the
// query dropped and the fragment attached.
func Share(store AddressStore, base *url.URL, s GameSettings) string {
	fragment := Fragment(s)
	store.Write(fragment)

	u := *base
	u.RawQuery, u.ForceQuery = "", false
	NewURLAddress(&u).Write(fragment)
	return u.String()
}

// Parse decodes the fragment currently held by store.
func Parse(store AddressStore) *Partial {
	return Decode(store.Read())
}

// Clear removes the settings fragment from store.
func Clear(store AddressStore) {
	store.Clear()
}
