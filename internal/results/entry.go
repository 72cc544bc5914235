package results

import (
	"strings"

	"github.com/five82/ebs/internal/catalog"
)

// Icon names the symbol shown beside a message row.
type Icon string

const (
	IconNone        Icon = ""
	IconError       Icon = "exclamationmark.octagon"
	IconEmptySearch Icon = "plus.magnifyingglass"
)

// Entry is one displayable row. The set of implementations is closed:
// BeerEntry, PreviousSearchEntry and MessageEntry. Every implementation is a
// comparable value, so entries can be compared with ==.
type Entry interface {
	// Key is a stable identity used for incremental list updates.
	Key() string
	isEntry()
}

// BeerEntry is a search result row.
type BeerEntry struct {
	Beer catalog.Beer
}

// PreviousSearchEntry is a recent-search row; selecting it re-runs the search.
type PreviousSearchEntry struct {
	Query string
	Kind  catalog.SearchKind
}

// MessageEntry is an informational row.
type MessageEntry struct {
	Text string
	Icon Icon
}

const keySep = "\x1f"

func (e BeerEntry) Key() string {
	b := e.Beer
	return strings.Join([]string{"beer", b.Name, b.Brewery, b.ImageURL, b.ABV, b.Style, b.Rating}, keySep)
}

func (e PreviousSearchEntry) Key() string {
	return strings.Join([]string{"search", e.Kind.String(), e.Query}, keySep)
}

func (e MessageEntry) Key() string {
	return strings.Join([]string{"message", string(e.Icon), e.Text}, keySep)
}

func (BeerEntry) isEntry()           {}
func (PreviousSearchEntry) isEntry() {}
func (MessageEntry) isEntry()        {}

// Snapshot is the complete ordered list of rows to display at one instant.
type Snapshot []Entry

// Keys returns the identity of every row in order.
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key()
	}
	return keys
}

// Equal reports whether both snapshots hold the same rows in the same order.
// A nil snapshot equals an empty one.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the row with key, or -1.
func (s Snapshot) IndexOf(key string) int {
	for i, e := range s {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Change summarizes how one snapshot differs from the next.
type Change struct {
	Inserted []string
	Removed  []string
}

// Empty reports whether the two snapshots contain the same set of rows.
func (c Change) Empty() bool {
	return len(c.Inserted) == 0 && len(c.Removed) == 0
}

// Diff compares snapshots by row identity. Inserted keys keep their order in
// next, removed keys keep their order in prev.
func Diff(prev, next Snapshot) Change {
	prevKeys, nextKeys := prev.Keys(), next.Keys()
	before := make(map[string]struct{}, len(prevKeys))
	for _, k := range prevKeys {
		before[k] = struct{}{}
	}
	after := make(map[string]struct{}, len(nextKeys))
	for _, k := range nextKeys {
		after[k] = struct{}{}
	}

	var change Change
	for _, k := range nextKeys {
		if _, ok := before[k]; !ok {
			change.Inserted = append(change.Inserted, k)
		}
	}
	for _, k := range prevKeys {
		if _, ok := after[k]; !ok {
			change.Removed = append(change.Removed, k)
		}
	}
	return change
}
