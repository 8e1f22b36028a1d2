package nekoapi

import (
	"slices"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

// Category is an SFW gif category.
type Category string

const (
	Action   Category = "action"
	Reaction Category = "reaction"
)

var catalog = map[Category][]string{
	Action: {
		"cook", "cuddle", "cure", "draw", "drive", "eat", "explosion",
		"feed", "hug", "kickbut", "kill", "kiss", "lick", "pat", "peek",
		"playing", "poke", "punch", "run", "sape", "shoot", "sip", "slap",
		"sleep", "stare", "tickle", "travel", "work",
	},
	Reaction: {
		"angry", "blush", "bored", "confused", "cry", "dance", "laugh",
		"like", "pout", "scream", "smug", "think", "vomit", "wink",
	},
}

// Categories returns the known categories.
func Categories() []Category {
	return []Category{Action, Reaction}
}

// Gifs returns the gif names of a category in sorted order, or nil for an
// unknown category.
func Gifs(c Category) []string {
	return slices.Clone(catalog[c])
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := catalog[c]
	return ok
}

// HasGif reports whether name belongs to category c.
func HasGif(c Category, name string) bool {
	_, found := slices.BinarySearch(catalog[c], name)
	return found
}

// ValidateGif checks a category and gif name against the catalog.
func ValidateGif(c Category, name string) error {
	if err := errs.ValidateRequired("category", string(c)); err != nil {
		return err
	}
	if err := errs.ValidateRequired("gif", name); err != nil {
		return err
	}
	if !c.Valid() {
		return errs.Validation("category", "unknown category %q, use %q or %q", c, Action, Reaction)
	}
	if !HasGif(c, name) {
		return errs.Validation("gif", "%q is not a %s gif", name, c)
	}
	return nil
}
