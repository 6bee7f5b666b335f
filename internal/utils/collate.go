package utils

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewNameCollator returns a collator used for locale-aware ordering of entry
// names inside rendered trees. The undetermined language tag keeps ordering
// stable across host locales.
func NewNameCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}
