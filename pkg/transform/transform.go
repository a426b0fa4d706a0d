// Package transform strips character classes from an occurrence analysis before
// it is aggregated into a report.
package transform

import (
	"strings"
	"unicode"

	"github.com/dtnitsch/corporalyser/pkg/occurrence"
)

// Spec selects the character classes to strip. Flags are independent and commute.
type Spec struct {
	StripWhitespace  bool `json:"strip_whitespace" yaml:"strip_whitespace"`
	StripPunctuation bool `json:"strip_punctuation" yaml:"strip_punctuation"`
	StripNumbers     bool `json:"strip_numbers" yaml:"strip_numbers"`
	StripNonLatin    bool `json:"strip_nonlatin" yaml:"strip_nonlatin"`
}

// IsZero reports whether no flag is set.
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// Check decides whether a gram is stripped and what it would become.
type Check func(occurrence.Countable) (strip bool, replacement occurrence.Countable)

// Apply runs every selected strip pass over a, in place.
func Apply[T occurrence.Count](a *occurrence.Analysis[T], spec Spec) {
	if spec.StripWhitespace {
		Strip(a, Whitespace)
	}
	if spec.StripPunctuation {
		Strip(a, Punctuation)
	}
	if spec.StripNumbers {
		Strip(a, Numeric)
	}
	if spec.StripNonLatin {
		Strip(a, NonLatin)
	}
}

// Strip applies one check to every family. Grams containing the class are
// dropped; words are rewritten to their filtered form and merged. A word made
// only of the class has no filtered form and its count is dropped, so the word
// family loses that mass.
func Strip[T occurrence.Count](a *occurrence.Analysis[T], check Check) {
	a.Strip(check)
}

// filter removes runes for which drop returns true.
func filter(k occurrence.Countable, drop func(rune) bool) (bool, occurrence.Countable) {
	s := string(k)
	if strings.IndexFunc(s, drop) < 0 {
		return false, k
	}
	return true, occurrence.Countable(strings.Map(func(r rune) rune {
		if drop(r) {
			return -1
		}
		return r
	}, s))
}

// Whitespace strips Unicode white space.
func Whitespace(k occurrence.Countable) (bool, occurrence.Countable) {
	return filter(k, unicode.IsSpace)
}

// Punctuation strips ASCII punctuation.
func Punctuation(k occurrence.Countable) (bool, occurrence.Countable) {
	return filter(k, isASCIIPunct)
}

// Numeric strips every Unicode number (Nd, Nl, No).
func Numeric(k occurrence.Countable) (bool, occurrence.Countable) {
	return filter(k, unicode.IsNumber)
}

// NonLatin keeps ASCII letters and digits only.
func NonLatin(k occurrence.Countable) (bool, occurrence.Countable) {
	return filter(k, func(r rune) bool { return !isASCIIAlnum(r) })
}

func isASCIIPunct(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsPrint(r) && !isASCIIAlnum(r) && r != ' '
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
