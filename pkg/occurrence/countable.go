// Package occurrence holds the mergeable frequency data model: grams, ordered
// occurrence maps and the three-family occurrence analysis.
package occurrence

import "unique"

// Countable is a gram: one or more grapheme clusters used as a frequency key.
// Equality is byte-exact; callers normalize (lower-case etc.) before counting.
type Countable string

// Count is the numeric type of an occurrence count.
type Count interface {
	~int64 | ~float64
}

// intern returns a canonical copy of k so that repeated grams share storage.
func intern(k Countable) Countable {
	return unique.Make(k).Value()
}
