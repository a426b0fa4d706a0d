package occurrence

import (
	"maps"
	"slices"
)

// Ordinals maps an ordinate (gram length or skip distance) to its occurrences.
type Ordinals[T Count] map[int]*Map[T]

// Analysis bundles the three families of statistics for one corpus or report.
type Analysis[T Count] struct {
	Ngrams    Ordinals[T] `json:"ngrams"`
	Skipgrams Ordinals[T] `json:"skipgrams"`
	Words     *Map[T]     `json:"words"`
}

// NewAnalysis returns an analysis with an empty map for every requested ordinate.
func NewAnalysis[T Count](ngrams, skipgrams []int) *Analysis[T] {
	a := &Analysis[T]{
		Ngrams:    make(Ordinals[T], len(ngrams)),
		Skipgrams: make(Ordinals[T], len(skipgrams)),
		Words:     NewMap[T](),
	}
	for _, n := range ngrams {
		a.Ngrams[n] = NewMap[T]()
	}
	for _, k := range skipgrams {
		a.Skipgrams[k] = NewMap[T]()
	}
	return a
}

// Keys returns the ordinates in ascending order.
func (o Ordinals[T]) Keys() []int {
	return slices.Sorted(maps.Keys(o))
}

func (o Ordinals[T]) merge(other Ordinals[T]) Ordinals[T] {
	if o == nil {
		o = make(Ordinals[T], len(other))
	}
	for n, m := range other {
		dst, ok := o[n]
		if !ok || dst == nil {
			dst = NewMap[T]()
			o[n] = dst
		}
		dst.Merge(m)
	}
	return o
}

// every returns every map of the analysis: ngrams, skipgrams, then words.
func (a *Analysis[T]) every() []*Map[T] {
	out := make([]*Map[T], 0, len(a.Ngrams)+len(a.Skipgrams)+1)
	for _, n := range a.Ngrams.Keys() {
		out = append(out, a.Ngrams[n])
	}
	for _, k := range a.Skipgrams.Keys() {
		out = append(out, a.Skipgrams[k])
	}
	if a.Words != nil {
		out = append(out, a.Words)
	}
	return out
}

// Merge adds other into a entry-wise across all three families.
func (a *Analysis[T]) Merge(other *Analysis[T]) {
	if other == nil {
		return
	}
	a.Ngrams = a.Ngrams.merge(other.Ngrams)
	a.Skipgrams = a.Skipgrams.merge(other.Skipgrams)
	if a.Words == nil {
		a.Words = NewMap[T]()
	}
	a.Words.Merge(other.Words)
}

// Sort sorts every map by descending count.
func (a *Analysis[T]) Sort() {
	for _, m := range a.every() {
		m.Sort()
	}
}

// Clone returns a deep copy.
func (a *Analysis[T]) Clone() *Analysis[T] {
	out := &Analysis[T]{
		Ngrams:    make(Ordinals[T], len(a.Ngrams)),
		Skipgrams: make(Ordinals[T], len(a.Skipgrams)),
		Words:     a.Words.Clone(),
	}
	for n, m := range a.Ngrams {
		out.Ngrams[n] = m.Clone()
	}
	for k, m := range a.Skipgrams {
		out.Skipgrams[k] = m.Clone()
	}
	return out
}

// Equal reports whether both analyses hold the same ordinates and entries.
func (a *Analysis[T]) Equal(other *Analysis[T]) bool {
	if !ordinalsEqual(a.Ngrams, other.Ngrams) || !ordinalsEqual(a.Skipgrams, other.Skipgrams) {
		return false
	}
	return a.Words.Equal(other.Words)
}

func ordinalsEqual[T Count](a, b Ordinals[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for n, m := range a {
		om, ok := b[n]
		if !ok || !m.Equal(om) {
			return false
		}
	}
	return true
}

// Strip applies a filtered rewrite to every map. N-grams and skip-grams are
// strip-only; words are stripped and merged into their replacement.
func (a *Analysis[T]) Strip(check func(Countable) (bool, Countable)) {
	for _, n := range a.Ngrams.Keys() {
		a.Ngrams[n].Strip(false, check)
	}
	for _, k := range a.Skipgrams.Keys() {
		a.Skipgrams[k].Strip(false, check)
	}
	a.Words.Strip(true, check)
}

// Scale converts an analysis to real counts multiplied by factor.
func Scale[T Count](a *Analysis[T], factor float64) *Analysis[float64] {
	out := &Analysis[float64]{
		Ngrams:    make(Ordinals[float64], len(a.Ngrams)),
		Skipgrams: make(Ordinals[float64], len(a.Skipgrams)),
		Words:     ToReal(a.Words, factor),
	}
	for n, m := range a.Ngrams {
		out.Ngrams[n] = ToReal(m, factor)
	}
	for k, m := range a.Skipgrams {
		out.Skipgrams[k] = ToReal(m, factor)
	}
	return out
}

// NormalizeAnalysis normalizes every map independently so each sums to 1.
func NormalizeAnalysis(a *Analysis[float64]) {
	for _, m := range a.every() {
		Normalize(m)
	}
}
