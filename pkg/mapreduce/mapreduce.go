// Package mapreduce counts n-grams, skip-grams and words over a set of
// sentences with a fixed pool of workers.
package mapreduce

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/dtnitsch/corporalyser/pkg/analytics"
	"github.com/dtnitsch/corporalyser/pkg/occurrence"
	"github.com/rivo/uniseg"
)

// DefaultChunkSize is the number of sentences handed to a worker per job.
const DefaultChunkSize = 512

// ErrInvalidOrdinal is returned when a gram length or skip distance is not positive.
var ErrInvalidOrdinal = errors.New("ordinal must be a positive integer")

// Progress receives the number of sentences finished. Implementations must be
// safe for concurrent use.
type Progress interface {
	Add(n int)
}

// Options controls a counting run.
type Options struct {
	Ngrams    []int // gram lengths to count
	Skipgrams []int // skip distances to count
	Workers   int   // defaults to runtime.NumCPU()
	ChunkSize int   // defaults to DefaultChunkSize

	// Words splits a sentence into word tokens. Defaults to analytics.Words.
	Words func(string) []string

	Progress Progress
}

func (o Options) validate() error {
	for _, n := range o.Ngrams {
		if n <= 0 {
			return fmt.Errorf("%w: ngram length %d", ErrInvalidOrdinal, n)
		}
	}
	for _, k := range o.Skipgrams {
		if k <= 0 {
			return fmt.Errorf("%w: skip distance %d", ErrInvalidOrdinal, k)
		}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Words == nil {
		o.Words = analytics.Words
	}
	o.Ngrams = distinct(o.Ngrams)
	o.Skipgrams = distinct(o.Skipgrams)
	return o
}

// distinct returns a sorted copy of ns with repeats removed, so each ordinate
// is counted once.
func distinct(ns []int) []int {
	out := slices.Clone(ns)
	slices.Sort(out)
	return slices.Compact(out)
}

// Graphemes splits s into user-perceived characters.
func Graphemes(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Map counts one batch of sentences sequentially into a fresh analysis.
func Map(sentences []string, opts Options) *occurrence.Analysis[int64] {
	opts = opts.withDefaults()
	acc := occurrence.NewAnalysis[int64](opts.Ngrams, opts.Skipgrams)
	for _, s := range sentences {
		count(acc, s, opts)
	}
	return acc
}

func count(acc *occurrence.Analysis[int64], sentence string, opts Options) {
	g := Graphemes(sentence)

	var sb strings.Builder
	for _, n := range opts.Ngrams {
		m := acc.Ngrams[n]
		for i := 0; i+n <= len(g); i++ {
			sb.Reset()
			for _, c := range g[i : i+n] {
				sb.WriteString(c)
			}
			m.Add(occurrence.Countable(sb.String()), 1)
		}
	}

	for _, k := range opts.Skipgrams {
		m := acc.Skipgrams[k]
		w := k + 2
		for i := 0; i+w <= len(g); i++ {
			m.Add(occurrence.Countable(g[i]+g[i+w-1]), 1)
		}
	}

	for _, word := range opts.Words(sentence) {
		acc.Words.Add(occurrence.Countable(word), 1)
	}
}

// Reduce merges partial analyses pairwise until one remains. The input slice
// is consumed.
func Reduce(partials []*occurrence.Analysis[int64]) *occurrence.Analysis[int64] {
	if len(partials) == 0 {
		return occurrence.NewAnalysis[int64](nil, nil)
	}
	for len(partials) > 1 {
		next := make([]*occurrence.Analysis[int64], 0, (len(partials)+1)/2)
		for i := 0; i < len(partials); i += 2 {
			if i+1 == len(partials) {
				next = append(next, partials[i])
				continue
			}
			partials[i].Merge(partials[i+1])
			next = append(next, partials[i])
		}
		partials = next
	}
	return partials[0]
}

// Run counts all sentences with opts.Workers goroutines and returns the merged,
// sorted analysis. Every requested ordinate is present in the result, even when
// no sentence was long enough to produce a gram.
func Run(sentences []string, opts Options) (*occurrence.Analysis[int64], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	var wg sync.WaitGroup
	jobs := make(chan []string, opts.Workers)
	partials := make([]*occurrence.Analysis[int64], opts.Workers)

	for w := 1; w <= opts.Workers; w++ {
		acc := occurrence.NewAnalysis[int64](opts.Ngrams, opts.Skipgrams)
		partials[w-1] = acc
		wg.Add(1)
		go worker(acc, opts, &wg, jobs)
	}

	for start := 0; start < len(sentences); start += opts.ChunkSize {
		end := min(start+opts.ChunkSize, len(sentences))
		jobs <- sentences[start:end]
	}
	close(jobs)
	wg.Wait()

	result := Reduce(partials)
	result.Sort()
	return result, nil
}

func worker(acc *occurrence.Analysis[int64], opts Options, wg *sync.WaitGroup, jobs <-chan []string) {
	defer wg.Done()
	for chunk := range jobs {
		for _, s := range chunk {
			count(acc, s, opts)
		}
		if opts.Progress != nil {
			opts.Progress.Add(len(chunk))
		}
	}
}
