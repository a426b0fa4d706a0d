// Package models defines the artifact shapes and run configuration.
package models

import "time"

// AnalyseConfig holds runtime configuration for an analyse run.
// All values come from CLI flags, not external config files.
type AnalyseConfig struct {
	CorpusIDs      []string
	Ngrams         []int
	Skipgrams      []int
	WorkerCount    int
	Force          bool
	KeepCase       bool
	DetectLanguage bool
	ShowProgress   bool
}

// FetchConfig holds runtime configuration for corpus downloads.
type FetchConfig struct {
	CorpusIDs   []string
	WorkerCount int
	Force       bool
	MaxAge      time.Duration
}

// Ordinals returns 1..n, or nil when n is not positive.
func Ordinals(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
