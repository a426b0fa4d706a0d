package fetch

import (
	"github.com/dtnitsch/corporalyser/pkg/artifact_manager"
	"github.com/dtnitsch/corporalyser/pkg/caching"
	"github.com/dtnitsch/corporalyser/pkg/fetcher"
)

// Job is one corpus download.
type Job struct {
	CorpusID string
	URL      string
}

// Result holds the outcome of a processed job.
type Result struct {
	CorpusID  string
	URL       string
	Path      string
	Hash      string
	SizeBytes int64
	Skipped   bool // fresh copy on disk
	Error     error
}

// runner carries what the download workers share.
type runner struct {
	manager *artifact_manager.Manager
	fetcher *fetcher.Fetcher
	pages   *caching.Cache // nil disables page caching
	force   bool
}
