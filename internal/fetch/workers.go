package fetch

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/corporalyser/internal/common"
	"github.com/dtnitsch/corporalyser/pkg/corpus"
	"github.com/dtnitsch/corporalyser/pkg/parser"
)

// downloadAll runs one download per job with at most workers in flight.
// Results keep the job order; a failed job does not cancel the others.
func (r *runner) downloadAll(logger *slog.Logger, jobs []Job, workers int) []Result {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.downloadWortschatz(logger, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *runner) downloadWortschatz(logger *slog.Logger, job Job) Result {
	result := Result{CorpusID: job.CorpusID, URL: job.URL, Path: r.manager.SentencesPath(job.CorpusID)}

	if !r.force {
		exists, fresh, err := r.manager.SentencesFresh(job.CorpusID)
		if err != nil {
			result.Error = err
			return result
		}
		if exists && fresh {
			logger.Info("Sentences already present, skipping download", "corpus", job.CorpusID)
			result.Skipped = true
			return r.describe(result)
		}
	}

	logger.Info("Fetching Wortschatz corpus", "corpus", job.CorpusID, "url", job.URL)
	archive, err := r.fetcher.GetBytes(job.URL)
	if err != nil {
		logger.Error("Error fetching archive", "corpus", job.CorpusID, "error", err)
		result.Error = err
		return result
	}

	sentences, err := corpus.ExtractWortschatzSentences(bytes.NewReader(archive))
	if err != nil {
		logger.Error("Error extracting sentences", "corpus", job.CorpusID, "error", err)
		result.Error = fmt.Errorf("corpus %s: %w", job.CorpusID, err)
		return result
	}

	if err := r.manager.WriteSentences(job.CorpusID, sentences); err != nil {
		result.Error = err
		return result
	}
	result.Hash = common.ContentHash(sentences)
	result.SizeBytes = int64(len(sentences))
	logger.Info("Stored sentences", "corpus", job.CorpusID, "path", result.Path, "bytes", result.SizeBytes)
	return result
}

// describe fills hash and size from the sentence file already on disk.
func (r *runner) describe(result Result) Result {
	info, err := os.Stat(result.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to stat sentences: %w", err)
		return result
	}
	hash, err := common.FileContentHash(result.Path)
	if err != nil {
		result.Error = err
		return result
	}
	result.Hash = hash
	result.SizeBytes = info.Size()
	return result
}

// scrapePages fetches every URL and returns their sentences in URL order.
// Pages that fail are reported and skipped.
func (r *runner) scrapePages(logger *slog.Logger, urls []string, workers int) ([]string, []Result) {
	p := &parser.Parser{}
	docs := make([]*parser.Document, len(urls))
	results := make([]Result, len(urls))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, u := range urls {
		g.Go(func() error {
			results[i] = Result{URL: u}
			body, err := r.getPage(logger, u)
			if err != nil {
				logger.Error("Error fetching page", "url", u, "error", err)
				results[i].Error = err
				return nil
			}
			doc, err := p.ExtractSentences(u, string(body))
			if err != nil {
				logger.Error("Error parsing page", "url", u, "error", err)
				results[i].Error = err
				return nil
			}
			logger.Info("Extracted sentences", "url", u, "title", doc.Title, "sentences", len(doc.Sentences))
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	var sentences []string
	for _, doc := range docs {
		if doc != nil {
			sentences = append(sentences, doc.Sentences...)
		}
	}
	return sentences, results
}

// getPage serves url from the page cache unless forced, caching fresh fetches.
func (r *runner) getPage(logger *slog.Logger, url string) ([]byte, error) {
	if r.pages != nil && !r.force {
		if body, ok := r.pages.Get(url); ok {
			logger.Info("Page served from cache", "url", url)
			return body, nil
		}
	}
	body, err := r.fetcher.GetPage(url)
	if err != nil {
		return nil, err
	}
	if r.pages != nil {
		if err := r.pages.Set(url, body); err != nil {
			logger.Warn("Could not cache page", "url", url, "error", err)
		}
	}
	return body, nil
}

// storeWebCorpus writes scraped sentences as a sentence file.
func (r *runner) storeWebCorpus(id string, sentences []string) (Result, error) {
	var buf bytes.Buffer
	if err := corpus.WriteSentences(&buf, sentences); err != nil {
		return Result{}, err
	}
	if err := r.manager.WriteSentences(id, buf.Bytes()); err != nil {
		return Result{}, err
	}
	return Result{
		CorpusID:  id,
		Path:      r.manager.SentencesPath(id),
		Hash:      common.ContentHash(buf.Bytes()),
		SizeBytes: int64(buf.Len()),
	}, nil
}
