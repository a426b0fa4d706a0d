package fetch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/common"
	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/caching"
	"github.com/dtnitsch/corporalyser/pkg/db"
	"github.com/dtnitsch/corporalyser/pkg/fetcher"
)

// WebOriginID marks corpora scraped from web pages.
const WebOriginID = "web"

// WortschatzAction downloads Leipzig corpora and stores their sentence files.
func WortschatzAction(c *cli.Context) error {
	ids, err := common.CorpusIDs(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	config := &models.FetchConfig{
		CorpusIDs:   ids,
		WorkerCount: c.Int("workers"),
		Force:       c.Bool("force"),
		MaxAge:      c.Duration("max-age"),
	}

	ws, err := common.OpenWorkspace(c, config.MaxAge)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer ws.Close()

	jobs := make([]Job, len(config.CorpusIDs))
	for i, id := range config.CorpusIDs {
		jobs[i] = Job{CorpusID: id, URL: fetcher.WortschatzURL(id)}
	}

	r := &runner{manager: ws.Manager, fetcher: fetcher.NewFetcher(), force: config.Force}
	ws.Logger.Info("Starting Wortschatz downloads", "corpora", len(jobs), "workers", config.WorkerCount, "force", config.Force, "max_age", config.MaxAge)
	results := r.downloadAll(ws.Logger, jobs, config.WorkerCount)

	// Catalog writes stay on this goroutine.
	failed := catalog(ws.DB, models.WortschatzOriginID, results)
	printResults(os.Stdout, results)
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d corpora failed", failed, len(results)), 1)
	}
	return nil
}

// WebAction scrapes prose from web pages into a single corpus.
func WebAction(c *cli.Context) error {
	id := c.String("id")
	if err := common.ValidateID(id); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	urls, invalid := common.SanitizeAndValidateURLs(strings.Split(c.String("urls"), ","))
	for _, u := range invalid {
		fmt.Fprintf(os.Stderr, "Skipping invalid URL: %s\n", u)
	}
	if len(urls) == 0 {
		return cli.Exit("no valid URLs given. Usage: corporalyser fetch web --id <id> --urls <a,b>", 1)
	}

	ws, err := common.OpenWorkspace(c, 0)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer ws.Close()

	pages, err := caching.NewCache(ws.Manager.CachePath(), c.Duration("max-age"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	r := &runner{manager: ws.Manager, fetcher: fetcher.NewFetcher(), pages: pages, force: c.Bool("force")}
	if !r.force {
		if exists, _, err := ws.Manager.SentencesFresh(id); err == nil && exists {
			fmt.Printf("Sentences for %s already exist. Use --force to fetch again.\n", id)
			return nil
		}
	}

	sentences, pages := r.scrapePages(ws.Logger, urls, c.Int("workers"))
	if len(sentences) == 0 {
		return cli.Exit(fmt.Sprintf("no sentences extracted from %d pages", len(urls)), 1)
	}

	result, err := r.storeWebCorpus(id, sentences)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	result.URL = strings.Join(urls, ",")
	catalog(ws.DB, WebOriginID, []Result{result})

	failed := 0
	for _, p := range pages {
		if p.Error != nil {
			failed++
		}
	}
	fmt.Printf("Stored %s sentences from %d pages as %s (%s)\n",
		humanize.Comma(int64(len(sentences))), len(urls)-failed, id, humanize.Bytes(uint64(result.SizeBytes)))
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d pages failed", failed, len(urls)), 1)
	}
	return nil
}

// catalog records successful results and returns the number of failures.
func catalog(database *db.DB, originID string, results []Result) int {
	failed := 0
	for i := range results {
		res := &results[i]
		if res.Error != nil {
			failed++
			continue
		}
		err := database.UpsertCorpus(db.Corpus{
			CorpusID:      res.CorpusID,
			OriginID:      originID,
			SourceURL:     res.URL,
			SentencesPath: res.Path,
			SentencesHash: res.Hash,
			SizeBytes:     res.SizeBytes,
		})
		if err != nil {
			res.Error = err
			failed++
		}
	}
	return failed
}

func printResults(w io.Writer, results []Result) {
	for _, res := range results {
		switch {
		case res.Error != nil:
			fmt.Fprintf(w, "FAILED  %s: %v\n", res.CorpusID, res.Error)
		case res.Skipped:
			fmt.Fprintf(w, "CACHED  %s (%s) %s\n", res.CorpusID, humanize.Bytes(uint64(res.SizeBytes)), res.Path)
		default:
			fmt.Fprintf(w, "FETCHED %s (%s) %s\n", res.CorpusID, humanize.Bytes(uint64(res.SizeBytes)), res.Path)
		}
	}
}
