package analyze

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/corporalyser/internal/common"
	"github.com/dtnitsch/corporalyser/models"
	"github.com/dtnitsch/corporalyser/pkg/corpus"
	"github.com/dtnitsch/corporalyser/pkg/db"
	"github.com/dtnitsch/corporalyser/pkg/detector"
	"github.com/dtnitsch/corporalyser/pkg/manifest"
	"github.com/dtnitsch/corporalyser/pkg/mapreduce"
)

// LocalOriginID marks corpora that were placed in the data directory by hand.
const LocalOriginID = "local"

var errCorpusNotFetched = errors.New("corpus has no sentence file")

func AnalyseAction(c *cli.Context) error {
	ids, err := common.CorpusIDs(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	config := &models.AnalyseConfig{
		CorpusIDs:      ids,
		Ngrams:         models.Ordinals(c.Int("ngram-n")),
		Skipgrams:      models.Ordinals(c.Int("skipgram-n")),
		WorkerCount:    c.Int("workers"),
		Force:          c.Bool("force"),
		KeepCase:       c.Bool("keep-case"),
		DetectLanguage: c.Bool("detect-language"),
		ShowProgress:   c.Bool("show-progress"),
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = runtime.NumCPU()
	}

	ws, err := common.OpenWorkspace(c, 0)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer ws.Close()

	a := &analyser{ws: ws, config: config}
	if config.DetectLanguage {
		a.detector = detector.New()
	}

	failed := 0
	for _, id := range config.CorpusIDs {
		summary, err := a.analyse(id)
		if err != nil {
			ws.Logger.Error("Analysis failed", "corpus", id, "error", err)
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", id, err)
			failed++
			continue
		}
		if summary != nil {
			fmt.Println(manifest.FinishedLine(*summary))
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d analyses failed", failed, len(config.CorpusIDs)), 1)
	}
	return nil
}

type analyser struct {
	ws       *common.Workspace
	config   *models.AnalyseConfig
	detector *detector.Detector
}

// analyse counts one corpus. A nil summary means the stored analysis is
// already current.
func (a *analyser) analyse(id string) (*manifest.Summary, error) {
	logger := a.ws.Logger.With("corpus", id)
	path := a.ws.Manager.SentencesPath(id)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: run 'corporalyser fetch wortschatz %s' first", errCorpusNotFetched, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat sentences: %w", err)
	}

	hash, err := common.FileContentHash(path)
	if err != nil {
		return nil, err
	}

	if !a.config.Force && a.upToDate(logger, id, hash) {
		logger.Info("Analysis is up to date, skipping", "hash", hash)
		fmt.Printf("Analysis of %s is up to date. Use --force to recount.\n", id)
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sentences: %w", err)
	}
	sentences, err := corpus.ParseSentences(f, corpus.LoadOptions{Lowercase: !a.config.KeepCase})
	f.Close()
	if err != nil {
		return nil, err
	}
	if sentences.Malformed > 0 {
		logger.Warn("Skipped malformed lines", "count", sentences.Malformed)
	}

	opts := mapreduce.Options{
		Ngrams:    a.config.Ngrams,
		Skipgrams: a.config.Skipgrams,
		Workers:   a.config.WorkerCount,
	}
	if a.config.ShowProgress {
		opts.Progress = newProgressLogger(logger, id, len(sentences.Lines))
	}

	runID := common.NewRunID()
	logger.Info("Analysing corpus", "run_id", runID, "sentences", len(sentences.Lines), "workers", opts.Workers)
	start := time.Now()
	counts, err := mapreduce.Run(sentences.Lines, opts)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	corpusRow, found, err := a.ws.DB.GetCorpus(id)
	if err != nil {
		return nil, err
	}
	if !found {
		corpusRow = db.Corpus{CorpusID: id, OriginID: LocalOriginID, SentencesPath: path}
	}
	corpusRow.SentencesHash = hash
	corpusRow.SizeBytes = info.Size()

	art := &models.AnalysisArtifact{
		Source: source(corpusRow, info.ModTime(), hash),
		Metadata: models.AnalysisMetadata{
			Date:           time.Now().UTC(),
			RunID:          runID,
			Sentences:      len(sentences.Lines),
			MalformedLines: sentences.Malformed,
			Ngrams:         a.config.Ngrams,
			Skipgrams:      a.config.Skipgrams,
			KeepCase:       a.config.KeepCase,
			Workers:        opts.Workers,
			Duration:       duration.String(),
		},
		Analysis: counts,
	}

	if a.detector != nil {
		if res, ok := a.detector.DetectSample(sentences.Lines, detector.DefaultSampleSize); ok {
			art.Source.Language = res.Language
			logger.Info("Detected language", "language", res.Name, "confidence", res.Confidence)
		} else {
			logger.Warn("Could not detect language")
		}
	}

	artifactPath, err := a.ws.Manager.WriteAnalysis(id, art)
	if err != nil {
		return nil, err
	}
	summary := manifest.GenerateSummary(id, art, manifest.DefaultTop)
	if _, err := a.ws.Manager.WriteSummary(id, summary); err != nil {
		return nil, err
	}

	if err := a.ws.DB.UpsertCorpus(corpusRow); err != nil {
		return nil, err
	}
	_, err = a.ws.DB.RecordAnalysis(db.AnalysisRecord{
		CorpusID:       id,
		RunID:          runID,
		SentencesHash:  hash,
		ArtifactPath:   artifactPath,
		SentenceCount:  len(sentences.Lines),
		MalformedCount: sentences.Malformed,
		Ngrams:         a.config.Ngrams,
		Skipgrams:      a.config.Skipgrams,
		Language:       art.Source.Language,
		Duration:       duration,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Stored analysis", "path", artifactPath, "duration", duration)
	return &summary, nil
}

// upToDate reports whether the last recorded analysis counted the same
// sentence file with the same ordinates and case mode, and its artifact is
// still on disk.
func (a *analyser) upToDate(logger *slog.Logger, id, hash string) bool {
	prev, found, err := a.ws.DB.GetAnalysisHash(id)
	if err != nil {
		logger.Warn("Could not read previous analysis", "error", err)
		return false
	}
	if !found || prev != hash {
		return false
	}
	src, meta, err := a.ws.Manager.LoadAnalysisHeader(id)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Could not read previous artifact", "error", err)
		}
		return false
	}
	if src.Hash != hash {
		return false
	}
	if !sameOrdinals(meta.Ngrams, a.config.Ngrams) || !sameOrdinals(meta.Skipgrams, a.config.Skipgrams) {
		logger.Info("Ordinates changed, recounting", "ngrams", a.config.Ngrams, "skipgrams", a.config.Skipgrams)
		return false
	}
	if meta.KeepCase != a.config.KeepCase {
		logger.Info("Case mode changed, recounting", "keep_case", a.config.KeepCase)
		return false
	}
	return true
}

func sameOrdinals(a, b []int) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

func source(c db.Corpus, modTime time.Time, hash string) models.AnalysisSource {
	src := models.AnalysisSource{
		OriginID: c.OriginID,
		Date:     modTime.UTC(),
		Hash:     hash,
	}
	switch c.OriginID {
	case models.WortschatzOriginID:
		src.OriginName = models.WortschatzOriginName
		src.OriginURL = models.WortschatzOriginURL
		src.License = models.WortschatzLicense
	default:
		src.OriginName = c.OriginID
		src.OriginURL = c.SourceURL
	}
	return src
}
