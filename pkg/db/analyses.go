package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AnalysisRecord is one completed analyse run.
type AnalysisRecord struct {
	AnalysisID     int64
	CorpusID       string
	RunID          string
	SentencesHash  string
	ArtifactPath   string
	SentenceCount  int
	MalformedCount int
	Ngrams         []int
	Skipgrams      []int
	Language       string
	Duration       time.Duration
	CreatedAt      time.Time
}

// RecordAnalysis stores a completed analysis, returning its analysis_id.
// The corpus must already be cataloged.
func (db *DB) RecordAnalysis(r AnalysisRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	result, err := db.Exec(`
		INSERT INTO analyses (corpus_id, run_id, sentences_hash, artifact_path, sentence_count,
		                      malformed_count, ngram_ns, skipgram_ns, language, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.CorpusID, r.RunID, r.SentencesHash, r.ArtifactPath, r.SentenceCount, r.MalformedCount,
		joinInts(r.Ngrams), joinInts(r.Skipgrams), r.Language, r.Duration.Milliseconds(), r.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get analysis ID: %w", err)
	}
	return id, nil
}

// GetAnalysisHash returns the sentence hash of the latest analysis of a corpus.
func (db *DB) GetAnalysisHash(corpusID string) (hash string, found bool, err error) {
	err = db.QueryRow(`
		SELECT sentences_hash FROM analyses
		WHERE corpus_id = ?
		ORDER BY created_at DESC, analysis_id DESC
		LIMIT 1
	`, corpusID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get analysis hash: %w", err)
	}
	return hash, true, nil
}

// ListAnalyses retrieves analyses ordered by most recent first
func (db *DB) ListAnalyses(limit int) ([]AnalysisRecord, error) {
	query := `
		SELECT analysis_id, corpus_id, run_id, sentences_hash, artifact_path, sentence_count,
		       malformed_count, ngram_ns, skipgram_ns, language, duration_ms, created_at
		FROM analyses
		ORDER BY created_at DESC, analysis_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var r AnalysisRecord
		var ngrams, skipgrams, language sql.NullString
		var durationMS int64
		if err := rows.Scan(&r.AnalysisID, &r.CorpusID, &r.RunID, &r.SentencesHash, &r.ArtifactPath,
			&r.SentenceCount, &r.MalformedCount, &ngrams, &skipgrams, &language, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		r.Ngrams = splitInts(ngrams.String)
		r.Skipgrams = splitInts(skipgrams.String)
		r.Language = language.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}

	return records, rows.Err()
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
