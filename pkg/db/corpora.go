package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Corpus is a sentence file known to the catalog.
type Corpus struct {
	CorpusID      string
	OriginID      string
	SourceURL     string
	SentencesPath string
	SentencesHash string
	SizeBytes     int64
	FetchedAt     time.Time
}

// UpsertCorpus inserts a corpus or updates its location and hash.
func (db *DB) UpsertCorpus(c Corpus) error {
	if c.FetchedAt.IsZero() {
		c.FetchedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO corpora (corpus_id, origin_id, source_url, sentences_path, sentences_hash, size_bytes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(corpus_id) DO UPDATE SET
			origin_id = excluded.origin_id,
			source_url = COALESCE(NULLIF(excluded.source_url, ''), corpora.source_url),
			sentences_path = excluded.sentences_path,
			sentences_hash = excluded.sentences_hash,
			size_bytes = excluded.size_bytes,
			fetched_at = excluded.fetched_at
	`, c.CorpusID, c.OriginID, c.SourceURL, c.SentencesPath, c.SentencesHash, c.SizeBytes, c.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert corpus: %w", err)
	}
	return nil
}

// GetCorpus returns a corpus by id. found is false when it is not cataloged.
func (db *DB) GetCorpus(corpusID string) (c Corpus, found bool, err error) {
	var sourceURL, hash sql.NullString
	err = db.QueryRow(`
		SELECT corpus_id, origin_id, source_url, sentences_path, sentences_hash, size_bytes, fetched_at
		FROM corpora WHERE corpus_id = ?
	`, corpusID).Scan(&c.CorpusID, &c.OriginID, &sourceURL, &c.SentencesPath, &hash, &c.SizeBytes, &c.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Corpus{}, false, nil
	}
	if err != nil {
		return Corpus{}, false, fmt.Errorf("failed to get corpus: %w", err)
	}
	c.SourceURL = sourceURL.String
	c.SentencesHash = hash.String
	return c, true, nil
}
