package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Corpora: one row per sentence file in data/<id>/
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id TEXT PRIMARY KEY,
    origin_id TEXT NOT NULL,       -- wortschatz, web, local
    source_url TEXT,
    sentences_path TEXT NOT NULL,
    sentences_hash TEXT,           -- sha256 of sentences.txt
    size_bytes INTEGER DEFAULT 0,
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Analyses: every completed analyse run
CREATE TABLE IF NOT EXISTS analyses (
    analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
    corpus_id TEXT NOT NULL,
    run_id TEXT NOT NULL UNIQUE,
    sentences_hash TEXT NOT NULL,
    artifact_path TEXT NOT NULL,
    sentence_count INTEGER DEFAULT 0,
    malformed_count INTEGER DEFAULT 0,
    ngram_ns TEXT,                 -- comma separated
    skipgram_ns TEXT,
    language TEXT,
    duration_ms INTEGER DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (corpus_id) REFERENCES corpora(corpus_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_analyses_corpus ON analyses(corpus_id, created_at);

-- Reports: every built report
CREATE TABLE IF NOT EXISTS reports (
    report_id INTEGER PRIMARY KEY AUTOINCREMENT,
    report_key TEXT NOT NULL,      -- recipe id
    run_id TEXT NOT NULL,
    name TEXT,
    version TEXT,
    artifact_path TEXT NOT NULL,
    content_hash TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_key ON reports(report_key, created_at);

-- Report sources: the recipe entries of a report, in recipe order
CREATE TABLE IF NOT EXISTS report_sources (
    report_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    source_id TEXT NOT NULL,
    source_type TEXT NOT NULL,     -- analysis, report
    weight REAL NOT NULL,
    strip_whitespace BOOLEAN DEFAULT 0,
    strip_punctuation BOOLEAN DEFAULT 0,
    strip_numbers BOOLEAN DEFAULT 0,
    strip_nonlatin BOOLEAN DEFAULT 0,
    PRIMARY KEY (report_id, position),
    FOREIGN KEY (report_id) REFERENCES reports(report_id) ON DELETE CASCADE
);
`
