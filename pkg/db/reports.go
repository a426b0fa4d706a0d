package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/corporalyser/models"
)

// ReportRecord is one built report.
type ReportRecord struct {
	ReportID     int64
	ReportKey    string
	RunID        string
	Name         string
	Version      string
	ArtifactPath string
	ContentHash  string
	CreatedAt    time.Time
	SourceCount  int
}

// RecordReport stores a built report and its sources in one transaction.
func (db *DB) RecordReport(r ReportRecord, sources []models.ReportSource) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO reports (report_key, run_id, name, version, artifact_path, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ReportKey, r.RunID, r.Name, r.Version, r.ArtifactPath, r.ContentHash, r.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	reportID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report ID: %w", err)
	}

	for i, s := range sources {
		_, err := tx.Exec(`
			INSERT INTO report_sources (report_id, position, source_id, source_type, weight,
			                            strip_whitespace, strip_punctuation, strip_numbers, strip_nonlatin)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, reportID, i, s.ID, string(s.Type), s.Weight,
			s.StripWhitespace, s.StripPunctuation, s.StripNumbers, s.StripNonLatin)
		if err != nil {
			return 0, fmt.Errorf("failed to insert report source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report: %w", err)
	}
	return reportID, nil
}

// ListReports retrieves reports ordered by most recent first
func (db *DB) ListReports(limit int) ([]ReportRecord, error) {
	query := `
		SELECT r.report_id, r.report_key, r.run_id, r.name, r.version, r.artifact_path,
		       r.content_hash, r.created_at, COUNT(s.position)
		FROM reports r
		LEFT JOIN report_sources s ON s.report_id = r.report_id
		GROUP BY r.report_id
		ORDER BY r.created_at DESC, r.report_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var r ReportRecord
		var name, version, hash sql.NullString
		if err := rows.Scan(&r.ReportID, &r.ReportKey, &r.RunID, &name, &version, &r.ArtifactPath,
			&hash, &r.CreatedAt, &r.SourceCount); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.Name, r.Version, r.ContentHash = name.String, version.String, hash.String
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetReportSources returns the stored recipe entries of a report in order.
func (db *DB) GetReportSources(reportID int64) ([]models.ReportSource, error) {
	rows, err := db.Query(`
		SELECT source_id, source_type, weight, strip_whitespace, strip_punctuation, strip_numbers, strip_nonlatin
		FROM report_sources
		WHERE report_id = ?
		ORDER BY position
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report sources: %w", err)
	}
	defer rows.Close()

	var sources []models.ReportSource
	for rows.Next() {
		var s models.ReportSource
		var typ string
		if err := rows.Scan(&s.ID, &typ, &s.Weight, &s.StripWhitespace, &s.StripPunctuation,
			&s.StripNumbers, &s.StripNonLatin); err != nil {
			return nil, fmt.Errorf("failed to scan report source: %w", err)
		}
		s.Type = models.SourceType(typ)
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
