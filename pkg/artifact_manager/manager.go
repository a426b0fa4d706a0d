package artifact_manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/corporalyser/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseDir = "corpora"
	DataDir        = "data"
	AnalysisDir    = "analysis"
	RecipeDir      = "recipe"
	ReportDir      = "report"
	ExportDir      = "export"
	CacheDir       = "cache"

	SentencesFile = "sentences.txt"
)

// recipeExtensions are tried in order when looking up a recipe.
var recipeExtensions = []string{".yaml", ".yml", ".json"}

// Manager handles storage and retrieval of corpus artifacts inside a working directory.
type Manager struct {
	baseDir string
	maxAge  time.Duration // Max age of a downloaded corpus before it's considered stale
}

// NewManager creates a new Artifact Manager instance.
// It ensures the base directory and its subdirectories exist.
func NewManager(baseDir string, maxAge time.Duration) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	for _, dir := range []string{DataDir, AnalysisDir, RecipeDir, ReportDir, ExportDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0750); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	return &Manager{baseDir: baseDir, maxAge: maxAge}, nil
}

// BaseDir returns the working directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// MaxAge returns the configured max age for downloaded corpora.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// SentencesPath returns data/<id>/sentences.txt.
func (m *Manager) SentencesPath(id string) string {
	return filepath.Join(m.baseDir, DataDir, id, SentencesFile)
}

// AnalysisPath returns analysis/<id>.json.
func (m *Manager) AnalysisPath(id string) string {
	return filepath.Join(m.baseDir, AnalysisDir, id+".json")
}

// SummaryPath returns analysis/<id>.summary.yaml.
func (m *Manager) SummaryPath(id string) string {
	return filepath.Join(m.baseDir, AnalysisDir, id+".summary.yaml")
}

// ReportPath returns report/<id>.json.
func (m *Manager) ReportPath(id string) string {
	return filepath.Join(m.baseDir, ReportDir, id+".json")
}

// ExportPath returns export/<kind>/<id>.json.
func (m *Manager) ExportPath(kind, id string) string {
	return filepath.Join(m.baseDir, ExportDir, kind, id+".json")
}

// RecipePath returns the first existing recipe/<id>.{yaml,yml,json}.
func (m *Manager) RecipePath(id string) (string, error) {
	for _, ext := range recipeExtensions {
		p := filepath.Join(m.baseDir, RecipeDir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("error statting recipe: %w", err)
		}
	}
	return "", fmt.Errorf("recipe %q in %s: %w", id, filepath.Join(m.baseDir, RecipeDir), fs.ErrNotExist)
}

// CachePath returns the directory of the fetched-page cache.
func (m *Manager) CachePath() string {
	return filepath.Join(m.baseDir, CacheDir)
}

// SentencesFresh reports whether the sentence file of a corpus exists and is
// younger than maxAge. A non-positive maxAge never expires.
func (m *Manager) SentencesFresh(id string) (exists, fresh bool, err error) {
	info, err := os.Stat(m.SentencesPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("error statting sentences: %w", err)
	}
	if m.maxAge > 0 && time.Since(info.ModTime()) > m.maxAge {
		return true, false, nil // Stale
	}
	return true, true, nil
}

// WriteSentences stores the sentence file of a corpus.
func (m *Manager) WriteSentences(id string, data []byte) error {
	if err := writeAtomic(m.SentencesPath(id), data); err != nil {
		return fmt.Errorf("failed to write sentences: %w", err)
	}
	return nil
}

// LoadAnalysis reads analysis/<id>.json.
func (m *Manager) LoadAnalysis(id string) (*models.AnalysisArtifact, error) {
	var art models.AnalysisArtifact
	if err := readJSON(m.AnalysisPath(id), &art); err != nil {
		return nil, err
	}
	return &art, nil
}

// LoadAnalysisHeader reads the source and metadata of an analysis artifact
// without building its occurrence maps.
func (m *Manager) LoadAnalysisHeader(id string) (models.AnalysisSource, models.AnalysisMetadata, error) {
	var header struct {
		Source   models.AnalysisSource   `json:"source"`
		Metadata models.AnalysisMetadata `json:"metadata"`
	}
	if err := readJSON(m.AnalysisPath(id), &header); err != nil {
		return models.AnalysisSource{}, models.AnalysisMetadata{}, err
	}
	return header.Source, header.Metadata, nil
}

// WriteAnalysis stores an analysis artifact and returns its path.
func (m *Manager) WriteAnalysis(id string, art *models.AnalysisArtifact) (string, error) {
	path := m.AnalysisPath(id)
	if _, err := writeJSON(path, art); err != nil {
		return "", fmt.Errorf("failed to write analysis: %w", err)
	}
	return path, nil
}

// WriteSummary stores the YAML run summary of an analysis.
func (m *Manager) WriteSummary(id string, summary any) (string, error) {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	path := m.SummaryPath(id)
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

// LoadRecipe reads a YAML or JSON recipe.
func (m *Manager) LoadRecipe(id string) (*models.ReportRecipe, error) {
	path, err := m.RecipePath(id)
	if err != nil {
		return nil, err
	}

	var recipe models.ReportRecipe
	if filepath.Ext(path) == ".json" {
		if err := readJSON(path, &recipe); err != nil {
			return nil, err
		}
		return &recipe, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading recipe: %w", err)
	}
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe %s: %w", path, err)
	}
	return &recipe, nil
}

// LoadReport reads report/<id>.json.
func (m *Manager) LoadReport(id string) (*models.Report, error) {
	var rep models.Report
	if err := readJSON(m.ReportPath(id), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// WriteReport stores a report and returns its path and the bytes written.
func (m *Manager) WriteReport(rep *models.Report) (string, []byte, error) {
	path := m.ReportPath(rep.Metadata.ID)
	data, err := writeJSON(path, rep)
	if err != nil {
		return "", nil, fmt.Errorf("failed to write report: %w", err)
	}
	return path, data, nil
}

// WriteExport stores an export unless it exists and force is false.
// written is false when an existing file was kept.
func (m *Manager) WriteExport(kind, id string, v any, force bool) (path string, written bool, err error) {
	path = m.ExportPath(kind, id)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}
	if _, err := writeJSON(path, v); err != nil {
		return "", false, fmt.Errorf("failed to write %s export: %w", kind, err)
	}
	return path, true, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("error opening artifact: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeAtomic writes data to a temp file next to path and renames it into place,
// so readers never see a partial artifact.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}
