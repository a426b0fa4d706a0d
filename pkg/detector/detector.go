// Package detector guesses the language of a corpus from a sample of its sentences.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultSampleSize is the number of sentences handed to the language model.
const DefaultSampleSize = 200

// Result is the detected language of a sample.
type Result struct {
	Language   string  // ISO 639-1, lower case
	Name       string  // English name of the language
	Confidence float64 // 0..1
}

// Detector wraps a lingua language detector.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds a detector restricted to languages. With fewer than two languages
// every supported language is considered.
func New(languages ...lingua.Language) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()
	var b lingua.LanguageDetectorBuilder
	if len(languages) >= 2 {
		b = builder.FromLanguages(languages...)
	} else {
		b = builder.FromAllLanguages()
	}
	return &Detector{lingua: b.WithLowAccuracyMode().Build()}
}

// DetectSample picks up to size sentences spread evenly over the corpus and
// detects their common language. ok is false when no language is reliable.
func (d *Detector) DetectSample(sentences []string, size int) (res Result, ok bool) {
	text := sample(sentences, size)
	if strings.TrimSpace(text) == "" {
		return Result{}, false
	}

	language, exists := d.lingua.DetectLanguageOf(text)
	if !exists {
		return Result{}, false
	}
	return Result{
		Language:   strings.ToLower(language.IsoCode639_1().String()),
		Name:       language.String(),
		Confidence: d.lingua.ComputeLanguageConfidence(text, language),
	}, true
}

func sample(sentences []string, size int) string {
	if size <= 0 {
		size = DefaultSampleSize
	}
	if len(sentences) <= size {
		return strings.Join(sentences, "\n")
	}

	picked := make([]string, 0, size)
	step := float64(len(sentences)) / float64(size)
	for i := range size {
		picked = append(picked, sentences[int(float64(i)*step)])
	}
	return strings.Join(picked, "\n")
}
