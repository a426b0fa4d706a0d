// Package corpus reads and writes tab-delimited sentence files and unpacks
// Wortschatz archives.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxLineBytes bounds a single sentence line.
const maxLineBytes = 1 << 20

var ErrMalformedInput = errors.New("malformed corpus input")

// LoadOptions controls sentence parsing.
type LoadOptions struct {
	Lowercase bool
}

// Sentences is the content of a sentence file.
type Sentences struct {
	Lines     []string
	Malformed int // non-empty lines without an id<TAB>content pair
}

// ParseSentences reads id<TAB>content lines. Malformed lines are skipped and
// counted; if no line is well formed the whole input is rejected. Empty input
// yields zero sentences.
func ParseSentences(r io.Reader, opts LoadOptions) (*Sentences, error) {
	var caser cases.Caser
	if opts.Lowercase {
		caser = cases.Lower(language.Und)
	}

	out := &Sentences{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		id, content, ok := strings.Cut(line, "\t")
		if !ok || strings.TrimSpace(id) == "" {
			out.Malformed++
			continue
		}
		if opts.Lowercase {
			content = caser.String(content)
		}
		out.Lines = append(out.Lines, content)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sentences: %w", err)
	}

	if len(out.Lines) == 0 && out.Malformed > 0 {
		return nil, fmt.Errorf("%w: all %d lines lack an id<TAB>sentence pair", ErrMalformedInput, out.Malformed)
	}
	return out, nil
}

// WriteSentences writes one n<TAB>sentence line per sentence, numbering from 1.
// Tabs and line breaks inside a sentence become spaces.
func WriteSentences(w io.Writer, sentences []string) error {
	bw := bufio.NewWriter(w)
	clean := strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
	for i, s := range sentences {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", i+1, clean.Replace(s)); err != nil {
			return fmt.Errorf("failed to write sentence: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sentences: %w", err)
	}
	return nil
}
