package corpus

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SentencesSuffix marks the sentence file inside a Wortschatz archive.
const SentencesSuffix = "-sentences.txt"

var ErrSentencesNotFound = errors.New("archive has no sentence file")

// ExtractWortschatzSentences reads a .tar.gz corpus archive and returns the
// content of its first *-sentences.txt entry.
func ExtractWortschatzSentences(r io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, ErrSentencesNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !strings.HasSuffix(hdr.Name, SentencesSuffix) {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", hdr.Name, err)
		}
		return data, nil
	}
}
