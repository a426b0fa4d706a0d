package corpus

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"strings"
	"testing"
)

func TestParseSentences(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		opts          LoadOptions
		wantLines     []string
		wantMalformed int
		wantErr       error
	}{
		{
			name:      "well formed",
			input:     "1\tHello World\n2\tSecond line\n",
			wantLines: []string{"Hello World", "Second line"},
		},
		{
			name:      "lowercase",
			input:     "1\tÄRGER über Straße\r\n",
			opts:      LoadOptions{Lowercase: true},
			wantLines: []string{"ärger über straße"},
		},
		{
			name:          "malformed lines skipped",
			input:         "1\tgood\nno tab here\n\tmissing id\n2\talso good\n",
			wantLines:     []string{"good", "also good"},
			wantMalformed: 2,
		},
		{
			name:      "content keeps later tabs",
			input:     "7\ta\tb\n",
			wantLines: []string{"a\tb"},
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:  "blank lines only",
			input: "\n\n  \n",
		},
		{
			name:    "all malformed",
			input:   "nothing\nhere\n",
			wantErr: ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSentences(strings.NewReader(tt.input), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSentences() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSentences() failed: %v", err)
			}
			if len(got.Lines) != len(tt.wantLines) {
				t.Fatalf("Lines = %q, want %q", got.Lines, tt.wantLines)
			}
			for i := range tt.wantLines {
				if got.Lines[i] != tt.wantLines[i] {
					t.Errorf("line %d = %q, want %q", i, got.Lines[i], tt.wantLines[i])
				}
			}
			if got.Malformed != tt.wantMalformed {
				t.Errorf("Malformed = %d, want %d", got.Malformed, tt.wantMalformed)
			}
		})
	}
}

func TestWriteSentencesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := []string{"first sentence.", "tab\there", "multi\nline"}
	if err := WriteSentences(&buf, in); err != nil {
		t.Fatalf("WriteSentences() failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "1\tfirst sentence.\n2\t") {
		t.Errorf("output = %q", buf.String())
	}

	got, err := ParseSentences(&buf, LoadOptions{})
	if err != nil {
		t.Fatalf("ParseSentences() failed: %v", err)
	}
	want := []string{"first sentence.", "tab here", "multi line"}
	for i := range want {
		if got.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got.Lines[i], want[i])
		}
	}
}

func buildArchive(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, name := range order {
		body := files[name]
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0600, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractWortschatzSentences(t *testing.T) {
	files := map[string]string{
		"eng_news_2020_10K/eng_news_2020_10K-words.txt":     "1\tthe\t100\n",
		"eng_news_2020_10K/eng_news_2020_10K-sentences.txt": "1\tThe cat sat.\n",
	}
	archive := buildArchive(t, files, []string{
		"eng_news_2020_10K/eng_news_2020_10K-words.txt",
		"eng_news_2020_10K/eng_news_2020_10K-sentences.txt",
	})

	got, err := ExtractWortschatzSentences(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("ExtractWortschatzSentences() failed: %v", err)
	}
	if string(got) != "1\tThe cat sat.\n" {
		t.Errorf("content = %q", got)
	}
}

func TestExtractWortschatzSentencesMissing(t *testing.T) {
	archive := buildArchive(t, map[string]string{"x/x-words.txt": "1\ta\t1\n"}, []string{"x/x-words.txt"})
	if _, err := ExtractWortschatzSentences(bytes.NewReader(archive)); !errors.Is(err, ErrSentencesNotFound) {
		t.Errorf("error = %v, want ErrSentencesNotFound", err)
	}

	if _, err := ExtractWortschatzSentences(strings.NewReader("not gzip")); err == nil {
		t.Error("non-gzip input should fail")
	}
}
