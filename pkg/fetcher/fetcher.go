package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// WortschatzBaseURL serves the Leipzig corpora archives.
const WortschatzBaseURL = "https://downloads.wortschatz-leipzig.de/corpora"

// WortschatzURL returns the archive URL of a Wortschatz corpus id.
func WortschatzURL(id string) string {
	return fmt.Sprintf("%s/%s.tar.gz", WortschatzBaseURL, id)
}

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// GetHtml fetches a page and parses it into a goquery document.
func (f *Fetcher) GetHtml(url string) (*goquery.Document, error) {
	bodyBytes, err := f.GetBytes(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetBytes fetches url and returns the body. Any status other than 200 is an error.
func (f *Fetcher) GetBytes(url string) ([]byte, error) {
	resp, err := f.get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

// GetPage fetches an HTML page and returns it as UTF-8, decoding the charset
// named by the Content-Type header or the document's meta tags.
func (f *Fetcher) GetPage(url string) ([]byte, error) {
	resp, err := f.get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to detect page encoding: %w", err)
	}
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

func (f *Fetcher) get(url string) (*http.Response, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s, status code: %d", url, resp.StatusCode)
	}
	return resp, nil
}
