package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// textSelector lists the tags whose text is natural-language prose.
const textSelector = "h1,h2,h3,h4,p,li,blockquote"

type Parser struct{}

// Document is the prose extracted from one web page.
type Document struct {
	URL       string
	Title     string
	Sentences []string
}

// ExtractSentences uses go-readability to find the main article content and
// splits the text of its prose blocks into sentences.
func (p *Parser) ExtractSentences(rawURL, html string) (*Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	article, err := readability.NewParser().Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article HTML: %w", err)
	}

	out := &Document{URL: rawURL, Title: normalizeText(article.Title)}
	doc.Find(textSelector).Each(func(i int, s *goquery.Selection) {
		// Parents repeat the text of nested prose blocks.
		if s.Find(textSelector).Length() > 0 {
			return
		}
		out.Sentences = append(out.Sentences, SplitSentences(normalizeText(s.Text()))...)
	})

	return out, nil
}

// SplitSentences breaks text after '.', '!' or '?' when followed by white space.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
