package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/umputun/newswire/pkg/domain"
)

// Parser converts raw RSS/Atom documents into domain entries
type Parser struct {
	maxEntries int
}

// Parsed is a parsed feed document
type Parsed struct {
	Title   string
	Entries []domain.Entry
}

// NewParser makes a parser keeping at most maxEntries items of each document, 0 means all
func NewParser(maxEntries int) *Parser {
	return &Parser{maxEntries: maxEntries}
}

// Parse decodes body to utf-8 and parses it as a feed. now is used for entries
// without any usable date.
func (p *Parser) Parse(body []byte, contentType string, now time.Time) (*Parsed, error) {
	body, err := toUTF8(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if p.maxEntries > 0 && len(items) > p.maxEntries {
		items = items[:p.maxEntries]
	}

	res := &Parsed{Title: normalize(feed.Title), Entries: make([]domain.Entry, 0, len(items))}
	for _, item := range items {
		res.Entries = append(res.Entries, toEntry(item, now))
	}
	return res, nil
}

// toEntry converts a gofeed item, missing fields become empty strings
func toEntry(item *gofeed.Item, now time.Time) domain.Entry {
	entry := domain.Entry{
		EntryID:   item.GUID,
		Title:     normalize(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Summary:   item.Description,
		Published: publishedTime(item, now),
	}
	if entry.EntryID == "" {
		entry.EntryID = entry.Link
	}
	if entry.Summary == "" {
		entry.Summary = item.Content
	}
	switch {
	case item.Author != nil:
		entry.Author = normalize(item.Author.Name)
	case len(item.Authors) > 0 && item.Authors[0] != nil:
		entry.Author = normalize(item.Authors[0].Name)
	}
	return entry
}

// normalize trims and converts text to NFC form
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// toUTF8 converts body declared in a legacy charset by the response header or a BOM.
// Documents with their own xml encoding declaration are left to the feed parser,
// guessed encodings are ignored and the body is treated as utf-8.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	if hasXMLEncoding(body) {
		return body, nil
	}
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain || name == "utf-8" || enc == nil {
		return body, nil
	}
	return enc.NewDecoder().Bytes(body)
}

// hasXMLEncoding checks for encoding attribute in the xml prolog
func hasXMLEncoding(body []byte) bool {
	head := bytes.TrimLeft(body, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(head, []byte("<?xml")) {
		return false
	}
	end := bytes.Index(head, []byte("?>"))
	if end < 0 {
		return false
	}
	return bytes.Contains(head[:end], []byte("encoding="))
}
