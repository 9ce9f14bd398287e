package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// publishedTime resolves the best available publication time of an item in UTC.
// Order: parsed published, parsed updated, dublin core date/created, loose parsing
// of the raw strings, and finally now.
func publishedTime(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil && !item.PublishedParsed.IsZero() {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil && !item.UpdatedParsed.IsZero() {
		return item.UpdatedParsed.UTC()
	}

	created := createdValues(item)
	for _, v := range created {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t.UTC()
		}
	}

	raw := append([]string{item.Published, item.Updated}, created...)
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if t, err := dateparse.ParseIn(v, time.UTC); err == nil {
			return t.UTC()
		}
	}

	return now.UTC()
}

// createdValues collects dc:date and dcterms:created values of an item
func createdValues(item *gofeed.Item) []string {
	var res []string
	if item.DublinCoreExt != nil {
		res = append(res, item.DublinCoreExt.Date...)
	}
	for _, ns := range []string{"dcterms", "dc"} {
		for _, ext := range item.Extensions[ns]["created"] {
			res = append(res, ext.Value)
		}
	}
	return res
}
