package feed

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/newswire/pkg/domain"
)

// Generator renders stored entries and the configured catalog as RSS and OPML
type Generator struct {
	baseURL string
	title   string
}

// NewGenerator creates a new feed generator, baseURL is the public url of the service
func NewGenerator(baseURL, title string) *Generator {
	if title == "" {
		title = "Newswire"
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		title:   title,
	}
}

// GenerateRSS creates an RSS 2.0 feed from the latest entries, optionally limited to one category
func (g *Generator) GenerateRSS(entries []domain.LatestEntry, category string) (string, error) {
	title := g.title
	selfLink := g.baseURL + "/rss"
	if category != "" {
		title = fmt.Sprintf("%s - %s", g.title, category)
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, category)
	}

	items := make([]*RSSItem, 0, len(entries))
	for _, e := range entries {
		if category != "" && !strings.EqualFold(e.CategoryKey, category) {
			continue
		}
		items = append(items, &RSSItem{
			Title:       e.Title,
			Link:        e.Link,
			GUID:        RSSGUID{Value: "newswire-" + strconv.FormatInt(e.ID, 10)},
			Description: e.Summary,
			Author:      e.Author,
			PubDate:     e.Published.Format(time.RFC1123Z),
			Categories:  []string{e.Category, e.FeedName},
		})
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Latest entries collected from monitored feeds",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// GenerateOPML creates an OPML file with the catalog, one outline group per category
func (g *Generator) GenerateOPML(catalog domain.Catalog) (string, error) {
	catKeys := make([]string, 0, len(catalog))
	for k := range catalog {
		catKeys = append(catKeys, k)
	}
	sort.Strings(catKeys)

	groups := make([]OPMLOutline, 0, len(catKeys))
	for _, catKey := range catKeys {
		cat := catalog[catKey]
		feedKeys := make([]string, 0, len(cat.Feeds))
		for k := range cat.Feeds {
			feedKeys = append(feedKeys, k)
		}
		sort.Strings(feedKeys)

		group := OPMLOutline{Text: cat.Name, Title: cat.Name}
		for _, feedKey := range feedKeys {
			info := cat.Feeds[feedKey]
			group.Outlines = append(group.Outlines, OPMLOutline{
				Text:     info.Name,
				Title:    info.Name,
				Type:     "rss",
				XMLURL:   info.URL,
				Category: info.Type,
			})
		}
		groups = append(groups, group)
	}

	doc := OPML{
		Version: "2.0",
		Head:    OPMLHead{Title: g.title + " subscriptions", DateCreated: time.Now().Format(time.RFC1123Z)},
		Body:    OPMLBody{Outlines: groups},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
