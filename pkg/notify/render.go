package notify

import (
	"html"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/newswire/pkg/domain"
)

const (
	maxTitleLen   = 256
	maxSummaryLen = 300
)

// style is the icon and color of a feed type
type style struct {
	icon  string
	color int
}

var styles = map[string]style{
	"announcements": {icon: "📢", color: 0x5865F2},
	"releases":      {icon: "🚀", color: 0x57F287},
	"commits":       {icon: "💻", color: 0xFEE75C},
}

var defaultStyle = style{icon: "📰", color: 0x99AAB5}

var typeLabels = map[string]string{
	"announcements": "Announcement",
	"releases":      "Release",
	"commits":       "Commit",
}

var stripPolicy = bluemonday.StrictPolicy()

// render builds the webhook message for an entry and sink
func (n *Notifier) render(entry domain.NewEntry, sink Sink, now time.Time) Payload {
	st, ok := styles[entry.FeedType]
	if !ok {
		st = defaultStyle
	}

	embed := Embed{
		Title:       truncate(st.icon+" "+entry.Title, maxTitleLen),
		Description: truncate(stripMarkup(entry.Summary), maxSummaryLen),
		URL:         entry.Link,
		Color:       st.color,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      &EmbedFooter{Text: entry.CategoryName + " • " + entry.FeedName},
		Fields: []EmbedField{
			{Name: "Type", Value: typeLabel(entry.FeedType), Inline: true},
			{Name: "Source", Value: entry.FeedName, Inline: true},
		},
	}
	if entry.Author != "" {
		embed.Author = &EmbedAuthor{Name: entry.Author}
	}

	payload := Payload{Username: n.username, Embeds: []Embed{embed}}
	if sink.MentionRole != "" {
		payload.Content = "<@&" + sink.MentionRole + ">"
	}

	siteURL := n.siteURL
	if sink.SiteURL != "" {
		siteURL = sink.SiteURL
	}
	if siteURL != "" {
		payload.Components = []Component{linkButton(n.buttonLabel, articleLink(siteURL, entry.EntryID))}
	}
	return payload
}

// renderTest builds the connectivity test message
func (n *Notifier) renderTest(sink Sink, now time.Time) Payload {
	notifications := "disabled"
	if n.enabled {
		notifications = "enabled"
	}
	payload := Payload{
		Username: n.username,
		Embeds: []Embed{{
			Title:       "✅ Webhook connection test",
			Description: "This message confirms the webhook is configured correctly.",
			Color:       0x57F287,
			Timestamp:   now.UTC().Format(time.RFC3339),
			Footer:      &EmbedFooter{Text: "Newswire"},
			Fields: []EmbedField{
				{Name: "Status", Value: "connected", Inline: true},
				{Name: "Notifications", Value: notifications, Inline: true},
			},
		}},
	}
	siteURL := n.siteURL
	if sink.SiteURL != "" {
		siteURL = sink.SiteURL
	}
	if siteURL != "" {
		payload.Components = []Component{linkButton(n.buttonLabel, siteURL)}
	}
	return payload
}

func linkButton(label, link string) Component {
	return Component{
		Type: componentActionRow,
		Components: []Button{{
			Type:  componentButton,
			Style: buttonStyleLink,
			Label: label,
			URL:   link,
			Emoji: &ButtonEmoji{Name: "🔗"},
		}},
	}
}

// articleLink makes a deep link to the entry, the id is fully percent-encoded
func articleLink(siteURL, entryID string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(entryID), "+", "%20")
	return siteURL + "?article=" + escaped
}

// typeLabel returns display label for a feed type
func typeLabel(feedType string) string {
	if label, ok := typeLabels[feedType]; ok {
		return label
	}
	if feedType == "" {
		return ""
	}
	runes := []rune(strings.ToLower(feedType))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// stripMarkup removes html tags, decodes entities and collapses whitespace
func stripMarkup(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// truncate limits s to limit runes, ending with "..." when cut
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
