package feed

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title> Test Feed </title>
	<link>http://example.com</link>
	<description>Test Description</description>
	<item>
		<title>Test Article 1</title>
		<link>http://example.com/article1</link>
		<description>Article 1 description</description>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		<guid>guid-1</guid>
		<author>test@example.com (Test Author)</author>
	</item>
	<item>
		<title>Test Article 2</title>
		<link>http://example.com/article2</link>
		<description>Article 2 description</description>
	</item>
	<item>
		<title>No identity</title>
	</item>
</channel>
</rss>`

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	parsed, err := NewParser(20).Parse([]byte(rssContent), "application/rss+xml", now)
	require.NoError(t, err)

	assert.Equal(t, "Test Feed", parsed.Title)
	require.Len(t, parsed.Entries, 3)

	e1 := parsed.Entries[0]
	assert.Equal(t, "guid-1", e1.EntryID)
	assert.Equal(t, "Test Article 1", e1.Title)
	assert.Equal(t, "http://example.com/article1", e1.Link)
	assert.Equal(t, "Article 1 description", e1.Summary)
	assert.Equal(t, "Test Author", e1.Author)
	assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), e1.Published)

	// no guid, link is the id; no date, fetch time is used
	e2 := parsed.Entries[1]
	assert.Equal(t, "http://example.com/article2", e2.EntryID)
	assert.Equal(t, now.UTC(), e2.Published)
	assert.Equal(t, "", e2.Author)

	e3 := parsed.Entries[2]
	assert.Equal(t, "", e3.EntryID)
	assert.Equal(t, "", e3.Link)
	assert.Equal(t, "", e3.Summary)
}

func TestParser_ParseAtom(t *testing.T) {
	atomContent := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<link href="http://example.com"/>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.com/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<updated>2024-01-02T10:00:00+02:00</updated>
		<summary>Atom summary</summary>
		<author><name>Jane</name></author>
	</entry>
	<entry>
		<title>Atom Entry 2</title>
		<id>tag:example.com,2024:2</id>
		<content type="html">&lt;p&gt;only content&lt;/p&gt;</content>
		<published>2024-01-03T00:00:00Z</published>
		<updated>2024-01-05T00:00:00Z</updated>
	</entry>
</feed>`

	parsed, err := NewParser(0).Parse([]byte(atomContent), "application/atom+xml", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Test Atom Feed", parsed.Title)
	require.Len(t, parsed.Entries, 2)

	assert.Equal(t, "urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a", parsed.Entries[0].EntryID)
	assert.Equal(t, "Jane", parsed.Entries[0].Author)
	assert.Equal(t, "Atom summary", parsed.Entries[0].Summary)
	assert.Equal(t, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), parsed.Entries[0].Published)

	// published wins over updated, content is used when there is no summary
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), parsed.Entries[1].Published)
	assert.Equal(t, "<p>only content</p>", parsed.Entries[1].Summary)
}

func TestParser_ParseTruncates(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Many</title>`)
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "<item><title>item %d</title><guid>g%d</guid></item>", i, i)
	}
	sb.WriteString(`</channel></rss>`)

	parsed, err := NewParser(20).Parse([]byte(sb.String()), "", time.Now())
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 20)
	assert.Equal(t, "g0", parsed.Entries[0].EntryID)
	assert.Equal(t, "g19", parsed.Entries[19].EntryID)
}

func TestParser_ParseDublinCoreDate(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
<channel><title>DC</title>
	<item><title>dc date</title><guid>1</guid><dc:date>2023-07-08T09:10:11Z</dc:date></item>
	<item><title>dcterms created</title><guid>2</guid><dcterms:created>2023-05-06T07:08:09Z</dcterms:created></item>
	<item><title>loose date</title><guid>3</guid><pubDate>2023-03-04 05:06:07</pubDate></item>
</channel></rss>`

	parsed, err := NewParser(0).Parse([]byte(rss), "", time.Now())
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 3)
	assert.Equal(t, time.Date(2023, 7, 8, 9, 10, 11, 0, time.UTC), parsed.Entries[0].Published)
	assert.Equal(t, time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC), parsed.Entries[1].Published)
	assert.Equal(t, time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC), parsed.Entries[2].Published)
}

func TestParser_ParseNormalizesText(t *testing.T) {
	// "e" followed by combining acute accent becomes a single code point
	rss := "<?xml version=\"1.0\" encoding=\"UTF-8\"?><rss version=\"2.0\"><channel><title>N</title>" +
		"<item><title>  Cafe\u0301  </title><guid>1</guid><author>Rene\u0301</author></item></channel></rss>"

	parsed, err := NewParser(0).Parse([]byte(rss), "", time.Now())
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, "Caf\u00e9", parsed.Entries[0].Title)
	assert.Equal(t, "Ren\u00e9", parsed.Entries[0].Author)
}

func TestParser_ParseLegacyCharset(t *testing.T) {
	// latin-1 body without xml encoding declaration, charset comes from the header
	body := []byte("<rss version=\"2.0\"><channel><title>Caf\xe9</title><item><title>R\xe9sum\xe9</title><guid>1</guid></item></channel></rss>")

	parsed, err := NewParser(0).Parse(body, "application/rss+xml; charset=iso-8859-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Café", parsed.Title)
	require.Len(t, parsed.Entries, 1)
	assert.Equal(t, "Résumé", parsed.Entries[0].Title)
}

func TestParser_ParseInvalid(t *testing.T) {
	_, err := NewParser(0).Parse([]byte("this is not a feed"), "text/plain", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse feed")
}

func TestHasXMLEncoding(t *testing.T) {
	assert.True(t, hasXMLEncoding([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><rss/>`)))
	assert.True(t, hasXMLEncoding([]byte("\xef\xbb\xbf  <?xml version='1.0' encoding='UTF-8'?><rss/>")))
	assert.False(t, hasXMLEncoding([]byte(`<?xml version="1.0"?><rss/>`)))
	assert.False(t, hasXMLEncoding([]byte(`<rss/>`)))
}
