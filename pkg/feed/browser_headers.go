package feed

import (
	"math/rand"
	"net/http"
)

// feedAccept lists feed media types first, some servers send html to unknown clients
const feedAccept = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,fr;q=0.8",
	"fr-FR,fr;q=0.9,en;q=0.8",
}

// addBrowserHeaders sets headers common for feed readers and browsers,
// a few hosts reject requests carrying only a user agent
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", feedAccept)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
}
