package domain

// FeedInfo describes a configured feed source
type FeedInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// CategorySource is a configured category with its feeds keyed by feed key
type CategorySource struct {
	Name  string
	Feeds map[string]FeedInfo
}

// Catalog maps category key to its configured sources
type Catalog map[string]CategorySource

// FetchedFeed is the result of retrieving a single feed
type FetchedFeed struct {
	Info    FeedInfo
	Title   string // title announced by the source itself
	Entries []Entry
}

// FetchedCategory holds fetched feeds of one category, keyed by feed key.
// Feeds that failed to fetch are absent.
type FetchedCategory struct {
	Name  string
	Feeds map[string]FetchedFeed
}

// Bundle is the fetch output of one cycle, keyed by category key
type Bundle map[string]FetchedCategory

// EntriesCount returns the total number of entries in the bundle
func (b Bundle) EntriesCount() int {
	res := 0
	for _, c := range b {
		for _, f := range c.Feeds {
			res += len(f.Entries)
		}
	}
	return res
}
