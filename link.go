package docgrab

// Channel identifies the discovery surface a candidate link was found on.
type Channel string

// Discovery channels, in the order the extractor scans them.
const (
	ChannelAnchor       Channel = "anchor"
	ChannelScriptString Channel = "script-string"
	ChannelScriptJSON   Channel = "script-json"
)

// CandidateLink is a discovered but unverified document reference.
// Two links with the same URL are the same document regardless of
// Text or Channel.
type CandidateLink struct {
	URL     string // absolute, fragment stripped
	Text    string
	Channel Channel
}

// LinkExtractor finds document references in rendered HTML.
type LinkExtractor interface {
	// Extract returns candidate links deduplicated by absolute URL, in the
	// order they were first seen. Relative references are resolved against
	// baseURL.
	Extract(html string, baseURL string) ([]CandidateLink, error)
}
