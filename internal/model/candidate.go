package model

// Candidate is a raw scraped item as it comes off a source adapter,
// before structured extraction. Candidates are ephemeral: they are
// produced by the collector, consumed once by the extractor, and never
// persisted.
type Candidate struct {
	Link       string `json:"link"`        // Canonical URL, dedupe key across sources
	Title      string `json:"title"`       // Headline as published by the source
	SourceName string `json:"source_name"` // Which adapter produced it
	RawText    string `json:"raw_text"`    // Body text, filled by the collector's body fetch
}
