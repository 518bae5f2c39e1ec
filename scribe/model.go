package scribe

// SearchResult is a handle to one entry of the result listing. It is only
// valid while the listing page stays loaded.
type SearchResult struct {
	Index int
	Link  Element
}

// VideoRecord is the output for one processed result. Transcript is empty
// when none could be extracted.
type VideoRecord struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Transcript string `json:"transcript"`
}

// SegmentKind tells a section header apart from a caption line.
type SegmentKind int

const (
	Caption SegmentKind = iota
	SectionHeader
)

func (k SegmentKind) String() string {
	if k == SectionHeader {
		return "header"
	}
	return "caption"
}

// Segment is one child of the transcript panel.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Report is the outcome of one search run. Records keep listing order.
type Report struct {
	Query   string        `json:"query"`
	Records []VideoRecord `json:"records"`
	Skipped []*VideoError `json:"-"`
}
