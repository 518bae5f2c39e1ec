package scribe

import (
	"fmt"
	"strings"
)

// LocatorKind selects how a Locator value is interpreted.
type LocatorKind string

const (
	CSS   LocatorKind = "css"
	XPath LocatorKind = "xpath"
)

// Locator finds one or more elements on a page.
type Locator struct {
	Kind  LocatorKind
	Value string
}

func (l Locator) String() string {
	return string(l.Kind) + ":" + l.Value
}

// ParseLocator reads the "css:<selector>" or "xpath:<expr>" form.
// A value without a prefix is treated as a CSS selector.
func ParseLocator(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}
	kind, value, found := strings.Cut(s, ":")
	if !found {
		return Locator{Kind: CSS, Value: s}, nil
	}
	switch LocatorKind(strings.ToLower(kind)) {
	case CSS:
		return Locator{Kind: CSS, Value: strings.TrimSpace(value)}, nil
	case XPath:
		return Locator{Kind: XPath, Value: strings.TrimSpace(value)}, nil
	}
	// Pseudo-classes like "a:hover" have no known prefix.
	return Locator{Kind: CSS, Value: s}, nil
}

// Role is the logical name of a UI element the pipeline interacts with.
type Role string

const (
	RoleConsentButton     Role = "consent_button"
	RoleSearchBox         Role = "search_box"
	RoleResultTitle       Role = "result_title"
	RoleVideoTitle        Role = "video_title"
	RoleMuteButton        Role = "mute_button"
	RoleExpandButton      Role = "expand_button"
	RoleTranscriptButton  Role = "transcript_button"
	RoleTranscriptSegment Role = "transcript_segment"
)

// Roles lists every role in pipeline order.
var Roles = []Role{
	RoleConsentButton,
	RoleSearchBox,
	RoleResultTitle,
	RoleVideoTitle,
	RoleMuteButton,
	RoleExpandButton,
	RoleTranscriptButton,
	RoleTranscriptSegment,
}

// Locators maps each role to the selector used to find it.
type Locators map[Role]Locator

// DefaultSectionHeaderTag is the element type of a transcript section header.
const DefaultSectionHeaderTag = "ytd-transcript-section-header-renderer"

// DefaultLocators returns the selectors for the current YouTube layout.
func DefaultLocators() Locators {
	return Locators{
		RoleConsentButton:     {Kind: XPath, Value: "//button[contains(@aria-label, 'Accept')]"},
		RoleSearchBox:         {Kind: CSS, Value: `input[name="search_query"]`},
		RoleResultTitle:       {Kind: CSS, Value: "#video-title"},
		RoleVideoTitle:        {Kind: CSS, Value: ".title"},
		RoleMuteButton:        {Kind: CSS, Value: ".ytp-mute-button"},
		RoleExpandButton:      {Kind: XPath, Value: "//*[@id='expand']"},
		RoleTranscriptButton:  {Kind: XPath, Value: "//button[@aria-label='Show transcript']"},
		RoleTranscriptSegment: {Kind: CSS, Value: ".ytd-transcript-segment-list-renderer>*"},
	}
}

// Get returns the locator for role, falling back to the default table.
func (l Locators) Get(role Role) Locator {
	if loc, ok := l[role]; ok && loc.Value != "" {
		return loc
	}
	return DefaultLocators()[role]
}

// Merge returns a copy of l with the entries of override applied on top.
func (l Locators) Merge(override Locators) Locators {
	out := make(Locators, len(l)+len(override))
	for role, loc := range l {
		out[role] = loc
	}
	for role, loc := range override {
		if loc.Value != "" {
			out[role] = loc
		}
	}
	return out
}
