package scribe

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultBaseURL is the platform root the search starts from.
const DefaultBaseURL = "https://www.youtube.com"

// Timeouts bound every wait in the pipeline.
type Timeouts struct {
	Consent          time.Duration
	SearchBox        time.Duration
	Results          time.Duration
	VideoTitle       time.Duration
	Mute             time.Duration
	Expand           time.Duration
	TranscriptButton time.Duration
	Segments         time.Duration
}

// DefaultTimeouts returns the waits tuned for a typical YouTube page load.
// Player start and transcript population are the slow ones.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Consent:          10 * time.Second,
		SearchBox:        10 * time.Second,
		Results:          10 * time.Second,
		VideoTitle:       10 * time.Second,
		Mute:             60 * time.Second,
		Expand:           20 * time.Second,
		TranscriptButton: 30 * time.Second,
		Segments:         100 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	fill := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&t.Consent, d.Consent)
	fill(&t.SearchBox, d.SearchBox)
	fill(&t.Results, d.Results)
	fill(&t.VideoTitle, d.VideoTitle)
	fill(&t.Mute, d.Mute)
	fill(&t.Expand, d.Expand)
	fill(&t.TranscriptButton, d.TranscriptButton)
	fill(&t.Segments, d.Segments)
	return t
}

// Span is a closed range for a randomized pause.
type Span struct {
	Min time.Duration
	Max time.Duration
}

// Pauses spread request timing between interactions.
type Pauses struct {
	AfterConsent Span
	AfterVideo   Span
}

func DefaultPauses() Pauses {
	return Pauses{
		AfterConsent: Span{Min: 1 * time.Second, Max: 2 * time.Second},
		AfterVideo:   Span{Min: 1 * time.Second, Max: 3 * time.Second},
	}
}

// Pauser sleeps for a duration picked from s. It returns early when ctx ends.
type Pauser func(ctx context.Context, s Span)

// RandomPause sleeps a uniformly random duration within s.
func RandomPause(ctx context.Context, s Span) {
	d := s.Min
	if s.Max > s.Min {
		d += rand.N(s.Max - s.Min)
	}
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Options configures a Scraper. Zero values fall back to defaults.
type Options struct {
	BaseURL          string
	Locators         Locators
	SectionHeaderTag string
	Timeouts         Timeouts
	Pauses           *Pauses
	Pause            Pauser
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.Locators = DefaultLocators().Merge(o.Locators)
	if o.SectionHeaderTag == "" {
		o.SectionHeaderTag = DefaultSectionHeaderTag
	}
	o.Timeouts = o.Timeouts.withDefaults()
	if o.Pauses == nil {
		p := DefaultPauses()
		o.Pauses = &p
	}
	if o.Pause == nil {
		o.Pause = RandomPause
	}
	return o
}
