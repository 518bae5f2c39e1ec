package scribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TranscriptState is a step of opening and reading the transcript panel.
type TranscriptState int

const (
	StateIdle TranscriptState = iota
	StateMuted
	StatePanelExpanded
	StateTranscriptRequested
	StateSegmentsLoaded
	StateRendered
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateMuted:               "muted",
	StatePanelExpanded:       "panel-expanded",
	StateTranscriptRequested: "transcript-requested",
	StateSegmentsLoaded:      "segments-loaded",
	StateRendered:            "rendered",
	StateFailed:              "failed",
}

func (s TranscriptState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Extractor drives the transcript panel open and renders its segments.
type Extractor struct {
	locators  Locators
	timeouts  Timeouts
	headerTag string
	log       *slog.Logger
}

func newExtractor(o Options, log *slog.Logger) *Extractor {
	return &Extractor{
		locators:  o.Locators,
		timeouts:  o.Timeouts,
		headerTag: o.SectionHeaderTag,
		log:       log,
	}
}

// transcriptRun carries the state of one extraction.
type transcriptRun struct {
	x        *Extractor
	page     Page
	state    TranscriptState
	elements []Element
	text     string
}

type transition struct {
	to  TranscriptState
	run func(ctx context.Context) error
}

// steps lists the transitions in order, starting from StateIdle.
func (r *transcriptRun) steps() []transition {
	t := r.x.timeouts
	return []transition{
		{to: StateMuted, run: r.clicker(RoleMuteButton, t.Mute)},
		{to: StatePanelExpanded, run: r.clicker(RoleExpandButton, t.Expand)},
		{to: StateTranscriptRequested, run: r.clicker(RoleTranscriptButton, t.TranscriptButton)},
		{to: StateSegmentsLoaded, run: r.loadSegments},
		{to: StateRendered, run: r.render},
	}
}

func (r *transcriptRun) clicker(role Role, timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		el, err := r.page.WaitClickable(ctx, r.x.locators.Get(role), timeout)
		if err != nil {
			return fmt.Errorf("%s: %w", role, err)
		}
		if err := el.Click(ctx); err != nil {
			return fmt.Errorf("clicking %s: %w", role, err)
		}
		return nil
	}
}

func (r *transcriptRun) loadSegments(ctx context.Context) error {
	els, err := r.page.WaitAll(ctx, r.x.locators.Get(RoleTranscriptSegment), r.x.timeouts.Segments)
	if err != nil {
		return fmt.Errorf("%s: %w", RoleTranscriptSegment, err)
	}
	if len(els) == 0 {
		return errors.New("transcript panel is empty")
	}
	r.elements = els
	return nil
}

func (r *transcriptRun) render(ctx context.Context) error {
	segs := make([]Segment, 0, len(r.elements))
	for i, el := range r.elements {
		seg, err := r.x.readSegment(ctx, el)
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		segs = append(segs, seg)
	}
	r.text = Render(segs)
	return nil
}

func (x *Extractor) readSegment(ctx context.Context, el Element) (Segment, error) {
	tag, err := el.TagName(ctx)
	if err != nil {
		return Segment{}, err
	}
	text, err := el.TextContent(ctx)
	if err != nil {
		return Segment{}, err
	}
	if strings.EqualFold(tag, x.headerTag) {
		return Segment{Kind: SectionHeader, Text: text}, nil
	}
	return Segment{Kind: Caption, Text: text}, nil
}

// Extract runs the state machine on a video page and returns the transcript
// as markdown. A failure is a *TransitionError naming the step that broke.
func (x *Extractor) Extract(ctx context.Context, page Page) (string, error) {
	r := &transcriptRun{x: x, page: page, state: StateIdle}
	for _, step := range r.steps() {
		if err := step.run(ctx); err != nil {
			from := r.state
			r.state = StateFailed
			return "", &TransitionError{From: from, To: step.to, Err: err}
		}
		x.log.Debug("transcript transition", slog.String("from", r.state.String()), slog.String("to", step.to.String()))
		r.state = step.to
	}
	return r.text, nil
}

// Transcript is Extract that never fails: an unavailable transcript is logged
// and comes back empty.
func (x *Extractor) Transcript(ctx context.Context, page Page) string {
	text, err := x.Extract(ctx, page)
	if err != nil {
		x.log.Info("transcript extraction failed", slog.Any("error", err))
		return ""
	}
	return text
}
