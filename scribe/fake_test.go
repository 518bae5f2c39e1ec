package scribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// fakeElement is an in-memory DOM node.
type fakeElement struct {
	tag     string
	text    string
	content string

	clickErr error
	textErr  error
	panicky  bool
	disabled bool

	clicks    int
	inputs    []string
	submitted bool
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) Input(ctx context.Context, text string) error {
	e.inputs = append(e.inputs, text)
	return nil
}

func (e *fakeElement) Submit(ctx context.Context) error {
	e.submitted = true
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	if e.panicky {
		panic("stale element")
	}
	return e.text, e.textErr
}

func (e *fakeElement) TextContent(ctx context.Context) (string, error) {
	return e.content, e.textErr
}

func (e *fakeElement) TagName(ctx context.Context) (string, error) {
	return e.tag, nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, error) {
	return "", nil
}

// fakePage answers waits from a map keyed by locator value.
type fakePage struct {
	url      string
	elements map[string][]*fakeElement
	navErr   error

	navigated []string
	waits     map[string]time.Duration
	closed    bool
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:      url,
		elements: map[string][]*fakeElement{},
		waits:    map[string]time.Duration{},
	}
}

func (p *fakePage) set(role Role, els ...*fakeElement) *fakePage {
	p.elements[DefaultLocators()[role].Value] = els
	return p
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) WaitPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	els, err := p.WaitAll(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}
	return els[0], nil
}

func (p *fakePage) WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	p.waits[loc.Value] = timeout
	els := p.elements[loc.Value]
	if len(els) == 0 || els[0].disabled {
		return nil, fmt.Errorf("%w after %s: %s", ErrWaitTimeout, timeout, loc)
	}
	return els[0], nil
}

func (p *fakePage) WaitAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error) {
	p.waits[loc.Value] = timeout
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.elements[loc.Value]) == 0 {
		return nil, fmt.Errorf("%w after %s: %s", ErrWaitTimeout, timeout, loc)
	}
	return p.Elements(ctx, loc)
}

func (p *fakePage) Elements(ctx context.Context, loc Locator) ([]Element, error) {
	els := p.elements[loc.Value]
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

func (p *fakePage) URL(ctx context.Context) (string, error) {
	return p.url, nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// fakeSession maps each result link to the video page it opens.
type fakeSession struct {
	main    *fakePage
	links   []*fakeElement
	videos  map[*fakeElement]*fakePage
	openErr map[*fakeElement]error
	focused Page

	opened  []*fakePage
	onOpen  func(i int)
	openIdx int
}

func (s *fakeSession) Main() Page { return s.main }

func (s *fakeSession) OpenTab(ctx context.Context, link Element) (Page, error) {
	el := link.(*fakeElement)
	if s.onOpen != nil {
		s.onOpen(s.openIdx)
	}
	s.openIdx++
	if err := s.openErr[el]; err != nil {
		return nil, err
	}
	tab, ok := s.videos[el]
	if !ok {
		return nil, errors.New("unknown link")
	}
	s.opened = append(s.opened, tab)
	s.focused = tab
	return tab, nil
}

func (s *fakeSession) Focus(ctx context.Context, p Page) error {
	s.focused = p
	return nil
}

func (s *fakeSession) Close() error { return nil }

// newFakeSession builds a listing page with one result per video page.
func newFakeSession(videos ...*fakePage) *fakeSession {
	s := &fakeSession{
		main:    newFakePage(DefaultBaseURL),
		videos:  map[*fakeElement]*fakePage{},
		openErr: map[*fakeElement]error{},
	}
	s.main.set(RoleSearchBox, &fakeElement{tag: "input"})
	for _, v := range videos {
		link := &fakeElement{tag: "a", text: v.url}
		s.links = append(s.links, link)
		s.videos[link] = v
	}
	s.main.set(RoleResultTitle, s.links...)
	s.focused = s.main
	return s
}

// videoPage is a watch page whose transcript panel holds segs.
func videoPage(title, url string, segs ...*fakeElement) *fakePage {
	p := newFakePage(url)
	p.set(RoleVideoTitle, &fakeElement{tag: "h1", text: title})
	p.set(RoleMuteButton, &fakeElement{tag: "button"})
	p.set(RoleExpandButton, &fakeElement{tag: "tp-yt-paper-button"})
	p.set(RoleTranscriptButton, &fakeElement{tag: "button"})
	p.set(RoleTranscriptSegment, segs...)
	return p
}

func header(text string) *fakeElement {
	return &fakeElement{tag: DefaultSectionHeaderTag, content: "\n  " + text + "\n"}
}

func caption(ts, text string) *fakeElement {
	return &fakeElement{tag: "ytd-transcript-segment-renderer", content: "\n  " + ts + "\n  \n  " + text + "\n"}
}

type pauseRecorder struct {
	spans []Span
}

func (r *pauseRecorder) pause(ctx context.Context, s Span) {
	r.spans = append(r.spans, s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions(p *pauseRecorder) Options {
	return Options{Pause: p.pause}
}
