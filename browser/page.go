package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"tubescribe/scribe"
)

// Page wraps a rod page as a scribe.Page.
type Page struct {
	page *rod.Page
}

var _ scribe.Page = (*Page)(nil)

// Navigate navigates to a URL and waits for it to load.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("error navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("error waiting for page load: %w", err)
	}
	return nil
}

// WaitPresent waits up to timeout for the first element matching loc.
func (p *Page) WaitPresent(ctx context.Context, loc scribe.Locator, timeout time.Duration) (scribe.Element, error) {
	el, err := p.wait(ctx, loc, timeout, false)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// WaitClickable waits up to timeout for loc to match a visible, enabled element.
func (p *Page) WaitClickable(ctx context.Context, loc scribe.Locator, timeout time.Duration) (scribe.Element, error) {
	el, err := p.wait(ctx, loc, timeout, true)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// WaitAll waits for loc to match at least once, then returns every match.
func (p *Page) WaitAll(ctx context.Context, loc scribe.Locator, timeout time.Duration) ([]scribe.Element, error) {
	if _, err := p.wait(ctx, loc, timeout, false); err != nil {
		return nil, err
	}
	return p.Elements(ctx, loc)
}

// Elements returns the current matches of loc without waiting.
func (p *Page) Elements(ctx context.Context, loc scribe.Locator) ([]scribe.Element, error) {
	page := p.page.Context(ctx)
	var (
		els rod.Elements
		err error
	)
	if loc.Kind == scribe.XPath {
		els, err = page.ElementsX(loc.Value)
	} else {
		els, err = page.Elements(loc.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding %s: %w", loc, err)
	}
	out := make([]scribe.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out, nil
}

// wait polls for the first match of loc until timeout. With clickable set it
// also waits for the element to be visible and enabled.
func (p *Page) wait(ctx context.Context, loc scribe.Locator, timeout time.Duration, clickable bool) (*Element, error) {
	page := p.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	if loc.Kind == scribe.XPath {
		el, err = page.ElementX(loc.Value)
	} else {
		el, err = page.Element(loc.Value)
	}
	if err == nil && clickable {
		if err = el.WaitVisible(); err == nil {
			err = el.WaitEnabled()
		}
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s: %s", scribe.ErrWaitTimeout, timeout, loc)
		}
		return nil, fmt.Errorf("error waiting for %s: %w", loc, err)
	}
	// Detach from the timeout so the handle outlives this wait.
	return &Element{el: el.Context(ctx)}, nil
}

// URL returns the address of the loaded document.
func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("error reading page info: %w", err)
	}
	return info.URL, nil
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// Element wraps a rod element as a scribe.Element.
type Element struct {
	el *rod.Element
}

var _ scribe.Element = (*Element)(nil)

// Click left-clicks the element once.
func (e *Element) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

// Input focuses the element and types text into it.
func (e *Element) Input(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

// Submit presses Enter on the element.
func (e *Element) Submit(ctx context.Context) error {
	return e.el.Context(ctx).Type(input.Enter)
}

// Text returns the rendered text of the element.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// TextContent returns the raw textContent property, hidden text included.
func (e *Element) TextContent(ctx context.Context) (string, error) {
	return e.property(ctx, "textContent")
}

// TagName returns the lower-case element name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.property(ctx, "localName")
}

// Attribute returns the named attribute, or "" when it is not set.
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

// href is the resolved, absolute link target.
func (e *Element) href(ctx context.Context) (string, error) {
	href, err := e.property(ctx, "href")
	if err != nil {
		return "", err
	}
	if href == "" {
		return "", errors.New("link has no href")
	}
	return href, nil
}

func (e *Element) property(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Property(name)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", name, err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}
