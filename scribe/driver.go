package scribe

import (
	"context"
	"time"
)

// Element is a handle to one node on a page.
type Element interface {
	Click(ctx context.Context) error
	// Input types text into the element.
	Input(ctx context.Context, text string) error
	// Submit presses Enter on the element.
	Submit(ctx context.Context) error
	// Text is the rendered (visible) text.
	Text(ctx context.Context) (string, error)
	// TextContent is the raw DOM textContent, hidden nodes included.
	TextContent(ctx context.Context) (string, error)
	TagName(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
}

// Page is one browsing context (a tab).
//
// The Wait methods block until the condition holds or timeout elapses. On
// timeout they return an error matching ErrWaitTimeout.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)
	WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)
	// WaitAll waits for at least one match and returns every match in document order.
	WaitAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error)
	// Elements returns the current matches without waiting.
	Elements(ctx context.Context, loc Locator) ([]Element, error)
	URL(ctx context.Context) (string, error)
	Close() error
}

// Session is a live browser with one main context and any number of tabs.
type Session interface {
	// Main is the context the session started with.
	Main() Page
	// OpenTab opens link in a new context and gives it focus.
	OpenTab(ctx context.Context, link Element) (Page, error)
	// Focus brings p to the front.
	Focus(ctx context.Context, p Page) error
	Close() error
}
