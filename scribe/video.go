package scribe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// VideoPage is an opened video tab with its metadata read.
type VideoPage struct {
	Page  Page
	Title string
	URL   string
}

// VideoDriver opens results in their own tab and owns the tab lifecycle.
type VideoDriver struct {
	session  Session
	locators Locators
	timeouts Timeouts
	pauses   Pauses
	pause    Pauser
	log      *slog.Logger
}

func newVideoDriver(s Session, o Options, log *slog.Logger) *VideoDriver {
	return &VideoDriver{
		session:  s,
		locators: o.Locators,
		timeouts: o.Timeouts,
		pauses:   *o.Pauses,
		pause:    o.Pause,
		log:      log,
	}
}

// Visit opens r in a new tab, reads its title and URL, and calls fn with the
// page. The tab is closed and focus returned to the main context on every
// path, after which Visit pauses to spread out requests.
func (d *VideoDriver) Visit(ctx context.Context, r SearchResult, fn func(context.Context, VideoPage) error) error {
	defer d.pause(ctx, d.pauses.AfterVideo)

	tab, err := d.session.OpenTab(ctx, r.Link)
	if err != nil {
		// The tab may have opened and taken focus before the failure.
		if ferr := d.session.Focus(ctx, d.session.Main()); ferr != nil {
			d.log.Warn("could not restore main tab", slog.Any("error", ferr))
		}
		return fmt.Errorf("opening result: %w", err)
	}
	defer d.release(ctx, tab)

	titleEl, err := tab.WaitPresent(ctx, d.locators.Get(RoleVideoTitle), d.timeouts.VideoTitle)
	if err != nil {
		return fmt.Errorf("waiting for video title: %w", err)
	}
	title, err := titleEl.Text(ctx)
	if err != nil {
		return fmt.Errorf("reading video title: %w", err)
	}
	url, err := tab.URL(ctx)
	if err != nil {
		return fmt.Errorf("reading video url: %w", err)
	}

	d.log.Debug("video opened", slog.Int("index", r.Index), slog.String("url", url))
	return fn(ctx, VideoPage{Page: tab, Title: strings.TrimSpace(title), URL: url})
}

// release never fails the visit: the record was already read.
func (d *VideoDriver) release(ctx context.Context, tab Page) {
	if err := tab.Close(); err != nil {
		d.log.Warn("could not close video tab", slog.Any("error", err))
	}
	if err := d.session.Focus(ctx, d.session.Main()); err != nil {
		d.log.Warn("could not restore main tab", slog.Any("error", err))
	}
}
