package scribe

import (
	"context"
	"fmt"
	"log/slog"
)

// Navigator runs a query on the platform and returns the result handles.
type Navigator struct {
	baseURL  string
	locators Locators
	timeouts Timeouts
	consent  *ConsentHandler
	log      *slog.Logger
}

func newNavigator(o Options, consent *ConsentHandler, log *slog.Logger) *Navigator {
	return &Navigator{
		baseURL:  o.BaseURL,
		locators: o.Locators,
		timeouts: o.Timeouts,
		consent:  consent,
		log:      log,
	}
}

// Search submits query and returns up to limit result handles in listing order.
// Once navigation starts, every failure is fatal for the run and matches
// ErrNavigationTimeout.
func (n *Navigator) Search(ctx context.Context, page Page, query string, limit int) ([]SearchResult, error) {
	if limit < 1 {
		return nil, ErrInvalidMaxResults
	}

	if err := page.Navigate(ctx, n.baseURL); err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrNavigationTimeout, n.baseURL, err)
	}

	if err := n.consent.Dismiss(ctx, page); err != nil {
		n.log.Debug("no consent popup or unable to click", slog.Any("error", err))
	}

	box, err := page.WaitPresent(ctx, n.locators.Get(RoleSearchBox), n.timeouts.SearchBox)
	if err != nil {
		return nil, fmt.Errorf("%w: search box: %w", ErrNavigationTimeout, err)
	}
	if err := box.Input(ctx, query); err != nil {
		return nil, fmt.Errorf("%w: typing query: %w", ErrNavigationTimeout, err)
	}
	if err := box.Submit(ctx); err != nil {
		return nil, fmt.Errorf("%w: submitting query: %w", ErrNavigationTimeout, err)
	}

	titles := n.locators.Get(RoleResultTitle)
	if _, err := page.WaitPresent(ctx, titles, n.timeouts.Results); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNavigationTimeout, query, err)
	}
	links, err := page.Elements(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("%w: listing results: %w", ErrNavigationTimeout, err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: %q: no results", ErrNavigationTimeout, query)
	}

	if len(links) > limit {
		links = links[:limit]
	}
	results := make([]SearchResult, len(links))
	for i, link := range links {
		results[i] = SearchResult{Index: i, Link: link}
	}
	n.log.Info("search results loaded", slog.String("query", query), slog.Int("count", len(results)))
	return results, nil
}
