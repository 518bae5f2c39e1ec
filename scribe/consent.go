package scribe

import (
	"context"
	"log/slog"
)

// ConsentHandler dismisses the cookie consent overlay when one shows up.
type ConsentHandler struct {
	locator Locator
	timeout Timeouts
	pauses  Pauses
	pause   Pauser
	log     *slog.Logger
}

func newConsentHandler(o Options, log *slog.Logger) *ConsentHandler {
	return &ConsentHandler{
		locator: o.Locators.Get(RoleConsentButton),
		timeout: o.Timeouts,
		pauses:  *o.Pauses,
		pause:   o.Pause,
		log:     log,
	}
}

// Dismiss clicks the accept control. A returned *ConsentError is advisory.
func (c *ConsentHandler) Dismiss(ctx context.Context, page Page) error {
	btn, err := page.WaitClickable(ctx, c.locator, c.timeout.Consent)
	if err != nil {
		return &ConsentError{Err: err}
	}
	if err := btn.Click(ctx); err != nil {
		return &ConsentError{Err: err}
	}
	c.log.Debug("consent dismissed")
	c.pause(ctx, c.pauses.AfterConsent)
	return nil
}
