package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"tubescribe/scribe"
)

// hideWebdriver masks the automation flag pages can read from navigator.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {
	get: () => undefined
})`

// Options controls how the browser is launched.
type Options struct {
	Headless bool
	// Bin is the browser executable; empty lets rod find or download one.
	Bin string
	// OpenTimeout bounds waiting for a ctrl-clicked link to open its tab.
	OpenTimeout time.Duration
}

// Session is a launched browser with one main page. It implements scribe.Session.
type Session struct {
	Launcher *launcher.Launcher
	Browser  *rod.Browser

	main        *Page
	openTimeout time.Duration
}

var _ scribe.Session = (*Session)(nil)

// NewSession launches a browser, connects to it and opens the main page.
func NewSession(opts Options) (*Session, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("mute-audio").
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("error connecting to browser: %w", err)
	}

	s := &Session{
		Launcher:    l,
		Browser:     browser,
		openTimeout: opts.OpenTimeout,
	}
	if s.openTimeout <= 0 {
		s.openTimeout = 5 * time.Second
	}

	page, err := s.newPage(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.main = page
	return s, nil
}

func (s *Session) newPage(target proto.TargetCreateTarget) (p *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error creating page: %v", r)
		}
	}()
	page, err := s.Browser.Page(target)
	if err != nil {
		return nil, fmt.Errorf("error creating page: %w", err)
	}
	if _, err := page.EvalOnNewDocument(hideWebdriver); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("error installing page script: %w", err)
	}
	return &Page{page: page}, nil
}

// Main returns the page the session started with.
func (s *Session) Main() scribe.Page {
	return s.main
}

// OpenTab ctrl-clicks link so it opens in a background tab, then focuses the
// tab. Links that do not open a tab that way are opened by their href.
func (s *Session) OpenTab(ctx context.Context, link scribe.Element) (scribe.Page, error) {
	el, ok := link.(*Element)
	if !ok {
		return nil, fmt.Errorf("unsupported element type %T", link)
	}

	s.closeStrays(ctx)

	tab, clicked, err := s.ctrlClick(ctx, el)
	if err != nil {
		if clicked {
			// The click may still open a tab after the wait gave up.
			s.closeStrays(ctx)
		}
		href, herr := el.href(ctx)
		if herr != nil {
			return nil, errors.Join(err, herr)
		}
		if tab, err = s.newPage(proto.TargetCreateTarget{URL: href}); err != nil {
			return nil, err
		}
	}

	if err := s.Focus(ctx, tab); err != nil {
		_ = tab.Close()
		return nil, err
	}
	if err := tab.page.Context(ctx).WaitLoad(); err != nil {
		_ = tab.Close()
		return nil, fmt.Errorf("error waiting for page load: %w", err)
	}
	return tab, nil
}

// ctrlClick reports clicked once the click went through, even when no tab
// showed up in time.
func (s *Session) ctrlClick(ctx context.Context, el *Element) (tab *Page, clicked bool, err error) {
	opener := s.main.page.Context(ctx).Timeout(s.openTimeout)
	defer opener.CancelTimeout()

	wait := opener.WaitOpen()
	if err := opener.Keyboard.Press(input.ControlLeft); err != nil {
		return nil, false, err
	}
	clickErr := el.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
	if err := opener.Keyboard.Release(input.ControlLeft); err != nil && clickErr == nil {
		clickErr = err
	}
	if clickErr != nil {
		return nil, false, clickErr
	}

	page, err := wait()
	if err != nil {
		return nil, true, fmt.Errorf("waiting for new tab: %w", err)
	}
	page = page.Context(context.Background())
	// The first document already loaded, so patch it directly as well.
	if _, err := page.EvalOnNewDocument(hideWebdriver); err != nil {
		_ = page.Close()
		return nil, true, fmt.Errorf("error installing page script: %w", err)
	}
	_, _ = page.Eval(`() => { ` + hideWebdriver + ` }`)
	return &Page{page: page}, true, nil
}

// closeStrays closes tabs the main page opened that no caller holds. Result
// tabs are released before the next one opens, so any left over leaked from
// a ctrl-click that opened late.
func (s *Session) closeStrays(ctx context.Context) {
	b := s.Browser.Context(ctx)
	res, err := proto.TargetGetTargets{}.Call(b)
	if err != nil {
		slog.Debug("error listing targets", slog.Any("error", err))
		return
	}
	for _, id := range strays(res.TargetInfos, s.main.page.TargetID) {
		if _, err := (proto.TargetCloseTarget{TargetID: id}).Call(b); err != nil {
			slog.Debug("error closing stray tab", slog.String("target", string(id)), slog.Any("error", err))
		}
	}
}

// strays returns the page targets whose opener is opener.
func strays(infos []*proto.TargetTargetInfo, opener proto.TargetTargetID) []proto.TargetTargetID {
	var ids []proto.TargetTargetID
	for _, info := range infos {
		if info == nil || info.Type != proto.TargetTargetInfoTypePage {
			continue
		}
		if info.OpenerID == opener && info.TargetID != opener {
			ids = append(ids, info.TargetID)
		}
	}
	return ids
}

// Focus activates p.
func (s *Session) Focus(ctx context.Context, p scribe.Page) error {
	page, ok := p.(*Page)
	if !ok {
		return fmt.Errorf("unsupported page type %T", p)
	}
	if _, err := page.page.Context(ctx).Activate(); err != nil {
		return fmt.Errorf("error activating page: %w", err)
	}
	return nil
}

// Close cleans up the browser session.
func (s *Session) Close() error {
	var errs []error
	if s.main != nil {
		errs = append(errs, s.main.Close())
	}
	if s.Browser != nil {
		errs = append(errs, s.Browser.Close())
	}
	if s.Launcher != nil {
		s.Launcher.Cleanup()
	}
	return errors.Join(errs...)
}
