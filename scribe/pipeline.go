package scribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Scraper searches the platform and collects transcripts, one result at a time.
type Scraper struct {
	session   Session
	navigator *Navigator
	videos    *VideoDriver
	extractor *Extractor
	log       *slog.Logger
}

// New wires the pipeline components around an open session.
func New(s Session, o Options, log *slog.Logger) *Scraper {
	if log == nil {
		log = slog.Default()
	}
	o = o.withDefaults()
	return &Scraper{
		session:   s,
		navigator: newNavigator(o, newConsentHandler(o, log), log),
		videos:    newVideoDriver(s, o, log),
		extractor: newExtractor(o, log),
		log:       log,
	}
}

// Run searches for query and processes up to maxResults videos in listing
// order. Only a failed search is returned as an error; failed videos are
// left out of Records and reported in Skipped. If ctx ends between videos,
// the partial report comes back with ctx.Err().
func (s *Scraper) Run(ctx context.Context, query string, maxResults int) (*Report, error) {
	log := s.log.With(slog.String("run", uuid.NewString()))
	report := &Report{Query: query}

	results, err := s.navigator.Search(ctx, s.session.Main(), query, maxResults)
	if err != nil {
		return report, fmt.Errorf("search %q: %w", query, err)
	}

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rec, err := s.process(ctx, r)
		if err != nil {
			verr := &VideoError{Index: r.Index, Err: err}
			log.Warn("error processing video", slog.Int("index", r.Index), slog.Any("error", err))
			report.Skipped = append(report.Skipped, verr)
			continue
		}
		log.Info("video processed",
			slog.Int("index", r.Index),
			slog.String("title", rec.Title),
			slog.Bool("transcript", rec.Transcript != ""),
		)
		report.Records = append(report.Records, rec)
	}

	log.Info("search finished",
		slog.String("query", query),
		slog.Int("records", len(report.Records)),
		slog.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// Search is Run without the skipped details.
func (s *Scraper) Search(ctx context.Context, query string, maxResults int) ([]VideoRecord, error) {
	report, err := s.Run(ctx, query, maxResults)
	if report == nil {
		return nil, err
	}
	return report.Records, err
}

func (s *Scraper) process(ctx context.Context, r SearchResult) (rec VideoRecord, err error) {
	defer func() {
		// A broken element handle can panic inside the driver.
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	err = s.videos.Visit(ctx, r, func(ctx context.Context, v VideoPage) error {
		rec = VideoRecord{
			Title:      v.Title,
			URL:        v.URL,
			Transcript: s.extractor.Transcript(ctx, v.Page),
		}
		return nil
	})
	if err != nil {
		return VideoRecord{}, err
	}
	return rec, nil
}

// IsFatal reports whether err from Run means no results could be collected.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNavigationTimeout) || errors.Is(err, ErrInvalidMaxResults)
}
