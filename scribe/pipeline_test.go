package scribe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeLineVideo(n int) *fakePage {
	return videoPage(
		fmt.Sprintf("Video %d", n),
		fmt.Sprintf("https://www.youtube.com/watch?v=vid%d", n),
		header(fmt.Sprintf("Header %d", n)),
		caption("00:01", fmt.Sprintf("first caption %d", n)),
		caption("00:05", fmt.Sprintf("second caption %d", n)),
	)
}

func newTestScraper(s Session, p *pauseRecorder) *Scraper {
	return New(s, testOptions(p), discardLogger())
}

func TestRunEndToEnd(t *testing.T) {
	s := newFakeSession(threeLineVideo(0), threeLineVideo(1))
	pauses := &pauseRecorder{}

	recs, err := newTestScraper(s, pauses).Search(context.Background(), "test", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	for i, rec := range recs {
		assert.Equal(t, fmt.Sprintf("Video %d", i), rec.Title)
		assert.Equal(t, fmt.Sprintf("https://www.youtube.com/watch?v=vid%d", i), rec.URL)
		want := fmt.Sprintf("# Header %d\nfirst caption %d\nsecond caption %d", i, i, i)
		assert.Equal(t, want, rec.Transcript)
	}
	require.Len(t, s.opened, 2)
	for _, tab := range s.opened {
		assert.Equal(t, 10*time.Second, tab.waits[DefaultLocators()[RoleVideoTitle].Value])
	}

	box := s.main.elements[DefaultLocators()[RoleSearchBox].Value][0]
	assert.Equal(t, []string{"test"}, box.inputs)
	assert.True(t, box.submitted)
	assert.Equal(t, []string{DefaultBaseURL}, s.main.navigated)

	assert.Len(t, pauses.spans, 2, "one pause per video")
	for _, sp := range pauses.spans {
		assert.Equal(t, DefaultPauses().AfterVideo, sp)
	}
}

func TestRunBoundsResults(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		max        int
		want       int
	}{
		{name: "fewer requested", candidates: 5, max: 3, want: 3},
		{name: "more requested", candidates: 2, max: 10, want: 2},
		{name: "exact", candidates: 4, max: 4, want: 4},
		{name: "one", candidates: 4, max: 1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var videos []*fakePage
			for i := 0; i < tt.candidates; i++ {
				videos = append(videos, threeLineVideo(i))
			}
			s := newFakeSession(videos...)

			report, err := newTestScraper(s, &pauseRecorder{}).Run(context.Background(), "q", tt.max)
			require.NoError(t, err)
			assert.Len(t, report.Records, tt.want)
			assert.Len(t, s.opened, tt.want)
		})
	}
}

func TestRunSkipsFailedResult(t *testing.T) {
	var videos []*fakePage
	for i := 0; i < 5; i++ {
		videos = append(videos, threeLineVideo(i))
	}
	s := newFakeSession(videos...)
	s.openErr[s.links[2]] = errors.New("tab crashed")
	pauses := &pauseRecorder{}

	report, err := newTestScraper(s, pauses).Run(context.Background(), "q", 5)
	require.NoError(t, err)

	var titles []string
	for _, rec := range report.Records {
		titles = append(titles, rec.Title)
	}
	assert.Equal(t, []string{"Video 0", "Video 1", "Video 3", "Video 4"}, titles)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 2, report.Skipped[0].Index)
	assert.ErrorIs(t, report.Skipped[0], ErrVideoProcessing)
	assert.Len(t, pauses.spans, 5, "failed attempts pause too")
	assert.Same(t, s.main, s.focused)
}

func TestRunReleasesTabOnFailure(t *testing.T) {
	broken := threeLineVideo(0)
	broken.set(RoleVideoTitle)
	s := newFakeSession(broken, threeLineVideo(1))

	report, err := newTestScraper(s, &pauseRecorder{}).Run(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "Video 1", report.Records[0].Title)

	assert.True(t, broken.closed, "failed tab must be closed")
	assert.Same(t, s.main, s.focused)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0], ErrWaitTimeout)
}

func TestRunRecoversFromPanic(t *testing.T) {
	broken := threeLineVideo(0)
	broken.set(RoleVideoTitle, &fakeElement{panicky: true})
	s := newFakeSession(broken, threeLineVideo(1))

	report, err := newTestScraper(s, &pauseRecorder{}).Run(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.True(t, broken.closed)
	assert.Same(t, s.main, s.focused)
}

func TestRunKeepsRecordWithoutTranscript(t *testing.T) {
	noPanel := threeLineVideo(0)
	noPanel.set(RoleTranscriptSegment)
	s := newFakeSession(noPanel)

	recs, err := newTestScraper(s, &pauseRecorder{}).Search(context.Background(), "q", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Video 0", recs[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid0", recs[0].URL)
	assert.Equal(t, "", recs[0].Transcript)
	assert.True(t, noPanel.closed)
}

func TestRunNoResultsIsFatal(t *testing.T) {
	s := newFakeSession()

	report, err := newTestScraper(s, &pauseRecorder{}).Run(context.Background(), "nothing", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNavigationTimeout)
	assert.True(t, IsFatal(err))
	assert.Empty(t, report.Records)
}

func TestRunRejectsInvalidMax(t *testing.T) {
	s := newFakeSession(threeLineVideo(0))

	_, err := newTestScraper(s, &pauseRecorder{}).Run(context.Background(), "q", 0)
	assert.ErrorIs(t, err, ErrInvalidMaxResults)
	assert.True(t, IsFatal(err))
	assert.Empty(t, s.main.navigated)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	s := newFakeSession(threeLineVideo(0), threeLineVideo(1), threeLineVideo(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.onOpen = func(i int) {
		if i == 1 {
			cancel()
		}
	}

	report, err := newTestScraper(s, &pauseRecorder{}).Run(ctx, "q", 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsFatal(err))
	require.Len(t, report.Records, 1)
	assert.Equal(t, "Video 0", report.Records[0].Title)
	require.Len(t, report.Skipped, 1, "the tab opened during cancellation fails its title wait")
	assert.ErrorIs(t, report.Skipped[0], context.Canceled)
	assert.Len(t, s.opened, 2, "no tab opens after cancellation")
}
