package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"product-reviews/models"
	"product-reviews/utils"
)

type stubSummarizer struct {
	text  string
	err   error
	panic bool
	delay time.Duration
}

func (s *stubSummarizer) Summarize(ctx context.Context, product *models.Product) (string, error) {
	if s.panic {
		panic("provider exploded")
	}
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.text, s.err
}

var kettle = &models.Product{Slug: "kettle", Category: "kitchen", Name: "Kettle", Reviews: reviewsWithStars(5, 3, 5, 1)}

func TestSummaryService_Success(t *testing.T) {
	svc := NewSummaryService(&stubSummarizer{text: "  Loved by most.  "}, time.Second, utils.NewNopLogger())

	got := svc.Summarize(context.Background(), kettle)
	assert.True(t, got.Available)
	assert.Equal(t, "Loved by most.", got.Text)
	assert.NoError(t, got.Err)
}

func TestSummaryService_FailureFallsBack(t *testing.T) {
	cases := map[string]Summarizer{
		"error": &stubSummarizer{err: errors.New("quota exceeded")},
		"empty": &stubSummarizer{text: "   "},
		"panic": &stubSummarizer{panic: true},
		"nil":   nil,
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewSummaryService(s, time.Second, utils.NewNopLogger())
			got := svc.Summarize(context.Background(), kettle)

			assert.False(t, got.Available)
			assert.Equal(t, FallbackSummary, got.Text)
			assert.ErrorIs(t, got.Err, models.ErrSummaryUnavailable)
		})
	}
}

func TestSummaryService_Timeout(t *testing.T) {
	svc := NewSummaryService(&stubSummarizer{text: "late", delay: time.Second}, 10*time.Millisecond, utils.NewNopLogger())

	got := svc.Summarize(context.Background(), kettle)
	assert.False(t, got.Available)
	assert.ErrorIs(t, got.Err, context.DeadlineExceeded)
}

func TestSummaryService_StartDeliversOnceAndCloses(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	svc := NewSummaryService(&stubSummarizer{text: "ok"}, time.Second, utils.NewNopLogger())
	ch := svc.Start(context.Background(), kettle)

	first, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "ok", first.Text)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestSummaryService_AwaitTimesOut(t *testing.T) {
	svc := NewSummaryService(&stubSummarizer{text: "late", delay: 200 * time.Millisecond}, time.Second, utils.NewNopLogger())
	ch := svc.Start(context.Background(), kettle)

	got := svc.Await(ch, 5*time.Millisecond)
	assert.False(t, got.Available)
	assert.Equal(t, FallbackSummary, got.Text)

	// the abandoned result is still delivered into the buffer without blocking
	late := <-ch
	assert.Equal(t, "late", late.Text)
}

func TestSummaryFailure_DoesNotAffectAggregation(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	svc := NewSummaryService(&stubSummarizer{panic: true}, time.Second, utils.NewNopLogger())
	countsBefore := ComputeCounts(kettle.Reviews)
	avgBefore := ComputeAverage(kettle.Reviews)
	visibleBefore := VisibleReviews(kettle.Reviews, mustSet(t, 5))

	ch := svc.Start(context.Background(), kettle)
	summary := <-ch
	require.False(t, summary.Available)

	assert.Equal(t, countsBefore, ComputeCounts(kettle.Reviews))
	assert.Equal(t, avgBefore, ComputeAverage(kettle.Reviews))
	assert.Equal(t, visibleBefore, VisibleReviews(kettle.Reviews, mustSet(t, 5)))
}
