package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-reviews/models"
	"product-reviews/utils"
)

type fakeSource struct {
	products []*models.Product
	err      error
}

func (f *fakeSource) GetProduct(ctx context.Context, category, slug string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug && p.Category == category {
			return p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return f.products, f.err
}

func newPageService(s Summarizer, src ProductSource) *PageService {
	logger := utils.NewNopLogger()
	return NewPageService(src, NewRatingService(logger), NewSummaryService(s, time.Second, logger), logger)
}

func TestPageService_OpenAndFilter(t *testing.T) {
	svc := newPageService(&stubSummarizer{text: "Mostly positive."}, &fakeSource{products: []*models.Product{kettle}})

	session, err := svc.Open(context.Background(), "kitchen", "kettle")
	require.NoError(t, err)

	assert.Equal(t, 4, session.Ratings.Total)
	assert.Equal(t, 3.5, session.Ratings.Average)
	assert.Len(t, session.View().Reviews, 4)

	require.NoError(t, session.Filter.Toggle(5))
	view := session.View()
	assert.Len(t, view.Reviews, 2)
	assert.Equal(t, "5", view.Label)

	summary := session.SummaryService().Await(session.Summary, time.Second)
	assert.True(t, summary.Available)

	page := session.Page(&summary)
	assert.Equal(t, view, page.View)
}

func TestPageService_SlowSummaryDoesNotBlockOpen(t *testing.T) {
	svc := newPageService(&stubSummarizer{text: "late", delay: 300 * time.Millisecond}, &fakeSource{products: []*models.Product{kettle}})

	start := time.Now()
	session, err := svc.Open(context.Background(), "kitchen", "kettle")
	require.NoError(t, err)
	_ = session.View()
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	<-session.Summary
}

func TestPageService_NotFound(t *testing.T) {
	svc := newPageService(nil, &fakeSource{products: []*models.Product{kettle}})

	_, err := svc.Open(context.Background(), "outdoor", "kettle")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestPageService_Catalog(t *testing.T) {
	svc := newPageService(nil, &fakeSource{products: []*models.Product{kettle}})
	rows, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Stars)

	failing := newPageService(nil, &fakeSource{err: errors.New("db down")})
	_, err = failing.Catalog(context.Background())
	assert.Error(t, err)
}

func TestPageService_NilSummariesFallsBack(t *testing.T) {
	logger := utils.NewNopLogger()
	svc := NewPageService(&fakeSource{products: []*models.Product{kettle}}, NewRatingService(logger), nil, logger)

	session, err := svc.Open(context.Background(), "kitchen", "kettle")
	require.NoError(t, err)
	assert.Equal(t, 3.5, session.Ratings.Average)

	summary := session.SummaryService().Await(session.Summary, time.Second)
	assert.False(t, summary.Available)
	assert.Equal(t, FallbackSummary, summary.Text)
	assert.ErrorIs(t, summary.Err, models.ErrSummaryUnavailable)
}
