package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-reviews/models"
	"product-reviews/services"
	"product-reviews/storage"
	"product-reviews/utils"
)

type fixedSummarizer string

func (f fixedSummarizer) Summarize(ctx context.Context, p *models.Product) (string, error) {
	return string(f), nil
}

func openSession(t *testing.T) *services.Session {
	t.Helper()
	var reviews []models.Review
	for i, stars := range []int{5, 3, 5, 1} {
		r, err := models.NewReview(string(rune('a'+i)), stars, "Reviewer", "Body", nil)
		require.NoError(t, err)
		reviews = append(reviews, r)
	}
	store := storage.NewMemoryStore(&models.Product{
		Slug: "kettle", Category: "kitchen", Name: "Steel Kettle", Reviews: reviews,
	})

	logger := utils.NewNopLogger()
	svc := services.NewPageService(store, services.NewRatingService(logger),
		services.NewSummaryService(fixedSummarizer("Loved for speed."), time.Second, logger), logger)
	session, err := svc.Open(context.Background(), "kitchen", "kettle")
	require.NoError(t, err)
	return session
}

func press(m tea.Model, r rune) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return m
}

func TestModel_ToggleAndClear(t *testing.T) {
	session := openSession(t)
	var m tea.Model = New(session, time.Second)

	m = press(m, '5')
	assert.Equal(t, []int{5}, session.Filter.Selection().Descending())
	assert.Contains(t, m.View(), "Showing 2 of 4 reviews")

	m = press(m, '3')
	assert.Equal(t, []int{5, 3}, session.Filter.Selection().Descending())

	m = press(m, '5')
	assert.Equal(t, []int{3}, session.Filter.Selection().Descending())

	m = press(m, 'c')
	assert.False(t, session.Filter.IsActive())
	assert.NotContains(t, m.View(), "Showing")
}

func TestModel_NoMatchMessage(t *testing.T) {
	session := openSession(t)
	m := press(New(session, time.Second), '2')
	assert.Contains(t, m.View(), "No 2-star reviews yet.")
}

func TestModel_SummaryArrives(t *testing.T) {
	m := New(openSession(t), time.Second)
	assert.Contains(t, m.View(), "Summarizing reviews...")

	msg := m.Init()()
	updated, cmd := m.Update(msg)
	assert.Nil(t, cmd)
	assert.Contains(t, updated.View(), "Loved for speed.")
}

func TestModel_Quit(t *testing.T) {
	m := New(openSession(t), time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
