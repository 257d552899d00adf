package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"product-reviews/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	selectStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	italicStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	categoryCase = cases.Title(language.English)
)

// ProductPage bundles everything needed to print a product's review page
type ProductPage struct {
	Product *models.Product
	Ratings *models.RatingSummary
	View    ReviewView
	Summary *models.Summary // nil while pending
}

// FiveStars renders n filled and 5-n empty star glyphs
func FiveStars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > models.MaxStars {
		n = models.MaxStars
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxStars-n)
}

// CategoryHeading formats a category slug for display, e.g. "kitchen-tools" -> "Kitchen Tools"
func CategoryHeading(category string) string {
	return categoryCase.String(strings.ReplaceAll(category, "-", " "))
}

// PrintCatalog writes the product listing
func PrintCatalog(w io.Writer, rows []models.ProductOverview) {
	thin := strings.Repeat("─", 55)
	fmt.Fprintf(w, "\n%s\n%s\n", titleStyle.Render("PRODUCT REVIEWS"), thin)
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No products in catalog."))
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", titleStyle.Render(r.Name), mutedStyle.Render(r.Category+"/"+r.Slug))
		fmt.Fprintf(w, "    %s  %d reviews\n", starStyle.Render(FiveStars(r.Stars)), r.ReviewCount)
		if r.Description != "" {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(truncate(r.Description, 70)))
		}
	}
	fmt.Fprintf(w, "%s\n\n", thin)
}

// PrintProductPage writes the product header, rating overview, summary,
// filter rows and the visible reviews
func PrintProductPage(w io.Writer, page *ProductPage) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)
	p := page.Product

	fmt.Fprintf(w, "\n%s\n", border)
	fmt.Fprintf(w, "%s\n", mutedStyle.Render(strings.ToUpper(CategoryHeading(p.Category))))
	fmt.Fprintf(w, "%s\n", titleStyle.Render(p.Name))
	if p.Description != "" {
		fmt.Fprintf(w, "%s\n", p.Description)
	}

	fmt.Fprintf(w, "\n AI SUMMARY\n%s\n", thin)
	fmt.Fprintf(w, "  Based on %d customer ratings\n", page.Ratings.Total)
	fmt.Fprintf(w, "  %s  %.1f out of 5\n", starStyle.Render(FiveStars(RoundStars(page.Ratings.Average))), page.Ratings.Average)
	switch {
	case page.Summary == nil:
		fmt.Fprintf(w, "  %s\n", italicStyle.Render("Summarizing reviews..."))
	case page.Summary.Available:
		fmt.Fprintf(w, "  %s\n", page.Summary.Text)
	default:
		fmt.Fprintf(w, "  %s\n", italicStyle.Render(page.Summary.Text))
	}

	fmt.Fprintf(w, "\n FILTER BY RATING\n%s\n", thin)
	for _, line := range FilterRows(page.Ratings.Counts, page.View.Filter) {
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintf(w, "\n CUSTOMER REVIEWS\n%s\n", thin)
	if line := page.View.CountLine(); line != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(line))
	}
	if msg := page.View.EmptyMessage(); msg != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(msg))
	}
	for i, rv := range page.View.Reviews {
		if i > 0 {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(strings.Repeat("·", 20)))
		}
		fmt.Fprintf(w, "  %s  %s\n", starStyle.Render(FiveStars(rv.Stars)), titleStyle.Render(rv.Author))
		fmt.Fprintf(w, "  %s\n", rv.Body)
	}

	fmt.Fprintf(w, "%s\n\n", border)
}

// FilterRows renders one row per rating from 5 down to 1, marking selected rows
func FilterRows(counts models.RatingCount, filter models.StarSet) []string {
	rows := make([]string, 0, models.MaxStars)
	for r := models.MaxStars; r >= models.MinStars; r-- {
		row := fmt.Sprintf("[%d] %s (%d)", r, FiveStars(r), counts[r])
		if filter.Has(r) {
			row = selectStyle.Render(row + " ✕")
		}
		rows = append(rows, row)
	}
	return rows
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
