package summarizer

import (
	"fmt"
	"strings"

	"product-reviews/models"
)

const systemPrompt = `You summarize customer reviews for an online store.
Write one short paragraph of plain text (no markdown, no lists) covering what
customers like, what they dislike, and who the product suits. Do not invent
details that are not in the reviews.`

// maxPromptReviews caps how many reviews are sent to the model
const maxPromptReviews = 100

// BuildPrompt renders a product and its reviews into a summarization prompt
func BuildPrompt(product *models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", product.Name)
	if product.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", product.Description)
	}
	fmt.Fprintf(&b, "\nReviews (%d total):\n", len(product.Reviews))

	for i, r := range product.Reviews {
		if i == maxPromptReviews {
			fmt.Fprintf(&b, "... %d more reviews omitted\n", len(product.Reviews)-maxPromptReviews)
			break
		}
		body := strings.Join(strings.Fields(r.Body), " ")
		fmt.Fprintf(&b, "- %d/5 by %s: %s\n", r.Stars, r.Author, body)
	}
	return b.String()
}
