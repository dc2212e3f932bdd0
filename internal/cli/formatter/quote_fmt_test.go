package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/quote"
)

func TestFormatQuote_RendersCostsAndTotal(t *testing.T) {
	product := &domain.Product{Name: "Widget"}
	result := &quote.ProductQuote{
		Costs: []quote.CostQuote{
			{Price: 15, Cost: &domain.Cost{Title: "Base price", Code: "BASE"}},
			{Price: 25, Cost: &domain.Cost{Title: "Surcharge", Code: "SUR"}},
		},
		Leadtime: &quote.LeadtimeQuote{Leadtime: &domain.Leadtime{Title: "express", Days: 3}},
	}

	out := FormatQuote(product, result)
	assert.Contains(t, out, "Base price")
	assert.Contains(t, out, "15.00")
	assert.Contains(t, out, "40.00")
	assert.Contains(t, out, "express")
	assert.Contains(t, out, "(3 days)")
}

func TestFormatQuote_EmptyResult(t *testing.T) {
	out := FormatQuote(&domain.Product{Name: "Widget"}, &quote.ProductQuote{})
	assert.Contains(t, out, "no cost matched")
	assert.Contains(t, out, "no leadtime matched")
}
