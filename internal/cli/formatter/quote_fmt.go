package formatter

import (
	"fmt"
	"strings"

	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/quote"
)

// FormatQuote renders a priced quote for one product: a line per cost,
// the total, and the leadtime when one matched.
func FormatQuote(product *domain.Product, result *quote.ProductQuote) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Quote: %s", product.Name)))
	b.WriteString("\n")

	if len(result.Costs) == 0 {
		b.WriteString(Dim("no cost matched the given parameters") + "\n")
	} else {
		rows := make([][]string, 0, len(result.Costs))
		var total float64
		for _, cq := range result.Costs {
			total += cq.Price
			rows = append(rows, []string{
				cq.Cost.Title,
				Dim(cq.Cost.Code),
				StyleGreen.Render(fmt.Sprintf("%.2f", cq.Price)),
			})
		}
		b.WriteString(RenderTable([]string{"COST", "CODE", "PRICE"}, rows))
		b.WriteString(fmt.Sprintf("%s %s\n", Bold("total"), StyleGreen.Render(fmt.Sprintf("%.2f", total))))
	}

	if result.Leadtime != nil {
		lt := result.Leadtime.Leadtime
		b.WriteString(fmt.Sprintf("%s %s (%d days)\n", Bold("leadtime"), lt.Title, lt.Days))
	} else {
		b.WriteString(Dim("no leadtime matched") + "\n")
	}

	return b.String()
}
