package formatter

import (
	"fmt"
	"strings"

	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/repository"
)

// FormatVersionList renders one page of versions as a table with a
// paging footer.
func FormatVersionList(page *repository.VersionPage) string {
	rows := make([][]string, 0, len(page.Versions))
	for _, v := range page.Versions {
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID),
			v.Name,
			StatusIndicator(v),
			Dim(shortUUID(v.UUID)),
			v.CreatedAt.Format("2006-01-02"),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"ID", "NAME", "STATUS", "UUID", "CREATED"}, rows))

	pages := (page.Total + page.PerPage - 1) / page.PerPage
	if pages > 1 {
		b.WriteString(Dim(fmt.Sprintf("page %d of %d (%d versions)", page.Page, pages, page.Total)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatVersionInspect renders a version with its full product subtree.
func FormatVersionInspect(tree *domain.VersionTree) string {
	var b strings.Builder
	v := tree.Version

	b.WriteString(Header(fmt.Sprintf("Version %d: %s", v.ID, v.Name)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StatusIndicator(v), Dim(v.UUID)))

	if len(tree.Products) == 0 {
		b.WriteString(Dim("no products") + "\n")
		return b.String()
	}

	for _, pt := range tree.Products {
		b.WriteString(fmt.Sprintf("\n%s %s\n", Bold(pt.Product.Name), Dim("["+pt.Product.Code+"]")))

		for _, ft := range pt.Factors {
			label := ft.Factor.Name
			if ft.Factor.IsOptional {
				label += Dim(" (optional)")
			}
			b.WriteString(fmt.Sprintf("  factor  %s\n", label))
			for _, o := range ft.Options {
				b.WriteString(fmt.Sprintf("          %s %s\n", Dim("-"), o.Name))
			}
		}
		for _, ct := range pt.Costs {
			b.WriteString(fmt.Sprintf("  cost    %s %s\n", ct.Cost.Title, Dim("["+ct.Cost.Code+"]")))
			for _, r := range ct.Rules {
				cond := r.Condition
				if cond == "" {
					cond = "always"
				}
				b.WriteString(fmt.Sprintf("          %s %s %s\n", Dim(cond), Dim("→"), StyleGreen.Render(r.Action)))
			}
		}
		for _, lt := range pt.Leadtimes {
			cond := lt.Condition
			if cond == "" {
				cond = "always"
			}
			b.WriteString(fmt.Sprintf("  lead    %s: %d days %s\n", lt.Title, lt.Days, Dim("when "+cond)))
		}
	}
	return b.String()
}

func shortUUID(u string) string {
	if len(u) > 8 {
		return u[:8]
	}
	return u
}
