package cli

import (
	"github.com/quotekit/cpq/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Versions  service.VersionService
	Products  service.ProductService
	Factors   service.FactorService
	Costs     service.CostService
	Leadtimes service.LeadtimeService
	Quotes    service.QuoteService
	Imports   service.ImportService

	// IsInteractive reports whether stdin is a terminal; wizards only
	// run when it returns true.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "cpq" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cpq",
		Short: "Versioned product catalog and quote engine",
	}

	root.AddCommand(
		newVersionCmd(app),
		newProductCmd(app),
		newFactorCmd(app),
		newCostCmd(app),
		newLeadtimeCmd(app),
		newQuoteCmd(app),
	)

	return root
}
