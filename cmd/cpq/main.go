package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/quotekit/cpq/internal/cli"
	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/expr"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/quote"
	"github.com/quotekit/cpq/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.cpq/cpq.db
	dbPath := os.Getenv("CPQ_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".cpq", "cpq.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	gates := policy.LifecyclePolicy{}
	engine := quote.NewEngine(expr.NewCELEvaluator())

	var observers []service.UseCaseObserver
	if os.Getenv("CPQ_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Versions:  service.NewVersionService(database, uow, gates, observers...),
		Products:  service.NewProductService(database, uow, gates),
		Factors:   service.NewFactorService(database, uow, gates),
		Costs:     service.NewCostService(database, uow, gates),
		Leadtimes: service.NewLeadtimeService(database, uow, gates),
		Quotes:    service.NewQuoteService(database, engine, observers...),
		Imports:   service.NewImportService(database, uow, gates, observers...),
	}

	// Detect interactive terminal for form-based entry.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
