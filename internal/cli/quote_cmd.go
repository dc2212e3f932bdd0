package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/cli/formatter"
)

// parseParams turns "key=value" pairs into evaluation parameters,
// preferring numeric and boolean values over strings.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected KEY=VALUE", pair)
		}
		switch {
		case raw == "true" || raw == "false":
			params[key] = raw == "true"
		default:
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				params[key] = i
			} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
				params[key] = f
			} else {
				params[key] = raw
			}
		}
	}
	return params, nil
}

func newQuoteCmd(app *App) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "quote PRODUCT",
		Short: "Evaluate a product quote for a set of parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID: %q", args[0])
			}
			params, err := parseParams(pairs)
			if err != nil {
				return err
			}

			product, err := app.Products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			result, err := app.Quotes.QuoteProduct(ctx, productID, params)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatQuote(product, result))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "param", nil, "Evaluation parameter as KEY=VALUE, repeatable")

	return cmd
}
