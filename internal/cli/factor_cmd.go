package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/contract"
)

func newFactorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factor",
		Short: "Manage the configurable factors of a product",
	}

	cmd.AddCommand(
		newFactorAddCmd(app),
		newFactorListCmd(app),
		newFactorUpdateCmd(app),
		newFactorRemoveCmd(app),
		newFactorSortCmd(app),
		newFactorImportCmd(app),
	)

	return cmd
}

// parseOptionSpecs turns "--option" values into option payloads. A bare
// NAME creates a new option; an "ID:NAME" spec updates an existing one.
func parseOptionSpecs(specs []string) ([]contract.SaveOption, error) {
	options := make([]contract.SaveOption, 0, len(specs))
	for i, spec := range specs {
		opt := contract.SaveOption{SortOrder: i}
		if idPart, name, ok := strings.Cut(spec, ":"); ok {
			id, err := strconv.ParseInt(idPart, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid option spec %q, expected NAME or ID:NAME", spec)
			}
			opt.ID = id
			opt.Name = name
		} else {
			opt.Name = spec
		}
		options = append(options, opt)
	}
	return options, nil
}

func newFactorAddCmd(app *App) *cobra.Command {
	var (
		productID int64
		name      string
		optional  bool
		order     int
		optSpecs  []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a factor to a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && app.interactive() {
				if err := nameForm("Factor Name", &name).Run(); err != nil {
					return err
				}
			}

			options, err := parseOptionSpecs(optSpecs)
			if err != nil {
				return err
			}

			tree, err := app.Factors.Create(context.Background(), productID, contract.SaveFactor{
				Name:       name,
				IsOptional: optional,
				SortOrder:  order,
				Options:    options,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created factor %d: %s (%d options)\n", tree.Factor.ID, tree.Factor.Name, len(tree.Options))
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringVar(&name, "name", "", "Factor name")
	cmd.Flags().BoolVar(&optional, "optional", false, "Factor carries selectable options")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	cmd.Flags().StringArrayVar(&optSpecs, "option", nil, "Option name, repeatable")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newFactorListCmd(app *App) *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the factors of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := app.Factors.ListByProduct(context.Background(), productID)
			if err != nil {
				return err
			}
			if len(trees) == 0 {
				fmt.Println("No factors found.")
				return nil
			}

			for _, t := range trees {
				kind := "fixed"
				if t.Factor.IsOptional {
					kind = "optional"
				}
				fmt.Printf("%d\t%s\t%s\t(order %d)\n", t.Factor.ID, t.Factor.Name, kind, t.Factor.SortOrder)
				for _, o := range t.Options {
					fmt.Printf("\t%d\t%s\t(order %d)\n", o.ID, o.Name, o.SortOrder)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newFactorUpdateCmd(app *App) *cobra.Command {
	var (
		name     string
		optional bool
		order    int
		optSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a factor and replace its options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid factor ID: %q", args[0])
			}

			existing, err := app.Factors.GetTree(ctx, id)
			if err != nil {
				return err
			}
			if name == "" {
				name = existing.Factor.Name
			}
			if !cmd.Flags().Changed("optional") {
				optional = existing.Factor.IsOptional
			}
			if !cmd.Flags().Changed("order") {
				order = existing.Factor.SortOrder
			}

			options, err := parseOptionSpecs(optSpecs)
			if err != nil {
				return err
			}

			tree, err := app.Factors.Update(ctx, id, contract.SaveFactor{
				Name:       name,
				IsOptional: optional,
				SortOrder:  order,
				Options:    options,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated factor %d: %s (%d options)\n", tree.Factor.ID, tree.Factor.Name, len(tree.Options))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Factor name")
	cmd.Flags().BoolVar(&optional, "optional", false, "Factor carries selectable options")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	cmd.Flags().StringArrayVar(&optSpecs, "option", nil, "Option as NAME or ID:NAME, repeatable")

	return cmd
}

func newFactorRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a factor and its options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid factor ID: %q", args[0])
			}
			if err := app.Factors.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed factor %d\n", id)
			return nil
		},
	}
}

// parseFactorSortEntries parses factor pairs plus "FACTOR:OPTION=ORDER"
// specs for nested option ordering.
func parseFactorSortEntries(pairs, optionSpecs []string) ([]contract.FactorSortEntry, error) {
	flat, err := parseSortEntries(pairs)
	if err != nil {
		return nil, err
	}

	entries := make([]contract.FactorSortEntry, 0, len(flat))
	index := make(map[int64]int, len(flat))
	for _, e := range flat {
		index[e.ID] = len(entries)
		entries = append(entries, contract.FactorSortEntry{ID: e.ID, SortOrder: e.SortOrder})
	}

	for _, spec := range optionSpecs {
		factorPart, rest, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid option sort spec %q, expected FACTOR:OPTION=ORDER", spec)
		}
		factorID, err := strconv.ParseInt(factorPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid option sort spec %q: %w", spec, err)
		}
		nested, err := parseSortEntries([]string{rest})
		if err != nil {
			return nil, err
		}

		i, known := index[factorID]
		if !known {
			index[factorID] = len(entries)
			i = len(entries)
			entries = append(entries, contract.FactorSortEntry{ID: factorID})
		}
		entries[i].Options = append(entries[i].Options, nested...)
	}

	return entries, nil
}

func newFactorSortCmd(app *App) *cobra.Command {
	var (
		productID   int64
		pairs       []string
		optionSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the factors of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseFactorSortEntries(pairs, optionSpecs)
			if err != nil {
				return err
			}
			if err := app.Factors.Sort(context.Background(), productID, entries); err != nil {
				return err
			}
			fmt.Printf("Sorted %d factors\n", len(entries))
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringSliceVar(&pairs, "set", nil, "ID=ORDER pair, repeatable")
	cmd.Flags().StringArrayVar(&optionSpecs, "option-set", nil, "FACTOR:OPTION=ORDER pair, repeatable")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newFactorImportCmd(app *App) *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import factors and options from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Imports.ImportFactors(context.Background(), productID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d factors and %d options\n", result.FactorCount, result.OptionCount)
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
