package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/contract"
)

func newCostCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Manage the cost components of a product",
	}

	cmd.AddCommand(
		newCostAddCmd(app),
		newCostListCmd(app),
		newCostUpdateCmd(app),
		newCostRemoveCmd(app),
		newCostSortCmd(app),
	)

	return cmd
}

// parseRuleSpecs turns "--rule" values into rule payloads. A spec reads
// "CONDITION=>ACTION"; a bare "=>ACTION" matches unconditionally, an
// "ID:" prefix updates an existing rule.
func parseRuleSpecs(specs []string) ([]contract.SaveRule, error) {
	rules := make([]contract.SaveRule, 0, len(specs))
	for _, spec := range specs {
		rule := contract.SaveRule{}
		body := spec
		if idPart, rest, ok := strings.Cut(spec, ":"); ok {
			if id, err := strconv.ParseInt(idPart, 10, 64); err == nil {
				rule.ID = id
				body = rest
			}
		}
		condition, action, ok := strings.Cut(body, "=>")
		if !ok {
			return nil, fmt.Errorf("invalid rule spec %q, expected CONDITION=>ACTION", spec)
		}
		rule.Condition = strings.TrimSpace(condition)
		rule.Action = strings.TrimSpace(action)
		rules = append(rules, rule)
	}
	return rules, nil
}

func newCostAddCmd(app *App) *cobra.Command {
	var (
		productID int64
		title     string
		code      string
		order     int
		ruleSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a cost component to a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && app.interactive() {
				if err := nameForm("Cost Title", &title).Run(); err != nil {
					return err
				}
			}

			rules, err := parseRuleSpecs(ruleSpecs)
			if err != nil {
				return err
			}

			tree, err := app.Costs.Create(context.Background(), productID, contract.SaveCost{
				Title:     title,
				Code:      code,
				SortOrder: order,
				Rules:     rules,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created cost %d: %s [%s] (%d rules)\n", tree.Cost.ID, tree.Cost.Title, tree.Cost.Code, len(tree.Rules))
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringVar(&title, "title", "", "Cost title")
	cmd.Flags().StringVar(&code, "code", "", "Cost code, unique within the product")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	cmd.Flags().StringArrayVar(&ruleSpecs, "rule", nil, "Rule as CONDITION=>ACTION, repeatable")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newCostListCmd(app *App) *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cost components of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := app.Costs.ListByProduct(context.Background(), productID)
			if err != nil {
				return err
			}
			if len(trees) == 0 {
				fmt.Println("No costs found.")
				return nil
			}

			for _, t := range trees {
				fmt.Printf("%d\t%s\t%s\t(order %d)\n", t.Cost.ID, t.Cost.Code, t.Cost.Title, t.Cost.SortOrder)
				for _, r := range t.Rules {
					condition := r.Condition
					if condition == "" {
						condition = "always"
					}
					fmt.Printf("\t%d\tif %s\t-> %s\n", r.ID, condition, r.Action)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newCostUpdateCmd(app *App) *cobra.Command {
	var (
		title     string
		code      string
		order     int
		ruleSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a cost and replace its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cost ID: %q", args[0])
			}

			existing, err := app.Costs.GetTree(ctx, id)
			if err != nil {
				return err
			}
			if title == "" {
				title = existing.Cost.Title
			}
			if code == "" {
				code = existing.Cost.Code
			}
			if !cmd.Flags().Changed("order") {
				order = existing.Cost.SortOrder
			}

			rules, err := parseRuleSpecs(ruleSpecs)
			if err != nil {
				return err
			}

			tree, err := app.Costs.Update(ctx, id, contract.SaveCost{
				Title:     title,
				Code:      code,
				SortOrder: order,
				Rules:     rules,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated cost %d: %s [%s] (%d rules)\n", tree.Cost.ID, tree.Cost.Title, tree.Cost.Code, len(tree.Rules))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Cost title")
	cmd.Flags().StringVar(&code, "code", "", "Cost code, unique within the product")
	cmd.Flags().IntVar(&order, "order", 0, "Sort order")
	cmd.Flags().StringArrayVar(&ruleSpecs, "rule", nil, "Rule as [ID:]CONDITION=>ACTION, repeatable")

	return cmd
}

func newCostRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a cost and its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cost ID: %q", args[0])
			}
			if err := app.Costs.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed cost %d\n", id)
			return nil
		},
	}
}

func newCostSortCmd(app *App) *cobra.Command {
	var (
		productID int64
		pairs     []string
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the cost components of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseSortEntries(pairs)
			if err != nil {
				return err
			}
			if err := app.Costs.Sort(context.Background(), productID, entries); err != nil {
				return err
			}
			fmt.Printf("Sorted %d costs\n", len(entries))
			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product ID")
	cmd.Flags().StringSliceVar(&pairs, "set", nil, "ID=ORDER pair, repeatable")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
