package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotekit/cpq/internal/cli/formatter"
	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/domain"
)

// resolveVersionID accepts a numeric id, a full uuid, or a unique uuid
// prefix.
func resolveVersionID(ctx context.Context, app *App, input string) (int64, error) {
	if input == "" {
		return 0, fmt.Errorf("version ID is required")
	}
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		return id, nil
	}

	var matches []*domain.Version
	for page := 1; ; page++ {
		p, err := app.Versions.List(ctx, page)
		if err != nil {
			return 0, err
		}
		for _, v := range p.Versions {
			if v.UUID == input {
				return v.ID, nil
			}
			if strings.HasPrefix(v.UUID, input) {
				matches = append(matches, v)
			}
		}
		if page*p.PerPage >= p.Total {
			break
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("version not found: %q", input)
	case 1:
		return matches[0].ID, nil
	default:
		return 0, fmt.Errorf("version uuid prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newVersionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage catalog versions",
	}

	cmd.AddCommand(
		newVersionAddCmd(app),
		newVersionListCmd(app),
		newVersionInspectCmd(app),
		newVersionUpdateCmd(app),
		newVersionLockCmd(app),
		newVersionUnlockCmd(app),
		newVersionActivateCmd(app),
		newVersionReplicateCmd(app),
		newVersionRemoveCmd(app),
	)

	return cmd
}

func newVersionAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new catalog version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && app.interactive() {
				if err := nameForm("Version Name", &name).Run(); err != nil {
					return err
				}
			}

			v, err := app.Versions.Create(context.Background(), contract.SaveVersion{Name: name})
			if err != nil {
				return err
			}

			fmt.Printf("Created version %d: %s (%s)\n", v.ID, v.Name, v.UUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Version name")

	return cmd
}

func newVersionListCmd(app *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Versions.List(context.Background(), page)
			if err != nil {
				return err
			}

			if result.Total == 0 {
				fmt.Println("No versions found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatVersionList(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")

	return cmd
}

func newVersionInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show a version and its full product subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tree, err := app.Versions.GetTree(ctx, id)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatVersionInspect(tree))
			return nil
		},
	}
}

func newVersionUpdateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}

			v, err := app.Versions.Update(ctx, id, contract.SaveVersion{Name: name})
			if err != nil {
				return err
			}

			fmt.Printf("Updated version %d: %s\n", v.ID, v.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New version name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newVersionLockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lock ID",
		Short: "Lock a version against edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			v, err := app.Versions.Lock(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Locked version %d: %s\n", v.ID, v.Name)
			return nil
		},
	}
}

func newVersionUnlockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock ID",
		Short: "Unlock a locked version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			v, err := app.Versions.Unlock(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Unlocked version %d: %s\n", v.ID, v.Name)
			return nil
		},
	}
}

func newVersionActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate ID",
		Short: "Activate a locked version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			v, err := app.Versions.Activate(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Activated version %d: %s\n", v.ID, v.Name)
			return nil
		},
	}
}

func newVersionReplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "replicate ID",
		Short: "Copy a version into a new editable draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tree, err := app.Versions.Replicate(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Replicated version %d into %d (%s, %d products)\n",
				id, tree.Version.ID, tree.Version.UUID, len(tree.Products))
			return nil
		},
	}
}

func newVersionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a version and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveVersionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Versions.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed version %d\n", id)
			return nil
		},
	}
}
