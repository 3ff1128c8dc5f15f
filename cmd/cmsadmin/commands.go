package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/database"
	"github.com/content-modeling-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewTypesCommand creates the types command group
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage content types",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List content types with entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := clientFromFlags(cmd).ListTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list content types: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tNAME\tFIELDS\tENTRIES")
			for _, ct := range types {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", ct.ID, ct.Slug, ct.DisplayName, len(ct.Fields), ct.EntryCount)
			}
			return w.Flush()
		},
	}

	var displayName, description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &models.CreateContentTypeRequest{Name: args[0], DisplayName: displayName}
			if description != "" {
				req.Description = &description
			}

			ct, err := clientFromFlags(cmd).CreateType(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create content type: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (slug: %s)\n", ct.ID, ct.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&displayName, "display-name", "", "display name (defaults to name)")
	create.Flags().StringVar(&description, "description", "", "description")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a content type with its fields and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clientFromFlags(cmd).DeleteType(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete content type: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

// NewEntriesCommand creates the entries command
func NewEntriesCommand() *cobra.Command {
	var page, pageSize int
	var status string

	cmd := &cobra.Command{
		Use:   "entries <type-id>",
		Short: "List entries of a content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := clientFromFlags(cmd).ListEntries(cmd.Context(), args[0], page, pageSize, strings.ToUpper(status))
			if err != nil {
				return fmt.Errorf("failed to list entries: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tSTATUS\tUPDATED")
			for _, e := range result.Entries {
				slug := "-"
				if e.Slug != nil {
					slug = *e.Slug
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, slug, e.Status, e.UpdatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d entries)\n", result.Page, result.Pages, result.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "entries per page (server default when 0)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

// NewBulkCommand creates the bulk command
func NewBulkCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "bulk <type-id> <action> <entry-id>...",
		Short: "Run a bulk action over entries",
		Long: `Run one of the server's configured bulk actions over a set of entries.

Actions that require confirmation print their confirmation text and wait
for "y" on stdin unless --yes is given.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if yes {
				in = strings.NewReader("y\n")
			}
			verbose, _ := cmd.Flags().GetBool("verbose")

			result, err := runBulk(cmd.Context(), clientFromFlags(cmd), args[0], args[1], args[2:], in, cmd.OutOrStdout(), cliLogger(verbose))
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d processed\n", result.Action, len(result.Processed), result.Requested)
			if result.FailedID != "" {
				return fmt.Errorf("stopped at %s: %s", result.FailedID, result.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// runBulk drives a bulk.Controller over the server's action list. A nil
// result with a nil error means the user declined the confirmation.
func runBulk(ctx context.Context, client *Client, typeID, actionID string, ids []string, in io.Reader, out io.Writer, log zerolog.Logger) (*BulkResult, error) {
	actions, err := client.BulkActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bulk actions: %w", err)
	}
	registry, err := bulk.NewRegistry(actions)
	if err != nil {
		return nil, err
	}

	var result *BulkResult
	ctrl := bulk.NewController(registry, func(ctx context.Context, action string, items []string) error {
		// The controller only gets here once the operator has confirmed
		res, err := client.Bulk(ctx, typeID, action, items, true)
		if err != nil {
			return err
		}
		result = res
		if res.FailedID != "" {
			return fmt.Errorf("entry %s: %s", res.FailedID, res.Error)
		}
		return nil
	}, log)

	ctrl.Select(ids...)
	ran, err := ctrl.Invoke(ctx, actionID)
	if errors.Is(err, bulk.ErrUnknownAction) {
		return nil, fmt.Errorf("unknown action %q", actionID)
	}
	if ran || err != nil {
		if result != nil {
			return result, nil
		}
		return nil, err
	}

	pending, _ := ctrl.Pending()
	if !confirm(in, out, pending, len(ctrl.Selected())) {
		ctrl.Cancel()
		return nil, nil
	}

	err = ctrl.Confirm(ctx)
	if result != nil {
		return result, nil
	}
	return nil, err
}

// confirm prints the action's confirmation text and reads a yes/no answer
func confirm(in io.Reader, out io.Writer, action bulk.Action, count int) bool {
	text := action.ConfirmationText
	if text == "" {
		text = fmt.Sprintf("Run %s?", action.Label)
	}
	fmt.Fprintf(out, "%s (%d selected) [y/N]: ", text, count)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// NewPublishDueCommand creates the publish-due command
func NewPublishDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish-due",
		Short: "Publish scheduled entries whose time has come",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := clientFromFlags(cmd).PublishDue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to publish due entries: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d entries\n", n)
			return nil
		},
	}
}

// NewMigrateCommand creates the migrate command, which talks to the database directly
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back database migrations",
		Long:      `Apply or roll back database migrations using the server's DB_* and MIGRATIONS_PATH environment.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")

			db, err := database.New(&cfg.Database, cliLogger(verbose))
			if err != nil {
				return err
			}
			defer db.Close()

			if args[0] == "down" {
				err = db.MigrateDown(cfg.Database.MigrationsPath)
			} else {
				err = db.RunMigrations(cfg.Database.MigrationsPath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s complete\n", args[0])
			return nil
		},
	}
	return cmd
}

// cliLogger writes human readable logs to stderr
func cliLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
