package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/monarkh/site/internal/newsletter"
	"github.com/monarkh/site/internal/store"
)

func init() {
	rootCmd.AddCommand(newSubscribersCmd())
}

func newSubscribersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscribers",
		Aliases: []string{"subs"},
		Short:   "Manage newsletter subscribers",
	}
	cmd.AddCommand(
		newSubscribersListCmd(),
		newSubscribersAddCmd(),
		newSubscribersRemoveCmd(),
		newSubscribersExportCmd(),
	)
	return cmd
}

func newSubscribersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscribers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *store.SQLiteStore) error {
				return listSubscribers(cmd.Context(), cmd.OutOrStdout(), s)
			})
		},
	}
}

func listSubscribers(ctx context.Context, out io.Writer, s store.Store) error {
	subs, err := s.ListSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}

	if len(subs) == 0 {
		fmt.Fprintln(out, "No subscribers yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Signups arrive from the newsletter form on the home and articles pages.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tSOURCE\tJOINED")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", sub.Email, sub.Source, sub.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats, err := s.SourceStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get source stats: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s subscribers", formatNumber(len(subs)))
	for i, st := range stats {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		fmt.Fprintf(out, "%s%s: %s", sep, st.Source, formatNumber(st.Subscribers))
	}
	if len(stats) > 0 {
		fmt.Fprint(out, ")")
	}
	fmt.Fprintln(out)
	return nil
}

func newSubscribersAddCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "add [email]",
		Short: "Add a subscriber",
		Long: `Add a subscriber by hand. Without an argument the address is
prompted for.

Example:
  monarkh subscribers add jane@example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				prompt := promptui.Prompt{
					Label:    "Email",
					Validate: validateEmail,
				}
				entered, err := prompt.Run()
				if err != nil {
					return fmt.Errorf("prompt cancelled: %w", err)
				}
				email = entered
			}

			return withStore(func(s *store.SQLiteStore) error {
				return addSubscriber(cmd.Context(), cmd.OutOrStdout(), s, email, source)
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "cli", "signup source recorded for the subscriber")
	return cmd
}

func validateEmail(input string) error {
	_, err := newsletter.Normalize(input)
	return err
}

func addSubscriber(ctx context.Context, out io.Writer, s store.Store, email, source string) error {
	created, err := newsletter.NewService(s, nil, nil).Subscribe(ctx, email, source)
	if err != nil {
		return err
	}
	normalized, _ := newsletter.Normalize(email)
	if created {
		fmt.Fprintf(out, "Subscribed %s\n", normalized)
	} else {
		fmt.Fprintf(out, "%s is already subscribed\n", normalized)
	}
	return nil
}

func newSubscribersRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := newsletter.Normalize(args[0])
			if err != nil {
				return err
			}

			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Remove %s", email),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			return withStore(func(s *store.SQLiteStore) error {
				if err := s.Unsubscribe(cmd.Context(), email); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("subscriber '%s' not found", email)
					}
					return fmt.Errorf("failed to remove subscriber: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newSubscribersExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export subscribers",
		Long: `Export subscribers in CSV or JSON format.

Examples:
  monarkh subscribers export --format csv > subscribers.csv
  monarkh subscribers export --format json > subscribers.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: must be 'csv' or 'json'")
			}
			return withStore(func(s *store.SQLiteStore) error {
				subs, err := s.ListSubscribers(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list subscribers: %w", err)
				}
				if format == "json" {
					return exportJSON(cmd.OutOrStdout(), subs)
				}
				return exportCSV(cmd.OutOrStdout(), subs)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv or json)")
	return cmd
}

func exportCSV(out io.Writer, subs []*store.Subscriber) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"id", "email", "source", "created_at"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, sub := range subs {
		row := []string{
			strconv.FormatInt(sub.ID, 10),
			sub.Email,
			sub.Source,
			sub.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

type exportedSubscriber struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

func exportJSON(out io.Writer, subs []*store.Subscriber) error {
	rows := make([]exportedSubscriber, len(subs))
	for i, sub := range subs {
		rows[i] = exportedSubscriber{
			ID:        sub.ID,
			Email:     sub.Email,
			Source:    sub.Source,
			CreatedAt: sub.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}
