package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/nav"
	"github.com/p-n-ai/pai-tracker/internal/view"
)

func (r *runner) topicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topics",
		Aliases: []string{"topic"},
		Short:   "List and manage topics",
	}
	cmd.AddCommand(
		r.topicsListCmd(),
		r.topicsAddCmd(),
		r.topicsRenameCmd(),
		r.topicsDeleteCmd(),
		r.topicsToggleCmd(),
	)
	return cmd
}

// topicsView opens the home screen, failing without a session.
func (r *runner) topicsView() (*view.TopicsView, error) {
	if err := r.require(nav.PathHome); err != nil {
		return nil, err
	}
	return r.app.TopicsView(), nil
}

func (r *runner) topicsListCmd() *cobra.Command {
	var (
		tab    string
		search string
		all    bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List topics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			defer v.Close()

			ctx := cmd.Context()
			cr := controller.Criteria{Search: search}
			if tab != "" {
				if cr.Tab, err = controller.ParseTab(tab); err != nil {
					return err
				}
			}
			if err := v.Apply(ctx, cr); err != nil {
				return err
			}
			if all {
				if err := drain(ctx, v.List); err != nil {
					return err
				}
			}
			return v.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&tab, "tab", "t", "", "all, pending or completed (default: last used)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "load every page")
	return cmd
}

func (r *runner) topicsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a topic (admin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			defer v.Close()

			t, err := v.Create(cmd.Context(), forms.TopicForm{Title: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "→ %s\n", nav.TopicPath(t.Slug))
			return nil
		},
	}
}

func (r *runner) topicsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename SLUG TITLE...",
		Short: "Change a topic's title (admin)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := forms.ValidateSlug(args[0]); err != nil {
				return err
			}
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			defer v.Close()

			ctx := cmd.Context()
			if err := v.Apply(ctx, controller.Criteria{Tab: controller.TabAll}); err != nil {
				return err
			}
			if err := locate(ctx, v.List, args[0]); err != nil && !errors.Is(err, controller.ErrNotFound) {
				return err
			}
			t, err := v.Rename(ctx, args[0], forms.TopicForm{Title: strings.Join(args[1:], " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", t.Slug, t.Title)
			return nil
		},
	}
}

func (r *runner) topicsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete SLUG",
		Short: "Delete a topic (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if err := forms.ValidateSlug(slug); err != nil {
				return err
			}
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			defer v.Close()

			if !v.Admin() {
				return view.ErrAdminOnly
			}
			if !yes && !r.confirm(cmd, fmt.Sprintf("Delete topic %q?", slug)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return v.Delete(cmd.Context(), slug)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (r *runner) topicsToggleCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "toggle SLUG",
		Short: "Mark a topic completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if err := forms.ValidateSlug(slug); err != nil {
				return err
			}
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			defer v.Close()

			ctx := cmd.Context()
			if err := v.Apply(ctx, controller.Criteria{Tab: controller.TabAll}); err != nil {
				return err
			}
			if err := locate(ctx, v.List, slug); err != nil {
				return err
			}
			res := v.Toggle(ctx, slug, !undo)
			if res.Outcome != controller.Confirmed {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", res.Item.Slug, view.Status(res.Item.IsCompleted))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark pending instead")
	return cmd
}
