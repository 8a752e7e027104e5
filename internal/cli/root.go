// Package cli is the tracker command line: one cobra command per screen
// action, plus an interactive browser.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tracker/internal/app"
	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/nav"
	"github.com/p-n-ai/pai-tracker/internal/session"
)

// Factory builds the application. The returned func releases it.
type Factory func(ctx context.Context) (*app.App, func(), error)

type runner struct {
	factory Factory
	app     *app.App
	cleanup func()
	in      *bufio.Reader
}

// NewRootCmd creates the command tree. The returned func releases the
// application if a command started it; call it after Execute.
func NewRootCmd(factory Factory) (*cobra.Command, func()) {
	r := &runner{factory: factory}
	return r.rootCmd(), r.stop
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Track coding practice topics and questions",
		Long: `Tracker is a client for the practice tracker API. Sign in, browse
topics and their questions, mark them completed and, as an admin, manage
the catalogue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.start(cmd.Context())
		},
	}
	root.AddCommand(
		r.signinCmd(),
		r.signupCmd(),
		r.signoutCmd(),
		r.whoamiCmd(),
		r.themeCmd(),
		r.topicsCmd(),
		r.questionsCmd(),
		r.browseCmd(),
		r.exportCmd(),
		r.routeCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, factory Factory, args []string) int {
	r := &runner{factory: factory}
	root := r.rootCmd()
	defer r.stop()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !r.shown(err) {
			fmt.Fprintln(root.ErrOrStderr(), "✖", err)
		}
		return 1
	}
	return 0
}

func (r *runner) start(ctx context.Context) error {
	if r.app != nil {
		return nil
	}
	a, cleanup, err := r.factory(ctx)
	if err != nil {
		return fmt.Errorf("starting tracker: %w", err)
	}
	r.app, r.cleanup = a, cleanup
	a.Start(ctx)
	return nil
}

func (r *runner) stop() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}

// shown reports whether err was already printed as a notification.
func (r *runner) shown(err error) bool {
	if r.app == nil {
		return false
	}
	n, ok := r.app.Notifier.(interface{ LastError() string })
	return ok && n.LastError() == err.Error()
}

// require resolves path the way the router would and fails when the
// screen is not reachable from the current session.
func (r *runner) require(path string) error {
	d := r.app.Navigate(path)
	switch {
	case d.Route == nav.RouteNotFound:
		return fmt.Errorf("%s: page not found", path)
	case d.Redirect != "" && !d.Route.Public():
		return fmt.Errorf("%w: run `tracker signin --prev %s`", session.ErrNoSession, nav.PrevURL(d.Redirect))
	}
	return nil
}

func (r *runner) reader(cmd *cobra.Command) *bufio.Reader {
	if r.in == nil {
		r.in = bufio.NewReader(cmd.InOrStdin())
	}
	return r.in
}

func (r *runner) prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := r.reader(cmd).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *runner) confirm(cmd *cobra.Command, question string) bool {
	answer, err := r.prompt(cmd, question+" (y/N): ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// drain pages l until the last page.
func drain[T controller.Record[T]](ctx context.Context, l *controller.List[T]) error {
	for {
		more, err := l.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// locate pages l until the record with slug is listed.
func locate[T controller.Record[T]](ctx context.Context, l *controller.List[T], slug string) error {
	for {
		items, _ := l.Items().Snapshot()
		for _, it := range items {
			if it.Key() == slug {
				return nil
			}
		}
		more, err := l.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !more {
			return fmt.Errorf("%q: %w", slug, controller.ErrNotFound)
		}
	}
}
