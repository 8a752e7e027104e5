package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/nav"
	"github.com/p-n-ai/pai-tracker/internal/view"
)

const browseHelp = `Type text to search, or a command:
  /search TEXT     search by title
  /clear           clear the search
  /tab TAB         all, pending or completed
  /level LEVEL     toggle a difficulty filter (questions)
  /more            load the next page
  /toggle SLUG     mark completed; add "undo" to mark pending
  /delete SLUG     delete (admin)
  /open SLUG       open a topic's questions
  /show SLUG       show a question
  /back            return to the topics
  /quit            leave`

// screen is the part of a list view the browser drives directly.
type screen interface {
	Search(ctx context.Context, text string)
	ClearSearch(ctx context.Context)
	FlushSearch() bool
	SetTab(ctx context.Context, tab controller.Tab) error
	LoadMore(ctx context.Context) (bool, error)
	Delete(ctx context.Context, slug string) error
	Render(w io.Writer) error
	Close()
}

func (r *runner) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [TOPIC]",
		Short: "Browse topics and questions interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.topicsView()
			if err != nil {
				return err
			}
			b := &browser{r: r, cmd: cmd, out: cmd.OutOrStdout(), topics: v}
			defer b.close()

			ctx := cmd.Context()
			if len(args) == 1 {
				if err := b.open(ctx, args[0]); err != nil {
					return err
				}
			} else if err := v.Load(ctx); err != nil {
				b.report(err)
			}
			return b.run(ctx)
		},
	}
}

type browser struct {
	r         *runner
	cmd       *cobra.Command
	out       io.Writer
	topics    *view.TopicsView
	questions *view.QuestionsView
}

func (b *browser) current() screen {
	if b.questions != nil {
		return b.questions
	}
	return b.topics
}

func (b *browser) run(ctx context.Context) error {
	in := b.r.reader(b.cmd)
	b.render()
	for {
		fmt.Fprintf(b.out, "%s> ", b.location())
		line, err := in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			quit, cerr := b.exec(ctx, line)
			if cerr != nil {
				b.report(cerr)
			}
			if quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(b.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one input line and reports whether the browser should exit.
func (b *browser) exec(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		return false, b.search(ctx, line)
	}
	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	s := b.current()

	var err error
	switch name {
	case "quit", "q", "exit":
		return true, nil
	case "help", "h", "?":
		fmt.Fprintln(b.out, browseHelp)
		return false, nil
	case "search", "s":
		return false, b.search(ctx, rest)
	case "clear":
		s.ClearSearch(ctx)
		s.FlushSearch()
	case "tab":
		var tab controller.Tab
		if tab, err = controller.ParseTab(rest); err == nil {
			err = s.SetTab(ctx, tab)
		}
	case "level":
		err = b.toggleLevel(ctx, rest)
	case "more", "m":
		var more bool
		if more, err = s.LoadMore(ctx); err == nil && !more {
			fmt.Fprintln(b.out, "No more pages.")
			return false, nil
		}
	case "toggle", "t":
		slug, undo, _ := strings.Cut(rest, " ")
		err = b.toggle(ctx, slug, strings.TrimSpace(undo) != "undo")
	case "delete", "rm":
		if rest == "" {
			return false, errors.New("usage: /delete SLUG")
		}
		if !b.r.confirm(b.cmd, fmt.Sprintf("Delete %q?", rest)) {
			fmt.Fprintln(b.out, "Cancelled.")
			return false, nil
		}
		err = s.Delete(ctx, rest)
	case "open", "o":
		if b.questions != nil {
			return false, errors.New("already inside a topic; /back first")
		}
		err = b.open(ctx, rest)
	case "show":
		return false, b.show(rest)
	case "back", "b":
		if b.questions != nil {
			b.questions.Close()
			b.questions = nil
		}
	default:
		return false, fmt.Errorf("unknown command /%s (try /help)", name)
	}
	if err != nil {
		return false, err
	}
	b.render()
	return false, nil
}

// search feeds the text through the debounced search and applies it at
// once, since a line is a complete input.
func (b *browser) search(ctx context.Context, text string) error {
	s := b.current()
	s.Search(ctx, text)
	s.FlushSearch()
	b.render()
	return nil
}

func (b *browser) toggleLevel(ctx context.Context, arg string) error {
	if b.questions == nil {
		return errors.New("difficulty filters apply to questions; /open a topic first")
	}
	l, err := model.ParseLevel(arg)
	if err != nil {
		return err
	}
	return b.questions.ToggleLevel(ctx, l)
}

func (b *browser) toggle(ctx context.Context, slug string, desired bool) error {
	if slug == "" {
		return errors.New("usage: /toggle SLUG [undo]")
	}
	if b.questions != nil {
		return b.questions.Toggle(ctx, slug, desired).Err
	}
	return b.topics.Toggle(ctx, slug, desired).Err
}

func (b *browser) open(ctx context.Context, slug string) error {
	v, err := b.r.questionsView(slug)
	if err != nil {
		return err
	}
	b.questions = v
	if err := v.Load(ctx); err != nil {
		b.report(err)
	}
	return nil
}

func (b *browser) show(slug string) error {
	if b.questions == nil {
		return errors.New("/show works inside a topic")
	}
	q, ok := b.questions.Find(slug)
	if !ok {
		return fmt.Errorf("%q: %w", slug, controller.ErrNotFound)
	}
	return view.RenderQuestion(b.out, q)
}

func (b *browser) location() string {
	if b.questions != nil {
		return nav.TopicPath(b.questions.TopicSlug())
	}
	return nav.PathHome
}

func (b *browser) render() {
	if err := b.current().Render(b.out); err != nil {
		b.report(err)
	}
}

func (b *browser) report(err error) {
	if !b.r.shown(err) {
		fmt.Fprintln(b.out, "✖", err)
	}
}

func (b *browser) close() {
	if b.questions != nil {
		b.questions.Close()
	}
	b.topics.Close()
}
