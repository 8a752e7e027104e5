package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/nav"
	"github.com/p-n-ai/pai-tracker/internal/view"
)

func (r *runner) questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"question", "q"},
		Short:   "List and manage the questions of a topic",
	}
	cmd.AddCommand(
		r.questionsListCmd(),
		r.questionsShowCmd(),
		r.questionsAddCmd(),
		r.questionsUpdateCmd(),
		r.questionsDeleteCmd(),
		r.questionsToggleCmd(),
	)
	return cmd
}

// questionsView opens the topic screen, failing without a session.
func (r *runner) questionsView(topic string) (*view.QuestionsView, error) {
	if err := forms.ValidateSlug(topic); err != nil {
		return nil, err
	}
	if err := r.require(nav.TopicPath(topic)); err != nil {
		return nil, err
	}
	return r.app.QuestionsView(topic), nil
}

// findQuestion loads every tab of v until slug is listed.
func findQuestion(cmd *cobra.Command, v *view.QuestionsView, slug string) (model.Question, error) {
	if err := forms.ValidateSlug(slug); err != nil {
		return model.Question{}, err
	}
	ctx := cmd.Context()
	if err := v.Apply(ctx, controller.Criteria{Tab: controller.TabAll}); err != nil {
		return model.Question{}, err
	}
	if err := locate(ctx, v.List, slug); err != nil {
		return model.Question{}, err
	}
	q, _ := v.Find(slug)
	return q, nil
}

func parseLevels(in []string) ([]model.Level, error) {
	var out []model.Level
	for _, s := range in {
		l, err := model.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *runner) questionsListCmd() *cobra.Command {
	var (
		tab    string
		search string
		levels []string
		all    bool
	)
	cmd := &cobra.Command{
		Use:     "list TOPIC",
		Aliases: []string{"ls"},
		Short:   "List the questions of a topic",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			cr := controller.Criteria{Search: search}
			if cr.Tab, err = controller.ParseTab(tab); err != nil {
				return err
			}
			if cr.Levels, err = parseLevels(levels); err != nil {
				return err
			}
			ctx := cmd.Context()
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
	cmd.Flags().StringVarP(&tab, "tab", "t", string(controller.TabPending), "all, pending or completed")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title")
	cmd.Flags().StringSliceVarP(&levels, "level", "l", nil, "difficulty filter, repeatable (easy, medium, hard)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "load every page")
	return cmd
}

func (r *runner) questionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show TOPIC SLUG",
		Short: "Show one question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			q, err := findQuestion(cmd, v, args[1])
			if err != nil {
				return err
			}
			return view.RenderQuestion(cmd.OutOrStdout(), q)
		},
	}
}

// questionFlags are the editable question fields.
type questionFlags struct {
	title       string
	description string
	level       string
	youtube     string
	leetcode    string
	article     string
}

func (qf *questionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&qf.title, "title", "", "question title")
	fs.StringVar(&qf.description, "description", "", "question description")
	fs.StringVar(&qf.level, "level", string(model.LevelEasy), "easy, medium or hard")
	fs.StringVar(&qf.youtube, "youtube", "", "YouTube link")
	fs.StringVar(&qf.leetcode, "leetcode", "", "LeetCode link")
	fs.StringVar(&qf.article, "article", "", "article link")
}

// apply copies the flags set on the command line into f.
func (qf *questionFlags) apply(fs *pflag.FlagSet, f *forms.QuestionForm) error {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("title", &f.Title, qf.title)
	set("description", &f.Description, qf.description)
	set("youtube", &f.YoutubeLink, qf.youtube)
	set("leetcode", &f.LeetcodeLink, qf.leetcode)
	set("article", &f.ArticleLink, qf.article)
	if fs.Changed("level") {
		l, err := model.ParseLevel(qf.level)
		if err != nil {
			return err
		}
		f.Level = l
	}
	return nil
}

// pickTopic resolves slug through the topic dropdown.
func (r *runner) pickTopic(cmd *cobra.Command, slug string) (model.TopicRef, error) {
	p := r.app.TopicPicker()
	defer p.Close()
	if err := p.Open(cmd.Context()); err != nil {
		return model.TopicRef{}, err
	}
	return p.Pick(cmd.Context(), slug)
}

func (r *runner) questionsAddCmd() *cobra.Command {
	var qf questionFlags
	cmd := &cobra.Command{
		Use:   "add TOPIC",
		Short: "Create a question (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if !v.Admin() {
				return view.ErrAdminOnly
			}

			topic, err := r.pickTopic(cmd, args[0])
			if err != nil {
				return err
			}
			f := v.NewForm(topic)
			if err := qf.apply(cmd.Flags(), &f); err != nil {
				return err
			}
			q, err := v.Create(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s [%s]\n", q.Slug, q.Title, view.LevelLabel(q.Level))
			return nil
		},
	}
	qf.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func (r *runner) questionsUpdateCmd() *cobra.Command {
	var (
		qf     questionFlags
		moveTo string
	)
	cmd := &cobra.Command{
		Use:   "update TOPIC SLUG",
		Short: "Edit a question (admin)",
		Long: `Edit a question. Only the flags given are changed; an empty link
flag clears that link.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if !v.Admin() {
				return view.ErrAdminOnly
			}

			orig, err := findQuestion(cmd, v, args[1])
			if err != nil {
				return err
			}
			f := forms.QuestionFormFrom(orig)
			if err := qf.apply(cmd.Flags(), &f); err != nil {
				return err
			}
			if moveTo != "" {
				topic, err := r.pickTopic(cmd, moveTo)
				if err != nil {
					return err
				}
				f.Topic = &topic
			}
			q, err := v.Update(cmd.Context(), args[1], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s → %s\n", q.Slug, q.Title, nav.TopicPath(q.Topic.Slug))
			return nil
		},
	}
	qf.register(cmd.Flags())
	cmd.Flags().StringVar(&moveTo, "move-to", "", "slug of the topic to move the question to")
	return cmd
}

func (r *runner) questionsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete TOPIC SLUG",
		Short: "Delete a question (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[1]
			if err := forms.ValidateSlug(slug); err != nil {
				return err
			}
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			if !v.Admin() {
				return view.ErrAdminOnly
			}
			if !yes && !r.confirm(cmd, fmt.Sprintf("Delete question %q?", slug)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return v.Delete(cmd.Context(), slug)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (r *runner) questionsToggleCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "toggle TOPIC SLUG",
		Short: "Mark a question completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.questionsView(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			if _, err := findQuestion(cmd, v, args[1]); err != nil {
				return err
			}
			res := v.Toggle(cmd.Context(), args[1], !undo)
			if res.Outcome != controller.Confirmed {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", res.Item.Slug, view.Status(res.Item.Completed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark pending instead")
	return cmd
}
