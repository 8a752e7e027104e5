package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

const (
	loadingLine = "Loading…"
	emptyLine   = "No topic found!"
)

var titleCase = cases.Title(language.English)

// LevelLabel formats a difficulty for display, e.g. "Medium".
func LevelLabel(l model.Level) string {
	return titleCase.String(string(l))
}

// Status labels a completion flag.
func Status(done bool) string {
	if done {
		return "✔ done"
	}
	return "· pending"
}

// RenderTopics writes topics as a table, the loading line, or the empty line.
func RenderTopics(w io.Writer, items []model.Topic, loaded bool) error {
	if line, ok := placeholder(loaded, len(items)); ok {
		_, err := fmt.Fprintln(w, line)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTopic\tSlug\tStatus")
	for i, t := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, t.Title, t.Slug, Status(t.IsCompleted))
	}
	return tw.Flush()
}

// RenderQuestions writes questions as a table, the loading line, or the
// empty line.
func RenderQuestions(w io.Writer, items []model.Question, loaded bool) error {
	if line, ok := placeholder(loaded, len(items)); ok {
		_, err := fmt.Fprintln(w, line)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tQuestion\tSlug\tLevel\tStatus\tLinks")
	for i, q := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, q.Title, q.Slug, LevelLabel(q.Level), Status(q.Completed), links(q))
	}
	return tw.Flush()
}

// RenderQuestion writes one question in full.
func RenderQuestion(w io.Writer, q model.Question) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s\n", q.Title, LevelLabel(q.Level), Status(q.Completed))
	fmt.Fprintf(&b, "topic: %s (%s)\n", q.Topic.Title, q.Topic.Slug)
	if q.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", q.Description)
	}
	for _, l := range []struct {
		name string
		url  *string
	}{
		{"youtube", q.YoutubeLink},
		{"leetcode", q.LeetcodeLink},
		{"article", q.ArticleLink},
	} {
		if l.url != nil && *l.url != "" {
			fmt.Fprintf(&b, "%s: %s\n", l.name, *l.url)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func placeholder(loaded bool, n int) (string, bool) {
	switch {
	case !loaded:
		return loadingLine, true
	case n == 0:
		return emptyLine, true
	}
	return "", false
}

func links(q model.Question) string {
	var out []string
	if q.YoutubeLink != nil && *q.YoutubeLink != "" {
		out = append(out, "yt")
	}
	if q.LeetcodeLink != nil && *q.LeetcodeLink != "" {
		out = append(out, "lc")
	}
	if q.ArticleLink != nil && *q.ArticleLink != "" {
		out = append(out, "article")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}
