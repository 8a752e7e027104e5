// Package export writes topics and questions to an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
)

const (
	SheetTopics    = "Topics"
	SheetQuestions = "Questions"
)

var (
	topicHeader    = []any{"Title", "Slug", "Completed"}
	questionHeader = []any{"Topic", "Title", "Slug", "Level", "Completed", "YouTube", "LeetCode", "Article"}
)

// TopicLister lists topics.
type TopicLister interface {
	List(ctx context.Context, q api.TopicQuery) (model.Page[model.Topic], error)
}

// QuestionLister lists questions.
type QuestionLister interface {
	List(ctx context.Context, q api.QuestionQuery) (model.Page[model.Question], error)
}

// Workbook is the data of one export.
type Workbook struct {
	Topics    []model.Topic
	Questions []model.Question
}

// Exporter pages through the backend and builds workbooks.
type Exporter struct {
	topics    TopicLister
	questions QuestionLister
	notifier  notify.Notifier
	logger    *slog.Logger
}

func NewExporter(topics TopicLister, questions QuestionLister, n notify.Notifier, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{topics: topics, questions: questions, notifier: n, logger: logger}
}

// Collect loads every topic and the questions of each slug in topicSlugs.
func (e *Exporter) Collect(ctx context.Context, topicSlugs []string) (*Workbook, error) {
	topics, err := collectAll(ctx, controller.Config[model.Topic]{
		Resource: "topic",
		Fetch: func(ctx context.Context, q controller.Query) (model.Page[model.Topic], error) {
			return e.topics.List(ctx, api.TopicQuery{Page: q.Page})
		},
		Notifier: e.notifier,
		Logger:   e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("collecting topics: %w", err)
	}

	wb := &Workbook{Topics: topics}
	for _, slug := range topicSlugs {
		qs, err := collectAll(ctx, controller.Config[model.Question]{
			Resource: "question",
			Fetch: func(ctx context.Context, q controller.Query) (model.Page[model.Question], error) {
				return e.questions.List(ctx, api.QuestionQuery{TopicSlug: slug, Page: q.Page})
			},
			Notifier: e.notifier,
			Logger:   e.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("collecting questions of %s: %w", slug, err)
		}
		for i := range qs {
			if qs[i].Topic.Slug == "" {
				qs[i].Topic.Slug = slug
			}
		}
		wb.Questions = append(wb.Questions, qs...)
	}

	e.logger.Info("export collected", "topics", len(wb.Topics), "questions", len(wb.Questions))
	return wb, nil
}

// ExportFile collects and saves the workbook to path.
func (e *Exporter) ExportFile(ctx context.Context, path string, topicSlugs []string) (*Workbook, error) {
	wb, err := e.Collect(ctx, topicSlugs)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := wb.Write(out); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", path, err)
	}
	return wb, nil
}

func collectAll[T controller.Record[T]](ctx context.Context, cfg controller.Config[T]) ([]T, error) {
	cfg.Tab = controller.TabAll
	l := controller.NewList(cfg)
	defer l.Close()

	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	for {
		more, err := l.LoadMore(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	items, _ := l.Items().Snapshot()
	return items, nil
}

// Write encodes the workbook as xlsx.
func (wb *Workbook) Write(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTopics); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetQuestions); err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	topicRows := make([][]any, 0, len(wb.Topics))
	for _, t := range wb.Topics {
		topicRows = append(topicRows, []any{t.Title, t.Slug, yesNo(t.IsCompleted)})
	}
	if err := writeSheet(f, SheetTopics, topicHeader, topicRows, bold); err != nil {
		return err
	}

	questionRows := make([][]any, 0, len(wb.Questions))
	for _, q := range wb.Questions {
		questionRows = append(questionRows, []any{
			q.Topic.Slug, q.Title, q.Slug, string(q.Level), yesNo(q.Completed),
			deref(q.YoutubeLink), deref(q.LeetcodeLink), deref(q.ArticleLink),
		})
	}
	if err := writeSheet(f, SheetQuestions, questionHeader, questionRows, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 24); err != nil {
		return fmt.Errorf("%s widths: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
