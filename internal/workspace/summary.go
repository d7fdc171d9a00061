package workspace

import (
	"context"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// NewSummaryStore builds the study-guide artifact store for a task.
// A summary whose Error flag is set is rendered as an error but the
// payload is kept so its message can be shown.
func NewSummaryStore(svc SummaryService, taskID int64, log *logging.Logger, gate func() bool, notify func()) *Store[models.AISummary] {
	fetch := func(ctx context.Context) (models.AISummary, bool, error) {
		summary, err := svc.GetSummary(ctx, taskID)
		if err != nil || summary == nil {
			return models.AISummary{}, false, err
		}
		return *summary, true, nil
	}

	generate := func(ctx context.Context) (models.AISummary, string, error) {
		summary, err := svc.GenerateSummary(ctx, taskID)
		if err != nil {
			return models.AISummary{}, "", err
		}
		if summary.Error {
			return *summary, summary.Summary, nil
		}
		return *summary, "", nil
	}

	remove := func(ctx context.Context) error {
		return svc.DeleteSummary(ctx, taskID)
	}

	classify := func(s models.AISummary) string {
		if s.Error {
			return s.Summary
		}
		return ""
	}

	return NewStore("summary", log.WithTask(taskID), fetch, generate, remove,
		WithGate[models.AISummary](gate),
		WithSemantic(classify, true),
		WithNotify[models.AISummary](notify),
	)
}
