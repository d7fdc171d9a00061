package workspace

import (
	"context"

	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

// NewResourceStore builds the suggested-resources artifact store for a
// task. Generation replaces the entire list as a batch; a batch
// carrying a semantic error leaves the list empty and surfaces the
// message.
func NewResourceStore(svc ResourceService, taskID int64, log *logging.Logger, gate func() bool, notify func()) *Store[[]models.TaskResource] {
	fetch := func(ctx context.Context) ([]models.TaskResource, bool, error) {
		resources, err := svc.GetResources(ctx, taskID)
		if err != nil {
			return nil, false, err
		}
		return resources, len(resources) > 0, nil
	}

	generate := func(ctx context.Context) ([]models.TaskResource, string, error) {
		batch, err := svc.GenerateResources(ctx, taskID)
		if err != nil {
			return nil, "", err
		}
		if batch.Error != "" {
			return nil, batch.Error, nil
		}
		return batch.Resources, "", nil
	}

	remove := func(ctx context.Context) error {
		return svc.DeleteResources(ctx, taskID)
	}

	return NewStore("resources", log.WithTask(taskID), fetch, generate, remove,
		WithGate[[]models.TaskResource](gate),
		WithNotify[[]models.TaskResource](notify),
	)
}
