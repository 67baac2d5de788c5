package workers

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/notify"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/repositories/memory"
	"github.com/yoockh/jobboard/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedJob(t *testing.T, repos repositories.Set, status models.JobStatus, deadline *time.Time) primitive.ObjectID {
	t.Helper()
	j := &models.Job{
		CompanyID:    primitive.NewObjectID(),
		Title:        "Porter",
		Description:  "Nights",
		ProfessionID: primitive.NewObjectID(),
		JobType:      models.JobTypeFullTime,
		Status:       status,
		Deadline:     deadline,
	}
	j.Touch(time.Now())
	require.NoError(t, repos.Jobs.Create(context.Background(), j))
	return j.ID
}

func TestExpiryWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewSet()
	svc := services.New(services.Deps{Repos: repos, Cache: cache.Noop{}, Events: notify.Noop{}})

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expired := seedJob(t, repos, models.JobStatusActive, &past)
	open := seedJob(t, repos, models.JobStatusActive, &future)
	noDeadline := seedJob(t, repos, models.JobStatusActive, nil)
	draft := seedJob(t, repos, models.JobStatusDraft, &past)

	log := logrus.New()
	log.SetOutput(io.Discard)
	w := &ExpiryWorker{Jobs: svc.Jobs, Logger: log}

	n, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	want := map[primitive.ObjectID]models.JobStatus{
		expired:    models.JobStatusClosed,
		open:       models.JobStatusActive,
		noDeadline: models.JobStatusActive,
		draft:      models.JobStatusDraft,
	}
	for id, status := range want {
		j, err := repos.Jobs.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, j.Status, j.ID.Hex())
	}

	n, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpiryWorker_StartRequiresJobs(t *testing.T) {
	w := &ExpiryWorker{}
	assert.Error(t, w.Start(context.Background()))
}

func TestExpiryWorker_StopsWithContext(t *testing.T) {
	repos := memory.NewSet()
	svc := services.New(services.Deps{Repos: repos, Cache: cache.Noop{}, Events: notify.Noop{}})
	past := time.Now().Add(-time.Minute)
	id := seedJob(t, repos, models.JobStatusActive, &past)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logrus.New()
	log.SetOutput(io.Discard)
	w := &ExpiryWorker{Jobs: svc.Jobs, Interval: time.Hour, Logger: log}
	require.NoError(t, w.Start(ctx))

	// the first sweep runs immediately
	assert.Eventually(t, func() bool {
		j, err := repos.Jobs.GetByID(context.Background(), id)
		return err == nil && j.Status == models.JobStatusClosed
	}, 2*time.Second, 10*time.Millisecond)
}
