package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDB connects to MONGO_URI and hands out a throwaway database.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("jobboard_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func newJob(status models.JobStatus, deadline *time.Time) *models.Job {
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
	return j
}

func TestJobRepo_Applications(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewJobRepo(db)

	j := newJob(models.JobStatusActive, nil)
	require.NoError(t, repo.Create(ctx, j))

	applicant := primitive.NewObjectID()
	app := models.Application{
		ApplicantID:   applicant,
		ApplicantType: models.ApplicantProfessional,
		AppliedAt:     time.Now().UTC(),
		Status:        models.ApplicationPending,
	}
	require.NoError(t, repo.AddApplication(ctx, j.ID, app))
	assert.ErrorIs(t, repo.AddApplication(ctx, j.ID, app), utils.ErrDuplicate)
	assert.ErrorIs(t, repo.AddApplication(ctx, primitive.NewObjectID(), app), utils.ErrNotFound)

	other := app
	other.ApplicantID = primitive.NewObjectID()
	require.NoError(t, repo.AddApplication(ctx, j.ID, other))

	notes := "strong portfolio"
	require.NoError(t, repo.UpdateApplication(ctx, j.ID, applicant, models.ApplicationShortlisted, &notes))
	assert.ErrorIs(t, repo.UpdateApplication(ctx, j.ID, primitive.NewObjectID(), models.ApplicationRejected, nil), utils.ErrNotFound)

	got, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 2)
	mine := got.ApplicationBy(applicant)
	require.NotNil(t, mine)
	assert.Equal(t, models.ApplicationShortlisted, mine.Status)
	assert.Equal(t, notes, mine.Notes)
	theirs := got.ApplicationBy(other.ApplicantID)
	require.NotNil(t, theirs)
	assert.Equal(t, models.ApplicationPending, theirs.Status)

	listed, err := repo.ListByApplicant(ctx, applicant)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, j.ID, listed[0].ID)
}

func TestJobRepo_CloseExpired(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewJobRepo(db)

	past := time.Now().Add(-time.Hour)
	expired := newJob(models.JobStatusActive, &past)
	draft := newJob(models.JobStatusDraft, &past)
	open := newJob(models.JobStatusActive, nil)
	for _, j := range []*models.Job{expired, draft, open} {
		require.NoError(t, repo.Create(ctx, j))
	}

	n, err := repo.CloseExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, got.Status)
}

func TestProfessionalRepo_Claim(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewProfessionalRepo(db)

	p := &models.Professional{FirstName: "Imported", LastName: "Person", Skills: []string{}}
	p.Touch(time.Now())
	require.NoError(t, repo.Create(ctx, p))

	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, repo.Claim(ctx, p.ID, first, time.Now()))
	assert.ErrorIs(t, repo.Claim(ctx, p.ID, second, time.Now()), utils.ErrDuplicate)
	assert.ErrorIs(t, repo.Claim(ctx, primitive.NewObjectID(), second, time.Now()), utils.ErrNotFound)

	got, err := repo.GetByUser(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}
