package mongo

import (
	"context"
	"time"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type jobRepo struct {
	col *mongo.Collection
}

func NewJobRepo(db *mongo.Database) repositories.JobRepository {
	return &jobRepo{col: db.Collection(ColJobs)}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	if j.Applications == nil {
		// $push needs an array, not null
		j.Applications = []models.Application{}
	}
	return insertOne(ctx, r.col, j)
}

func (r *jobRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	return findOne[models.Job](ctx, r.col, bson.M{"_id": id})
}

func (r *jobRepo) List(ctx context.Context, f repositories.JobFilter) ([]models.Job, error) {
	filter := bson.M{}
	setIfID(filter, "company", f.CompanyID)
	setIfID(filter, "profession", f.ProfessionID)
	setIfID(filter, "country", f.CountryID)
	setIfID(filter, "province", f.ProvinceID)
	setIfID(filter, "city", f.CityID)
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	if f.JobType != nil {
		filter["job_type"] = *f.JobType
	}
	if f.Urgent != nil {
		filter["is_urgent"] = *f.Urgent
	}
	if f.Search != "" {
		rx := contains(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"profession_name": rx},
		}
	}
	return findMany[models.Job](ctx, r.col, filter, newestFirst())
}

func (r *jobRepo) ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Job, error) {
	return findMany[models.Job](ctx, r.col, bson.M{"applications.applicant": applicantID}, newestFirst())
}

func (r *jobRepo) UpdateDetails(ctx context.Context, j *models.Job) error {
	set := bson.M{
		"title":           j.Title,
		"description":     j.Description,
		"profession":      j.ProfessionID,
		"profession_name": j.ProfessionName,
		"job_type":        j.JobType,
		"requirements":    j.Requirements,
		"salary":          j.Salary,
		"status":          j.Status,
		"posted_at":       j.PostedAt,
		"image":           j.Image,
		"is_urgent":       j.IsUrgent,
		"updated_at":      j.UpdatedAt,
	}
	unset := bson.M{}
	optional := func(key string, v any, isNil bool) {
		if isNil {
			unset[key] = ""
		} else {
			set[key] = v
		}
	}
	optional("deadline", j.Deadline, j.Deadline == nil)
	optional("continent", j.ContinentID, j.ContinentID == nil)
	optional("country", j.CountryID, j.CountryID == nil)
	optional("province", j.ProvinceID, j.ProvinceID == nil)
	optional("city", j.CityID, j.CityID == nil)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return updateByID(ctx, r.col, j.ID, update)
}

func (r *jobRepo) AddApplication(ctx context.Context, jobID primitive.ObjectID, a models.Application) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": jobID, "applications.applicant": bson.M{"$ne": a.ApplicantID}},
		bson.M{
			"$push": bson.M{"applications": a},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": jobID})
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	return utils.ErrDuplicate
}

func (r *jobRepo) IncApplications(ctx context.Context, jobID primitive.ObjectID, delta int64) error {
	return updateByID(ctx, r.col, jobID, bson.M{"$inc": bson.M{"applications_count": delta}})
}

func (r *jobRepo) IncViews(ctx context.Context, jobID primitive.ObjectID) error {
	return updateByID(ctx, r.col, jobID, bson.M{"$inc": bson.M{"views": 1}})
}

func (r *jobRepo) UpdateApplication(ctx context.Context, jobID, applicantID primitive.ObjectID, status models.ApplicationStatus, notes *string) error {
	set := bson.M{
		"applications.$.status": status,
		"updated_at":            time.Now().UTC(),
	}
	if notes != nil {
		set["applications.$.notes"] = *notes
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": jobID, "applications.applicant": applicantID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) SetImage(ctx context.Context, jobID primitive.ObjectID, path string, at time.Time) error {
	return updateByID(ctx, r.col, jobID, bson.M{"$set": bson.M{
		"image":      path,
		"updated_at": at.UTC(),
	}})
}

func (r *jobRepo) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"status": models.JobStatusActive, "deadline": bson.M{"$lt": now.UTC()}},
		bson.M{"$set": bson.M{"status": models.JobStatusClosed, "updated_at": now.UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
