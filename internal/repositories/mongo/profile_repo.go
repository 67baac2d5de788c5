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

func profileFilter(f repositories.ProfileFilter) bson.M {
	filter := bson.M{}
	setIfID(filter, "profession", f.ProfessionID)
	setIfID(filter, "country", f.CountryID)
	setIfID(filter, "city", f.CityID)
	if f.Search != "" {
		rx := contains(f.Search)
		filter["$or"] = bson.A{
			bson.M{"first_name": rx},
			bson.M{"last_name": rx},
			bson.M{"skills": rx},
		}
	}
	return filter
}

type professionalRepo struct {
	col *mongo.Collection
}

func NewProfessionalRepo(db *mongo.Database) repositories.ProfessionalRepository {
	return &professionalRepo{col: db.Collection(ColProfessionals)}
}

func (r *professionalRepo) Create(ctx context.Context, p *models.Professional) error {
	return insertOne(ctx, r.col, p)
}

func (r *professionalRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Professional, error) {
	return findOne[models.Professional](ctx, r.col, bson.M{"_id": id})
}

func (r *professionalRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Professional, error) {
	return findByIDs[models.Professional](ctx, r.col, ids)
}

func (r *professionalRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Professional, error) {
	return findOne[models.Professional](ctx, r.col, bson.M{"user": userID})
}

func (r *professionalRepo) List(ctx context.Context, f repositories.ProfileFilter) ([]models.Professional, error) {
	return findMany[models.Professional](ctx, r.col, profileFilter(f), newestFirst())
}

func (r *professionalRepo) Update(ctx context.Context, p *models.Professional) error {
	return replaceByID(ctx, r.col, p.ID, p)
}

func (r *professionalRepo) SetCV(ctx context.Context, id primitive.ObjectID, path, originalName string, at time.Time) error {
	return updateByID(ctx, r.col, id, bson.M{"$set": bson.M{
		"cv":               path,
		"cv_original_name": originalName,
		"updated_at":       at.UTC(),
	}})
}

func (r *professionalRepo) Claim(ctx context.Context, id, userID primitive.ObjectID, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "user": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"user": userID, "updated_at": at.UTC()}},
	)
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	return utils.ErrDuplicate
}

func (r *professionalRepo) IncApplications(ctx context.Context, id primitive.ObjectID) error {
	return updateByID(ctx, r.col, id, bson.M{"$inc": bson.M{"stats.applications": 1}})
}

type traineeRepo struct {
	col *mongo.Collection
}

func NewTraineeRepo(db *mongo.Database) repositories.TraineeRepository {
	return &traineeRepo{col: db.Collection(ColTrainees)}
}

func (r *traineeRepo) Create(ctx context.Context, t *models.Trainee) error {
	return insertOne(ctx, r.col, t)
}

func (r *traineeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trainee, error) {
	return findOne[models.Trainee](ctx, r.col, bson.M{"_id": id})
}

func (r *traineeRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Trainee, error) {
	return findByIDs[models.Trainee](ctx, r.col, ids)
}

func (r *traineeRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Trainee, error) {
	return findOne[models.Trainee](ctx, r.col, bson.M{"user": userID})
}

func (r *traineeRepo) List(ctx context.Context, f repositories.ProfileFilter) ([]models.Trainee, error) {
	return findMany[models.Trainee](ctx, r.col, profileFilter(f), newestFirst())
}

func (r *traineeRepo) Update(ctx context.Context, t *models.Trainee) error {
	return replaceByID(ctx, r.col, t.ID, t)
}

func (r *traineeRepo) IncApplications(ctx context.Context, id primitive.ObjectID) error {
	return updateByID(ctx, r.col, id, bson.M{"$inc": bson.M{"stats.applications": 1}})
}
