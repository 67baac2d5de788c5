package mongo

import (
	"context"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type professionRepo struct {
	col *mongo.Collection
}

func NewProfessionRepo(db *mongo.Database) repositories.ProfessionRepository {
	return &professionRepo{col: db.Collection(ColProfessions)}
}

func (r *professionRepo) Create(ctx context.Context, p *models.Profession) error {
	return insertOne(ctx, r.col, p)
}

func (r *professionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profession, error) {
	return findOne[models.Profession](ctx, r.col, bson.M{"_id": id})
}

func (r *professionRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Profession, error) {
	return findByIDs[models.Profession](ctx, r.col, ids)
}

func (r *professionRepo) List(ctx context.Context, f repositories.ProfessionFilter) ([]models.Profession, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Active != nil {
		filter["is_active"] = *f.Active
	}
	if f.Name != "" {
		filter["name"] = f.Name
	}
	return findMany[models.Profession](ctx, r.col, filter, byName())
}

func (r *professionRepo) Update(ctx context.Context, p *models.Profession) error {
	return replaceByID(ctx, r.col, p.ID, p)
}

func (r *professionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
