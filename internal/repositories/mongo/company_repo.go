package mongo

import (
	"context"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type companyRepo struct {
	col *mongo.Collection
}

func NewCompanyRepo(db *mongo.Database) repositories.CompanyRepository {
	return &companyRepo{col: db.Collection(ColCompanies)}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	return insertOne(ctx, r.col, c)
}

func (r *companyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	return findOne[models.Company](ctx, r.col, bson.M{"_id": id})
}

func (r *companyRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	return findByIDs[models.Company](ctx, r.col, ids)
}

func (r *companyRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Company, error) {
	return findOne[models.Company](ctx, r.col, bson.M{"user": userID})
}

func (r *companyRepo) List(ctx context.Context, f repositories.CompanyFilter) ([]models.Company, error) {
	filter := bson.M{}
	setIfID(filter, "continent", f.ContinentID)
	setIfID(filter, "country", f.CountryID)
	setIfID(filter, "province", f.ProvinceID)
	setIfID(filter, "city", f.CityID)
	if f.Industry != "" {
		filter["industry"] = f.Industry
	}
	if f.Verified != nil {
		filter["is_verified"] = *f.Verified
	}
	return findMany[models.Company](ctx, r.col, filter, byName())
}

func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	return replaceByID(ctx, r.col, c.ID, c)
}
