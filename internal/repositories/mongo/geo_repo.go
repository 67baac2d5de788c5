package mongo

import (
	"context"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// geoRepo serves one level of the geographic hierarchy. parentField is the
// bson key of the back-reference ("" for continents).
type geoRepo[T any, PT interface {
	*T
	models.GeoNode
}] struct {
	col         *mongo.Collection
	parentField string
}

func NewContinentRepo(db *mongo.Database) repositories.GeoRepository[models.Continent] {
	return &geoRepo[models.Continent, *models.Continent]{col: db.Collection(ColContinents)}
}

func NewCountryRepo(db *mongo.Database) repositories.GeoRepository[models.Country] {
	return &geoRepo[models.Country, *models.Country]{col: db.Collection(ColCountries), parentField: "continent"}
}

func NewProvinceRepo(db *mongo.Database) repositories.GeoRepository[models.Province] {
	return &geoRepo[models.Province, *models.Province]{col: db.Collection(ColProvinces), parentField: "country"}
}

func NewCityRepo(db *mongo.Database) repositories.GeoRepository[models.City] {
	return &geoRepo[models.City, *models.City]{col: db.Collection(ColCities), parentField: "province"}
}

func (r *geoRepo[T, PT]) Create(ctx context.Context, doc *T) error {
	return insertOne(ctx, r.col, doc)
}

func (r *geoRepo[T, PT]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return findOne[T](ctx, r.col, bson.M{"_id": id})
}

func (r *geoRepo[T, PT]) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	return findByIDs[T](ctx, r.col, ids)
}

func (r *geoRepo[T, PT]) List(ctx context.Context, f repositories.GeoFilter) ([]T, error) {
	filter := bson.M{}
	if r.parentField != "" {
		setIfID(filter, r.parentField, f.ParentID)
	}
	if f.Active != nil {
		filter["is_active"] = *f.Active
	}
	if f.Name != "" {
		filter["name"] = f.Name
	}
	return findMany[T](ctx, r.col, filter, byName())
}

func (r *geoRepo[T, PT]) Update(ctx context.Context, doc *T) error {
	return replaceByID(ctx, r.col, PT(doc).Summary().ID, doc)
}
