package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	repo "github.com/yoockh/jobboard/internal/repositories/mongo"
)

func jobBoardIndexes() map[string][]mongo.IndexModel {
	// profiles imported by an admin have no owner yet
	ownedOnly := bson.M{"user": bson.M{"$exists": true}}

	return map[string][]mongo.IndexModel{
		repo.ColUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_email").SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("by_role_created")},
		},
		repo.ColContinents: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("by_name")},
		},
		repo.ColCountries: {
			{Keys: bson.D{{Key: "continent", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("by_continent_name")},
		},
		repo.ColProvinces: {
			{Keys: bson.D{{Key: "country", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("by_country_name")},
		},
		repo.ColCities: {
			{Keys: bson.D{{Key: "province", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("by_province_name")},
		},
		repo.ColProfessions: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("uniq_name").SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("by_category")},
		},
		repo.ColCompanies: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("uniq_user").SetUnique(true)},
			{Keys: bson.D{{Key: "country", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("by_country_created")},
		},
		repo.ColJobs: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("by_status_created")},
			{Keys: bson.D{{Key: "company", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("by_company_created")},
			{Keys: bson.D{{Key: "profession", Value: 1}}, Options: options.Index().SetName("by_profession")},
			{Keys: bson.D{{Key: "applications.applicant", Value: 1}}, Options: options.Index().SetName("by_applicant")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deadline", Value: 1}}, Options: options.Index().SetName("by_status_deadline")},
		},
		repo.ColProfessionals: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().
				SetName("uniq_user").
				SetUnique(true).
				SetPartialFilterExpression(ownedOnly)},
			{Keys: bson.D{{Key: "profession", Value: 1}}, Options: options.Index().SetName("by_profession")},
		},
		repo.ColTrainees: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("uniq_user").SetUnique(true)},
		},
	}
}

// EnsureMongoIndexes creates every index the repositories rely on. It is
// safe to run on each start.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for col, models := range jobBoardIndexes() {
		g.Go(func() error {
			_, err := db.Collection(col).Indexes().CreateMany(ctx, models)
			return err
		})
	}
	return g.Wait()
}
