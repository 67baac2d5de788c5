package mongo

import (
	"context"
	"strings"
	"time"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) repositories.UserRepository {
	return &userRepo{col: db.Collection(ColUsers)}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return insertOne(ctx, r.col, u)
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return findByIDs[models.User](ctx, r.col, ids)
}

func (r *userRepo) List(ctx context.Context, f repositories.UserFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.Role != nil {
		filter["role"] = *f.Role
	}
	return findMany[models.User](ctx, r.col, filter, newestFirst())
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	return replaceByID(ctx, r.col, u.ID, u)
}

func (r *userRepo) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return updateByID(ctx, r.col, id, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
}
