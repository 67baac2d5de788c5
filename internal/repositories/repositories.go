// Package repositories declares the persistence contracts used by the
// services. The mongo subpackage is the production implementation; memory
// keeps everything in process for tests and local demos.
//
// Implementations return utils.ErrNotFound for missing documents and
// utils.ErrDuplicate for uniqueness violations.
package repositories

import (
	"context"
	"time"

	"github.com/yoockh/jobboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserFilter struct {
	Role *models.Role
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
}

// GeoFilter selects reference documents. ParentID is ignored for continents.
type GeoFilter struct {
	ParentID *primitive.ObjectID
	Active   *bool
	Name     string
}

type GeoRepository[T any] interface {
	Create(ctx context.Context, doc *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error)
	List(ctx context.Context, f GeoFilter) ([]T, error)
	Update(ctx context.Context, doc *T) error
}

type ProfessionFilter struct {
	Category string
	Active   *bool
	Name     string
}

type ProfessionRepository interface {
	Create(ctx context.Context, p *models.Profession) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profession, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Profession, error)
	List(ctx context.Context, f ProfessionFilter) ([]models.Profession, error)
	Update(ctx context.Context, p *models.Profession) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CompanyFilter struct {
	ContinentID *primitive.ObjectID
	CountryID   *primitive.ObjectID
	ProvinceID  *primitive.ObjectID
	CityID      *primitive.ObjectID
	Industry    string
	Verified    *bool
}

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Company, error)
	List(ctx context.Context, f CompanyFilter) ([]models.Company, error)
	Update(ctx context.Context, c *models.Company) error
}

type JobFilter struct {
	CompanyID    *primitive.ObjectID
	ProfessionID *primitive.ObjectID
	CountryID    *primitive.ObjectID
	ProvinceID   *primitive.ObjectID
	CityID       *primitive.ObjectID
	Status       *models.JobStatus
	JobType      *models.JobType
	Urgent       *bool
	Search       string
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	List(ctx context.Context, f JobFilter) ([]models.Job, error)
	ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Job, error)
	// UpdateDetails rewrites the editable fields only; applications and
	// counters are left to their dedicated operations.
	UpdateDetails(ctx context.Context, j *models.Job) error
	// AddApplication appends a; it reports utils.ErrDuplicate when the
	// applicant already applied.
	AddApplication(ctx context.Context, jobID primitive.ObjectID, a models.Application) error
	IncApplications(ctx context.Context, jobID primitive.ObjectID, delta int64) error
	IncViews(ctx context.Context, jobID primitive.ObjectID) error
	UpdateApplication(ctx context.Context, jobID, applicantID primitive.ObjectID, status models.ApplicationStatus, notes *string) error
	SetImage(ctx context.Context, jobID primitive.ObjectID, path string, at time.Time) error
	// CloseExpired closes active jobs whose deadline is before now and
	// reports how many changed.
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type ProfileFilter struct {
	ProfessionID *primitive.ObjectID
	CountryID    *primitive.ObjectID
	CityID       *primitive.ObjectID
	Search       string
}

type ProfessionalRepository interface {
	Create(ctx context.Context, p *models.Professional) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Professional, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Professional, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Professional, error)
	List(ctx context.Context, f ProfileFilter) ([]models.Professional, error)
	Update(ctx context.Context, p *models.Professional) error
	SetCV(ctx context.Context, id primitive.ObjectID, path, originalName string, at time.Time) error
	// Claim binds an unowned profile to userID; utils.ErrDuplicate when the
	// profile already has an owner.
	Claim(ctx context.Context, id, userID primitive.ObjectID, at time.Time) error
	IncApplications(ctx context.Context, id primitive.ObjectID) error
}

type TraineeRepository interface {
	Create(ctx context.Context, t *models.Trainee) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trainee, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Trainee, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Trainee, error)
	List(ctx context.Context, f ProfileFilter) ([]models.Trainee, error)
	Update(ctx context.Context, t *models.Trainee) error
	IncApplications(ctx context.Context, id primitive.ObjectID) error
}

// Set bundles every repository the services need.
type Set struct {
	Users         UserRepository
	Continents    GeoRepository[models.Continent]
	Countries     GeoRepository[models.Country]
	Provinces     GeoRepository[models.Province]
	Cities        GeoRepository[models.City]
	Professions   ProfessionRepository
	Companies     CompanyRepository
	Jobs          JobRepository
	Professionals ProfessionalRepository
	Trainees      TraineeRepository
}
