package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewSet returns an empty in-memory repository set.
func NewSet() repositories.Set {
	return repositories.Set{
		Users:         NewUserRepo(),
		Continents:    newGeoRepo[models.Continent](),
		Countries:     newGeoRepo[models.Country](),
		Provinces:     newGeoRepo[models.Province](),
		Cities:        newGeoRepo[models.City](),
		Professions:   NewProfessionRepo(),
		Companies:     NewCompanyRepo(),
		Jobs:          NewJobRepo(),
		Professionals: NewProfessionalRepo(),
		Trainees:      NewTraineeRepo(),
	}
}

// users

type userRepo struct{ t *table[models.User] }

func NewUserRepo() repositories.UserRepository {
	t := newTable(func(u *models.User) primitive.ObjectID { return u.ID },
		func(a, b *models.User) bool { return newer(a.CreatedAt, b.CreatedAt) })
	t.unique = func(u *models.User) []string { return []string{"email:" + strings.ToLower(u.Email)} }
	return &userRepo{t: t}
}

func (r *userRepo) Create(_ context.Context, u *models.User) error { return r.t.insert(u) }
func (r *userRepo) Update(_ context.Context, u *models.User) error { return r.t.replace(u) }

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.t.get(id)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.t.first(func(u *models.User) bool { return u.Email == email })
}

func (r *userRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return r.t.byIDs(ids), nil
}

func (r *userRepo) List(_ context.Context, f repositories.UserFilter) ([]models.User, error) {
	return r.t.filter(func(u *models.User) bool { return f.Role == nil || u.Role == *f.Role }), nil
}

func (r *userRepo) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	return r.t.mutate(id, func(u *models.User) error {
		u.Role = role
		u.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// geography

type geoRepo[T any, PT interface {
	*T
	models.GeoNode
}] struct {
	t *table[T]
}

func newGeoRepo[T any, PT interface {
	*T
	models.GeoNode
}]() *geoRepo[T, PT] {
	t := newTable(func(v *T) primitive.ObjectID { return PT(v).Summary().ID },
		func(a, b *T) bool { return PT(a).Summary().Name < PT(b).Summary().Name })
	return &geoRepo[T, PT]{t: t}
}

func (r *geoRepo[T, PT]) Create(_ context.Context, doc *T) error { return r.t.insert(doc) }
func (r *geoRepo[T, PT]) Update(_ context.Context, doc *T) error { return r.t.replace(doc) }

func (r *geoRepo[T, PT]) GetByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	return r.t.get(id)
}

func (r *geoRepo[T, PT]) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]T, error) {
	return r.t.byIDs(ids), nil
}

func (r *geoRepo[T, PT]) List(_ context.Context, f repositories.GeoFilter) ([]T, error) {
	return r.t.filter(func(v *T) bool {
		n := PT(v)
		if f.ParentID != nil && !n.ParentID().IsZero() && n.ParentID() != *f.ParentID {
			return false
		}
		if f.Active != nil && geoActive(v) != *f.Active {
			return false
		}
		return f.Name == "" || n.Summary().Name == f.Name
	}), nil
}

func geoActive(v any) bool {
	switch n := v.(type) {
	case *models.Continent:
		return n.IsActive
	case *models.Country:
		return n.IsActive
	case *models.Province:
		return n.IsActive
	case *models.City:
		return n.IsActive
	}
	return true
}

// professions

type professionRepo struct{ t *table[models.Profession] }

func NewProfessionRepo() repositories.ProfessionRepository {
	t := newTable(func(p *models.Profession) primitive.ObjectID { return p.ID },
		func(a, b *models.Profession) bool { return a.Name < b.Name })
	t.unique = func(p *models.Profession) []string { return []string{"name:" + p.Name} }
	return &professionRepo{t: t}
}

func (r *professionRepo) Create(_ context.Context, p *models.Profession) error { return r.t.insert(p) }
func (r *professionRepo) Update(_ context.Context, p *models.Profession) error { return r.t.replace(p) }
func (r *professionRepo) Delete(_ context.Context, id primitive.ObjectID) error { return r.t.remove(id) }

func (r *professionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Profession, error) {
	return r.t.get(id)
}

func (r *professionRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Profession, error) {
	return r.t.byIDs(ids), nil
}

func (r *professionRepo) List(_ context.Context, f repositories.ProfessionFilter) ([]models.Profession, error) {
	return r.t.filter(func(p *models.Profession) bool {
		return (f.Category == "" || p.Category == f.Category) &&
			(f.Active == nil || p.IsActive == *f.Active) &&
			(f.Name == "" || p.Name == f.Name)
	}), nil
}

// companies

type companyRepo struct{ t *table[models.Company] }

func NewCompanyRepo() repositories.CompanyRepository {
	t := newTable(func(c *models.Company) primitive.ObjectID { return c.ID },
		func(a, b *models.Company) bool { return a.Name < b.Name })
	t.unique = func(c *models.Company) []string { return []string{"user:" + c.UserID.Hex()} }
	return &companyRepo{t: t}
}

func (r *companyRepo) Create(_ context.Context, c *models.Company) error { return r.t.insert(c) }
func (r *companyRepo) Update(_ context.Context, c *models.Company) error { return r.t.replace(c) }

func (r *companyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Company, error) {
	return r.t.get(id)
}

func (r *companyRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	return r.t.byIDs(ids), nil
}

func (r *companyRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Company, error) {
	return r.t.first(func(c *models.Company) bool { return c.UserID == userID })
}

func (r *companyRepo) List(_ context.Context, f repositories.CompanyFilter) ([]models.Company, error) {
	return r.t.filter(func(c *models.Company) bool {
		return eqID(f.ContinentID, c.ContinentID) && eqID(f.CountryID, c.CountryID) &&
			eqID(f.ProvinceID, c.ProvinceID) && eqID(f.CityID, c.CityID) &&
			(f.Industry == "" || c.Industry == f.Industry) &&
			(f.Verified == nil || c.IsVerified == *f.Verified)
	}), nil
}

// jobs

type jobRepo struct{ t *table[models.Job] }

func NewJobRepo() repositories.JobRepository {
	t := newTable(func(j *models.Job) primitive.ObjectID { return j.ID },
		func(a, b *models.Job) bool { return newer(a.CreatedAt, b.CreatedAt) })
	t.clone = func(j models.Job) models.Job {
		j.Applications = slices.Clone(j.Applications)
		return j
	}
	return &jobRepo{t: t}
}

func (r *jobRepo) Create(_ context.Context, j *models.Job) error {
	if j.Applications == nil {
		j.Applications = []models.Application{}
	}
	return r.t.insert(j)
}

func (r *jobRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Job, error) {
	return r.t.get(id)
}

func (r *jobRepo) List(_ context.Context, f repositories.JobFilter) ([]models.Job, error) {
	return r.t.filter(func(j *models.Job) bool {
		if f.CompanyID != nil && j.CompanyID != *f.CompanyID {
			return false
		}
		if f.ProfessionID != nil && j.ProfessionID != *f.ProfessionID {
			return false
		}
		if !eqID(f.CountryID, j.CountryID) || !eqID(f.ProvinceID, j.ProvinceID) || !eqID(f.CityID, j.CityID) {
			return false
		}
		if f.Status != nil && j.Status != *f.Status {
			return false
		}
		if f.JobType != nil && j.JobType != *f.JobType {
			return false
		}
		if f.Urgent != nil && j.IsUrgent != *f.Urgent {
			return false
		}
		if f.Search != "" {
			return containsFold(j.Title, f.Search) || containsFold(j.Description, f.Search) ||
				containsFold(j.ProfessionName, f.Search)
		}
		return true
	}), nil
}

func (r *jobRepo) ListByApplicant(_ context.Context, applicantID primitive.ObjectID) ([]models.Job, error) {
	return r.t.filter(func(j *models.Job) bool { return j.ApplicationBy(applicantID) != nil }), nil
}

func (r *jobRepo) UpdateDetails(_ context.Context, j *models.Job) error {
	return r.t.mutate(j.ID, func(row *models.Job) error {
		apps, views, count, created := row.Applications, row.Views, row.ApplicationsCount, row.CreatedAt
		*row = *j
		row.Applications, row.Views, row.ApplicationsCount, row.CreatedAt = apps, views, count, created
		return nil
	})
}

func (r *jobRepo) AddApplication(_ context.Context, jobID primitive.ObjectID, a models.Application) error {
	return r.t.mutate(jobID, func(row *models.Job) error {
		if row.ApplicationBy(a.ApplicantID) != nil {
			return utils.ErrDuplicate
		}
		row.Applications = append(row.Applications, a)
		row.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *jobRepo) IncApplications(_ context.Context, jobID primitive.ObjectID, delta int64) error {
	return r.t.mutate(jobID, func(row *models.Job) error {
		row.ApplicationsCount += delta
		return nil
	})
}

func (r *jobRepo) IncViews(_ context.Context, jobID primitive.ObjectID) error {
	return r.t.mutate(jobID, func(row *models.Job) error {
		row.Views++
		return nil
	})
}

func (r *jobRepo) UpdateApplication(_ context.Context, jobID, applicantID primitive.ObjectID, status models.ApplicationStatus, notes *string) error {
	return r.t.mutate(jobID, func(row *models.Job) error {
		a := row.ApplicationBy(applicantID)
		if a == nil {
			return utils.ErrNotFound
		}
		a.Status = status
		if notes != nil {
			a.Notes = *notes
		}
		row.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *jobRepo) SetImage(_ context.Context, jobID primitive.ObjectID, path string, at time.Time) error {
	return r.t.mutate(jobID, func(row *models.Job) error {
		row.Image = path
		row.UpdatedAt = at.UTC()
		return nil
	})
}

func (r *jobRepo) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	var n int64
	for id, row := range r.t.rows {
		if row.Status != models.JobStatusActive || row.Deadline == nil || !row.Deadline.Before(now) {
			continue
		}
		row.Status = models.JobStatusClosed
		row.UpdatedAt = now.UTC()
		r.t.rows[id] = row
		n++
	}
	return n, nil
}

// profiles

func matchProfile(f repositories.ProfileFilter, profession, country, city *primitive.ObjectID, search ...string) bool {
	if !eqID(f.ProfessionID, profession) || !eqID(f.CountryID, country) || !eqID(f.CityID, city) {
		return false
	}
	if f.Search == "" {
		return true
	}
	for _, s := range search {
		if containsFold(s, f.Search) {
			return true
		}
	}
	return false
}

type professionalRepo struct{ t *table[models.Professional] }

func NewProfessionalRepo() repositories.ProfessionalRepository {
	t := newTable(func(p *models.Professional) primitive.ObjectID { return p.ID },
		func(a, b *models.Professional) bool { return newer(a.CreatedAt, b.CreatedAt) })
	t.clone = func(p models.Professional) models.Professional {
		p.Skills = slices.Clone(p.Skills)
		p.Education = slices.Clone(p.Education)
		return p
	}
	t.unique = func(p *models.Professional) []string {
		if p.UserID == nil {
			return nil
		}
		return []string{"user:" + p.UserID.Hex()}
	}
	return &professionalRepo{t: t}
}

func (r *professionalRepo) Create(_ context.Context, p *models.Professional) error {
	return r.t.insert(p)
}

func (r *professionalRepo) Update(_ context.Context, p *models.Professional) error {
	return r.t.replace(p)
}

func (r *professionalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Professional, error) {
	return r.t.get(id)
}

func (r *professionalRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Professional, error) {
	return r.t.byIDs(ids), nil
}

func (r *professionalRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Professional, error) {
	return r.t.first(func(p *models.Professional) bool { return p.OwnedBy(userID) })
}

func (r *professionalRepo) List(_ context.Context, f repositories.ProfileFilter) ([]models.Professional, error) {
	return r.t.filter(func(p *models.Professional) bool {
		return matchProfile(f, p.ProfessionID, p.CountryID, p.CityID,
			append([]string{p.FirstName, p.LastName}, p.Skills...)...)
	}), nil
}

func (r *professionalRepo) SetCV(_ context.Context, id primitive.ObjectID, path, originalName string, at time.Time) error {
	return r.t.mutate(id, func(p *models.Professional) error {
		p.CV, p.CVOriginalName, p.UpdatedAt = path, originalName, at.UTC()
		return nil
	})
}

func (r *professionalRepo) Claim(_ context.Context, id, userID primitive.ObjectID, at time.Time) error {
	if existing, err := r.GetByUser(context.Background(), userID); err == nil && existing.ID != id {
		return utils.ErrDuplicate
	}
	return r.t.mutate(id, func(p *models.Professional) error {
		if p.UserID != nil {
			return utils.ErrDuplicate
		}
		p.UserID, p.UpdatedAt = &userID, at.UTC()
		return nil
	})
}

func (r *professionalRepo) IncApplications(_ context.Context, id primitive.ObjectID) error {
	return r.t.mutate(id, func(p *models.Professional) error {
		p.Stats.Applications++
		return nil
	})
}

type traineeRepo struct{ t *table[models.Trainee] }

func NewTraineeRepo() repositories.TraineeRepository {
	t := newTable(func(v *models.Trainee) primitive.ObjectID { return v.ID },
		func(a, b *models.Trainee) bool { return newer(a.CreatedAt, b.CreatedAt) })
	t.clone = func(v models.Trainee) models.Trainee {
		v.Skills = slices.Clone(v.Skills)
		return v
	}
	t.unique = func(v *models.Trainee) []string { return []string{"user:" + v.UserID.Hex()} }
	return &traineeRepo{t: t}
}

func (r *traineeRepo) Create(_ context.Context, v *models.Trainee) error { return r.t.insert(v) }
func (r *traineeRepo) Update(_ context.Context, v *models.Trainee) error { return r.t.replace(v) }

func (r *traineeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Trainee, error) {
	return r.t.get(id)
}

func (r *traineeRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Trainee, error) {
	return r.t.byIDs(ids), nil
}

func (r *traineeRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Trainee, error) {
	return r.t.first(func(v *models.Trainee) bool { return v.UserID == userID })
}

func (r *traineeRepo) List(_ context.Context, f repositories.ProfileFilter) ([]models.Trainee, error) {
	return r.t.filter(func(v *models.Trainee) bool {
		return matchProfile(f, v.ProfessionID, v.CountryID, v.CityID,
			append([]string{v.FirstName, v.LastName}, v.Skills...)...)
	}), nil
}

func (r *traineeRepo) IncApplications(_ context.Context, id primitive.ObjectID) error {
	return r.t.mutate(id, func(v *models.Trainee) error {
		v.Stats.Applications++
		return nil
	})
}
