package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
)

type CompanyQuery struct {
	Continent string
	Country   string
	Province  string
	City      string
	Industry  string
	Verified  *bool
}

type CompanyInput struct {
	models.LocationInput

	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Industry    *string             `json:"industry"`
	Size        *models.CompanySize `json:"size"`
	FoundedYear *int                `json:"founded_year"`
	Address     *string             `json:"address"`
	Website     *string             `json:"website"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	Logo        *string             `json:"logo"`
	Social      *models.SocialLinks `json:"social"`

	// admin only
	IsVerified *bool `json:"is_verified"`
}

type CompanyService interface {
	List(ctx context.Context, q CompanyQuery) ([]models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	Mine(ctx context.Context, caller auth.Identity) (*models.Company, error)
	// Create registers the caller's company and promotes a plain user to
	// the company role. A user owns at most one company.
	Create(ctx context.Context, caller auth.Identity, in CompanyInput) (*models.Company, error)
	Update(ctx context.Context, caller auth.Identity, id string, in CompanyInput) (*models.Company, error)
}

type companyService struct {
	repos repositories.Set
	refs  *resolver
}

func NewCompanyService(repos repositories.Set) CompanyService {
	return &companyService{repos: repos, refs: &resolver{repos: repos}}
}

func (s *companyService) List(ctx context.Context, q CompanyQuery) ([]models.Company, error) {
	const op = "CompanyService.List"

	f := repositories.CompanyFilter{Industry: strings.TrimSpace(q.Industry), Verified: q.Verified}
	var err error
	if f.ContinentID, err = optionalID(op, "continent", q.Continent); err != nil {
		return nil, err
	}
	if f.CountryID, err = optionalID(op, "country", q.Country); err != nil {
		return nil, err
	}
	if f.ProvinceID, err = optionalID(op, "province", q.Province); err != nil {
		return nil, err
	}
	if f.CityID, err = optionalID(op, "city", q.City); err != nil {
		return nil, err
	}

	out, err := s.repos.Companies.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, "companies", err)
	}
	if err := s.expand(ctx, out, false); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return out, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*models.Company, error) {
	const op = "CompanyService.Get"

	oid, err := pathID(op, "company", id)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Companies.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "company", err)
	}
	return s.expandOne(ctx, op, c)
}

func (s *companyService) Mine(ctx context.Context, caller auth.Identity) (*models.Company, error) {
	const op = "CompanyService.Mine"

	c, err := s.repos.Companies.GetByUser(ctx, caller.UserID)
	if err != nil {
		return nil, repoErr(op, "company", err)
	}
	return s.expandOne(ctx, op, c)
}

func (s *companyService) Create(ctx context.Context, caller auth.Identity, in CompanyInput) (*models.Company, error) {
	const op = "CompanyService.Create"

	if in.IsVerified != nil && !caller.IsAdmin() {
		in.IsVerified = nil
	}
	c := &models.Company{UserID: caller.UserID}
	if err := s.merge(op, c, in); err != nil {
		return nil, err
	}
	c.Touch(now())
	if err := models.Validate(c); err != nil {
		return nil, invalid(op, err)
	}

	if err := s.repos.Companies.Create(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "user already has a company", err)
		}
		return nil, repoErr(op, "company", err)
	}
	if caller.Role == models.RoleUser {
		if err := s.repos.Users.SetRole(ctx, caller.UserID, models.RoleCompany); err != nil {
			return nil, repoErr(op, "user", err)
		}
	}
	return s.expandOne(ctx, op, c)
}

func (s *companyService) Update(ctx context.Context, caller auth.Identity, id string, in CompanyInput) (*models.Company, error) {
	const op = "CompanyService.Update"

	oid, err := pathID(op, "company", id)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Companies.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "company", err)
	}
	if !caller.CanManage(c.UserID) {
		return nil, forbidden(op)
	}
	if in.IsVerified != nil && !caller.IsAdmin() {
		return nil, utils.E(utils.CodeForbidden, op, "only admins can verify companies", nil)
	}
	if err := s.merge(op, c, in); err != nil {
		return nil, err
	}
	c.Touch(now())
	if err := models.Validate(c); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repos.Companies.Update(ctx, c); err != nil {
		return nil, repoErr(op, "company", err)
	}
	return s.expandOne(ctx, op, c)
}

func (s *companyService) merge(op string, c *models.Company, in CompanyInput) error {
	if err := in.LocationInput.Apply(&c.LocationRefs); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "location ids must be valid ids", err)
	}
	setString(&c.Name, in.Name)
	setString(&c.Description, in.Description)
	setString(&c.Industry, in.Industry)
	setValue(&c.Size, in.Size)
	setValue(&c.FoundedYear, in.FoundedYear)
	setString(&c.Address, in.Address)
	setString(&c.Website, in.Website)
	if in.Email != nil {
		c.Email = normalizeEmail(*in.Email)
	}
	setString(&c.Phone, in.Phone)
	setString(&c.Logo, in.Logo)
	setValue(&c.Social, in.Social)
	setValue(&c.IsVerified, in.IsVerified)
	return nil
}

func (s *companyService) expandOne(ctx context.Context, op string, c *models.Company) (*models.Company, error) {
	one := []models.Company{*c}
	if err := s.expand(ctx, one, true); err != nil {
		return nil, repoErr(op, "references", err)
	}
	return &one[0], nil
}

// expand fills location refs, plus the owner when withUser is set.
func (s *companyService) expand(ctx context.Context, cs []models.Company, withUser bool) error {
	q := refQuery{}
	for i := range cs {
		q.addLocation(&cs[i].LocationRefs)
		if withUser {
			q.add(kindUser, &cs[i].UserID)
		}
	}
	t, err := s.refs.resolve(ctx, q)
	if err != nil {
		return err
	}
	for i := range cs {
		t.fillLocation(&cs[i].LocationRefs)
		if withUser {
			cs[i].User = t.ref(kindUser, &cs[i].UserID)
		}
	}
	return nil
}
