package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
)

const professionCachePrefix = "professions:"

type ProfessionQuery struct {
	Category string
	Active   *bool
}

type ProfessionInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProfessionService interface {
	List(ctx context.Context, q ProfessionQuery) ([]models.Profession, error)
	Get(ctx context.Context, id string) (*models.Profession, error)
	Create(ctx context.Context, in ProfessionInput) (*models.Profession, error)
	Update(ctx context.Context, id string, in ProfessionInput) (*models.Profession, error)
	// Delete removes the profession only. Jobs keep their denormalised
	// profession_name and a dangling reference.
	Delete(ctx context.Context, id string) error
}

type professionService struct {
	repo  repositories.ProfessionRepository
	cache cache.Cache
}

func NewProfessionService(repo repositories.ProfessionRepository, c cache.Cache) ProfessionService {
	if c == nil {
		c = cache.Noop{}
	}
	return &professionService{repo: repo, cache: c}
}

func (s *professionService) List(ctx context.Context, q ProfessionQuery) ([]models.Profession, error) {
	const op = "ProfessionService.List"

	q.Category = strings.TrimSpace(q.Category)
	key := fmt.Sprintf("%s%s:%s", professionCachePrefix, q.Category, boolKey(q.Active))
	var out []models.Profession
	if hit, _ := s.cache.GetJSON(ctx, key, &out); hit {
		return out, nil
	}

	out, err := s.repo.List(ctx, repositories.ProfessionFilter{Category: q.Category, Active: q.Active})
	if err != nil {
		return nil, repoErr(op, "professions", err)
	}
	_ = s.cache.SetJSON(ctx, key, out, cache.ReferenceTTL)
	return out, nil
}

func (s *professionService) Get(ctx context.Context, id string) (*models.Profession, error) {
	const op = "ProfessionService.Get"

	oid, err := pathID(op, "profession", id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, "profession", err)
	}
	return p, nil
}

func (s *professionService) Create(ctx context.Context, in ProfessionInput) (*models.Profession, error) {
	const op = "ProfessionService.Create"

	p := &models.Profession{IsActive: true}
	s.merge(p, in)
	p.Touch(now())
	if err := models.Validate(p); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, repoErr(op, "profession "+p.Name, err)
	}
	_ = s.cache.DelPrefix(ctx, professionCachePrefix)
	return p, nil
}

func (s *professionService) Update(ctx context.Context, id string, in ProfessionInput) (*models.Profession, error) {
	const op = "ProfessionService.Update"

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.merge(p, in)
	p.Touch(now())
	if err := models.Validate(p); err != nil {
		return nil, invalid(op, err)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, repoErr(op, "profession "+p.Name, err)
	}
	_ = s.cache.DelPrefix(ctx, professionCachePrefix)
	return p, nil
}

func (s *professionService) merge(p *models.Profession, in ProfessionInput) {
	setString(&p.Name, in.Name)
	setString(&p.Category, in.Category)
	setString(&p.Description, in.Description)
	setValue(&p.IsActive, in.IsActive)
}

func (s *professionService) Delete(ctx context.Context, id string) error {
	const op = "ProfessionService.Delete"

	oid, err := pathID(op, "profession", id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return repoErr(op, "profession", err)
	}
	_ = s.cache.DelPrefix(ctx, professionCachePrefix)
	return nil
}

