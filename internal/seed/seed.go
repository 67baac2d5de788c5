// Package seed loads reference data (geography and professions) from a
// YAML file and applies it idempotently: entries are matched by name
// under their parent and only missing ones are created.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/services"
	"github.com/yoockh/jobboard/internal/utils"
	"gopkg.in/yaml.v3"
)

type File struct {
	Professions []Profession `yaml:"professions"`
	Continents  []Continent  `yaml:"continents"`
}

type Profession struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type Continent struct {
	Name      string    `yaml:"name"`
	Code      string    `yaml:"code"`
	Countries []Country `yaml:"countries"`
}

type Country struct {
	Name      string     `yaml:"name"`
	Code      string     `yaml:"code"`
	Provinces []Province `yaml:"provinces"`
}

type Province struct {
	Name   string   `yaml:"name"`
	Code   string   `yaml:"code"`
	Cities []string `yaml:"cities"`
}

// Report counts what Apply did.
type Report struct {
	Created  int
	Existing int
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	svc services.Set
	log *logrus.Logger
}

func New(svc services.Set, log *logrus.Logger) *Seeder {
	return &Seeder{svc: svc, log: log}
}

func (s *Seeder) Apply(ctx context.Context, f *File) (Report, error) {
	var rep Report

	for _, p := range f.Professions {
		if err := s.profession(ctx, p, &rep); err != nil {
			return rep, err
		}
	}

	for _, ct := range f.Continents {
		continentID, err := ensureGeo(ctx, s.svc.Continents, ct.Name, ct.Code, "", &rep)
		if err != nil {
			return rep, err
		}
		for _, co := range ct.Countries {
			countryID, err := ensureGeo(ctx, s.svc.Countries, co.Name, co.Code, continentID, &rep)
			if err != nil {
				return rep, err
			}
			for _, pr := range co.Provinces {
				provinceID, err := ensureGeo(ctx, s.svc.Provinces, pr.Name, pr.Code, countryID, &rep)
				if err != nil {
					return rep, err
				}
				for _, city := range pr.Cities {
					if _, err := ensureGeo(ctx, s.svc.Cities, city, "", provinceID, &rep); err != nil {
						return rep, err
					}
				}
			}
		}
	}

	s.log.WithFields(logrus.Fields{"created": rep.Created, "existing": rep.Existing}).Info("seed applied")
	return rep, nil
}

func (s *Seeder) profession(ctx context.Context, p Profession, rep *Report) error {
	name := strings.TrimSpace(p.Name)
	found, err := s.svc.Professions.List(ctx, services.ProfessionQuery{})
	if err != nil {
		return err
	}
	for _, existing := range found {
		if existing.Name == name {
			rep.Existing++
			return nil
		}
	}

	in := services.ProfessionInput{Name: &name}
	if p.Category != "" {
		in.Category = &p.Category
	}
	if p.Description != "" {
		in.Description = &p.Description
	}
	if _, err := s.svc.Professions.Create(ctx, in); err != nil {
		return fmt.Errorf("profession %q: %w", name, err)
	}
	rep.Created++
	return nil
}

// ensureGeo returns the id of the node called name under parent, creating
// it when absent.
func ensureGeo[T models.Referable](ctx context.Context, svc services.GeoService[T], name, code, parent string, rep *Report) (string, error) {
	name = strings.TrimSpace(name)
	found, err := svc.List(ctx, services.GeoQuery{ParentID: parent, Name: name})
	if err != nil {
		return "", err
	}
	if len(found) > 0 {
		rep.Existing++
		return found[0].Summary().ID.Hex(), nil
	}

	in := services.GeoInput{Name: &name}
	if code != "" {
		in.Code = &code
	}
	if parent != "" {
		in.ParentID = &parent
	}
	created, err := svc.Create(ctx, in)
	if err != nil {
		return "", fmt.Errorf("%s %q: %w", svc.Level(), name, err)
	}
	rep.Created++
	return (*created).Summary().ID.Hex(), nil
}

// EnsureAdmin creates the admin account, or promotes an existing user with
// that email. Empty credentials are a no-op.
func EnsureAdmin(ctx context.Context, users repositories.UserRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin {
			return false, nil
		}
		return true, users.SetRole(ctx, u.ID, models.RoleAdmin)
	case !errors.Is(err, utils.ErrNotFound):
		return false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	admin.Touch(time.Now())
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
