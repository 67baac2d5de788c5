package services

import (
	"context"
	"sync"

	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type refKind int

const (
	kindNone refKind = iota
	kindContinent
	kindCountry
	kindProvince
	kindCity
	kindProfession
	kindCompany
	kindUser
	kindProfessional
	kindTrainee
)

// refQuery collects the ids to expand, grouped by collection.
type refQuery map[refKind]map[primitive.ObjectID]struct{}

func (q refQuery) add(k refKind, id *primitive.ObjectID) {
	if k == kindNone || id == nil || id.IsZero() {
		return
	}
	if q[k] == nil {
		q[k] = map[primitive.ObjectID]struct{}{}
	}
	q[k][*id] = struct{}{}
}

func (q refQuery) addLocation(l *models.LocationRefs) {
	q.add(kindContinent, l.ContinentID)
	q.add(kindCountry, l.CountryID)
	q.add(kindProvince, l.ProvinceID)
	q.add(kindCity, l.CityID)
}

type refTable map[refKind]map[primitive.ObjectID]models.Ref

func (t refTable) ref(k refKind, id *primitive.ObjectID) *models.Ref {
	if id == nil {
		return nil
	}
	r, ok := t[k][*id]
	if !ok {
		return nil
	}
	return &r
}

func (t refTable) fillLocation(l *models.LocationRefs) {
	l.Continent = t.ref(kindContinent, l.ContinentID)
	l.Country = t.ref(kindCountry, l.CountryID)
	l.Province = t.ref(kindProvince, l.ProvinceID)
	l.City = t.ref(kindCity, l.CityID)
}

// resolver expands reference ids into {id, name, code} summaries with one
// batched lookup per collection.
type resolver struct {
	repos repositories.Set
}

func (rv *resolver) resolve(ctx context.Context, q refQuery) (refTable, error) {
	out := refTable{}
	if len(q) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for kind, set := range q {
		ids := make([]primitive.ObjectID, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		g.Go(func() error {
			m, err := rv.fetch(ctx, kind, ids)
			if err != nil {
				return err
			}
			mu.Lock()
			out[kind] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// exists reports whether id names a document of kind.
func (rv *resolver) exists(ctx context.Context, kind refKind, id primitive.ObjectID) (bool, error) {
	m, err := rv.fetch(ctx, kind, []primitive.ObjectID{id})
	if err != nil {
		return false, err
	}
	_, ok := m[id]
	return ok, nil
}

func (rv *resolver) fetch(ctx context.Context, kind refKind, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Ref, error) {
	switch kind {
	case kindContinent:
		return refsOf(ctx, ids, rv.repos.Continents.GetByIDs)
	case kindCountry:
		return refsOf(ctx, ids, rv.repos.Countries.GetByIDs)
	case kindProvince:
		return refsOf(ctx, ids, rv.repos.Provinces.GetByIDs)
	case kindCity:
		return refsOf(ctx, ids, rv.repos.Cities.GetByIDs)
	case kindProfession:
		return refsOf(ctx, ids, rv.repos.Professions.GetByIDs)
	case kindCompany:
		return refsOf(ctx, ids, rv.repos.Companies.GetByIDs)
	case kindUser:
		return refsOf(ctx, ids, rv.repos.Users.GetByIDs)
	case kindProfessional:
		return refsOf(ctx, ids, rv.repos.Professionals.GetByIDs)
	case kindTrainee:
		return refsOf(ctx, ids, rv.repos.Trainees.GetByIDs)
	}
	return map[primitive.ObjectID]models.Ref{}, nil
}

func refsOf[T models.Referable](ctx context.Context, ids []primitive.ObjectID, get func(context.Context, []primitive.ObjectID) ([]T, error)) (map[primitive.ObjectID]models.Ref, error) {
	docs, err := get(ctx, ids)
	if err != nil {
		return nil, err
	}
	return models.RefMap(docs), nil
}
