package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/utils"
)

const geoCachePrefix = "geo:"

// GeoQuery filters a level of the hierarchy. Active nil lists everything.
type GeoQuery struct {
	ParentID string
	Active   *bool
	Name     string
}

type GeoInput struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	ParentID *string `json:"parent_id"`
	IsActive *bool   `json:"is_active"`
}

type GeoService[T any] interface {
	// Level names the collection in messages, e.g. "country".
	Level() string
	List(ctx context.Context, q GeoQuery) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in GeoInput) (*T, error)
	Update(ctx context.Context, id string, in GeoInput) (*T, error)
}

type geoNode[T any] interface {
	*T
	models.GeoNode
	SetParent(*models.Ref)
	ApplyGeo(models.GeoPatch)
	Touch(time.Time)
}

type geoService[T any, PT geoNode[T]] struct {
	level      string
	parent     string
	parentKind refKind
	repo       repositories.GeoRepository[T]
	refs       *resolver
	cache      cache.Cache
}

func newGeoService[T any, PT geoNode[T]](level, parent string, parentKind refKind, repo repositories.GeoRepository[T], repos repositories.Set, c cache.Cache) *geoService[T, PT] {
	if c == nil {
		c = cache.Noop{}
	}
	return &geoService[T, PT]{
		level:      level,
		parent:     parent,
		parentKind: parentKind,
		repo:       repo,
		refs:       &resolver{repos: repos},
		cache:      c,
	}
}

func NewContinentService(repos repositories.Set, c cache.Cache) GeoService[models.Continent] {
	return newGeoService[models.Continent]("continent", "", kindNone, repos.Continents, repos, c)
}

func NewCountryService(repos repositories.Set, c cache.Cache) GeoService[models.Country] {
	return newGeoService[models.Country]("country", "continent", kindContinent, repos.Countries, repos, c)
}

func NewProvinceService(repos repositories.Set, c cache.Cache) GeoService[models.Province] {
	return newGeoService[models.Province]("province", "country", kindCountry, repos.Provinces, repos, c)
}

func NewCityService(repos repositories.Set, c cache.Cache) GeoService[models.City] {
	return newGeoService[models.City]("city", "province", kindProvince, repos.Cities, repos, c)
}

func (s *geoService[T, PT]) Level() string { return s.level }

func (s *geoService[T, PT]) op(method string) string {
	return "GeoService[" + s.level + "]." + method
}

func (s *geoService[T, PT]) List(ctx context.Context, q GeoQuery) ([]T, error) {
	op := s.op("List")

	f := repositories.GeoFilter{Active: q.Active, Name: strings.TrimSpace(q.Name)}
	if s.parentKind != kindNone {
		pid, err := optionalID(op, s.parent, q.ParentID)
		if err != nil {
			return nil, err
		}
		f.ParentID = pid
	}

	key := fmt.Sprintf("%s%s:%s:%s:%s", geoCachePrefix, s.level, q.ParentID, boolKey(q.Active), f.Name)
	var out []T
	if hit, _ := s.cache.GetJSON(ctx, key, &out); hit {
		return out, nil
	}

	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, repoErr(op, s.level, err)
	}
	if err := s.expand(ctx, out); err != nil {
		return nil, repoErr(op, s.parent, err)
	}
	_ = s.cache.SetJSON(ctx, key, out, cache.ReferenceTTL)
	return out, nil
}

func (s *geoService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	op := s.op("Get")

	oid, err := pathID(op, s.level, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, s.level, err)
	}
	one := []T{*doc}
	if err := s.expand(ctx, one); err != nil {
		return nil, repoErr(op, s.parent, err)
	}
	return &one[0], nil
}

func (s *geoService[T, PT]) Create(ctx context.Context, in GeoInput) (*T, error) {
	op := s.op("Create")

	doc := new(T)
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
	if err := s.apply(ctx, op, PT(doc), in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, repoErr(op, s.level, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, PT(doc).Summary().ID.Hex())
}

func (s *geoService[T, PT]) Update(ctx context.Context, id string, in GeoInput) (*T, error) {
	op := s.op("Update")

	oid, err := pathID(op, s.level, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, repoErr(op, s.level, err)
	}
	if err := s.apply(ctx, op, PT(doc), in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, repoErr(op, s.level, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// apply merges in, checks the parent exists and validates the result.
func (s *geoService[T, PT]) apply(ctx context.Context, op string, doc PT, in GeoInput) error {
	patch := models.GeoPatch{Name: in.Name, Code: in.Code, IsActive: in.IsActive}
	if in.ParentID != nil && s.parentKind != kindNone {
		pid, err := bodyID(op, s.parent+"_id", *in.ParentID)
		if err != nil {
			return err
		}
		ok, err := s.refs.exists(ctx, s.parentKind, pid)
		if err != nil {
			return repoErr(op, s.parent, err)
		}
		if !ok {
			return utils.E(utils.CodeInvalidArgument, op, s.parent+" does not exist", nil)
		}
		patch.Parent = &pid
	}
	doc.ApplyGeo(patch)
	doc.Touch(now())
	if err := models.Validate(doc); err != nil {
		return invalid(op, err)
	}
	return nil
}

func (s *geoService[T, PT]) expand(ctx context.Context, docs []T) error {
	if s.parentKind == kindNone || len(docs) == 0 {
		return nil
	}
	q := refQuery{}
	for i := range docs {
		pid := PT(&docs[i]).ParentID()
		q.add(s.parentKind, &pid)
	}
	t, err := s.refs.resolve(ctx, q)
	if err != nil {
		return err
	}
	for i := range docs {
		n := PT(&docs[i])
		pid := n.ParentID()
		n.SetParent(t.ref(s.parentKind, &pid))
	}
	return nil
}

func (s *geoService[T, PT]) invalidate(ctx context.Context) {
	// child lists embed parent names, so every level goes
	_ = s.cache.DelPrefix(ctx, geoCachePrefix)
}

func boolKey(b *bool) string {
	if b == nil {
		return "all"
	}
	if *b {
		return "1"
	}
	return "0"
}
