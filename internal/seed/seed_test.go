package seed

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/cache"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/notify"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/repositories/memory"
	"github.com/yoockh/jobboard/internal/services"
	"github.com/yoockh/jobboard/internal/utils"
)

const sample = `
professions:
  - name: Nursing
    category: Health
  - name: Welding
continents:
  - name: Europe
    code: EU
    countries:
      - name: Portugal
        code: PT
        provinces:
          - name: Lisboa
            cities: [Lisbon, Sintra]
`

func newSeeder(t *testing.T) (*Seeder, repositories.Set, services.Set) {
	t.Helper()
	repos := memory.NewSet()
	svc := services.New(services.Deps{Repos: repos, Cache: cache.Noop{}, Events: notify.Noop{}})
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(svc, log), repos, svc
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Continents, 1)

	s, _, svc := newSeeder(t)
	rep, err := s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Report{Created: 7, Existing: 0}, rep)

	rep, err = s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Report{Created: 0, Existing: 7}, rep)

	cities, err := svc.Cities.List(ctx, services.GeoQuery{})
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Lisbon", cities[0].Name)
	require.NotNil(t, cities[0].Province)
	assert.Equal(t, "Lisboa", cities[0].Province.Name)
}

func TestApply_InvalidEntry(t *testing.T) {
	f, err := Parse([]byte("continents:\n  - name: Nowhere\n"))
	require.NoError(t, err)

	s, _, _ := newSeeder(t)
	_, err = s.Apply(context.Background(), f)
	// continents need a code
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("professions: {name: ["))
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	_, repos, _ := newSeeder(t)

	created, err := EnsureAdmin(ctx, repos.Users, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = EnsureAdmin(ctx, repos.Users, "Admin@Example.com", "admin-pass")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := repos.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NoError(t, utils.CheckPassword(u.PasswordHash, "admin-pass"))

	created, err = EnsureAdmin(ctx, repos.Users, "admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	ctx := context.Background()
	_, repos, _ := newSeeder(t)

	hash, err := utils.HashPassword("whatever1")
	require.NoError(t, err)
	u := &models.User{Name: "Ops", Email: "ops@example.com", PasswordHash: hash, Role: models.RoleUser, IsActive: true}
	u.Touch(time.Now())
	require.NoError(t, repos.Users.Create(ctx, u))

	promoted, err := EnsureAdmin(ctx, repos.Users, "ops@example.com", "ignored")
	require.NoError(t, err)
	assert.True(t, promoted)

	got, err := repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}
