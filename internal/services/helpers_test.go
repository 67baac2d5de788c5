package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/notify"
	"github.com/yoockh/jobboard/internal/repositories"
	"github.com/yoockh/jobboard/internal/repositories/memory"
	"github.com/yoockh/jobboard/internal/storage"
	"github.com/yoockh/jobboard/internal/utils"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(s), dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = string(b)
	c.sets++
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) DelPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev notify.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	repos  repositories.Set
	svc    Set
	cache  *mapCache
	events *recordingPublisher
	store  *storage.LocalStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret", 0)
	require.NoError(t, err)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		repos:  memory.NewSet(),
		cache:  newMapCache(),
		events: &recordingPublisher{},
		store:  store,
	}
	f.svc = New(Deps{Repos: f.repos, Tokens: tm, Cache: f.cache, Store: store, Events: f.events})
	return f
}

// user registers an account and returns its identity as a token would carry it.
func (f *fixture) user(name string) auth.Identity {
	f.t.Helper()
	sess, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "secret123",
	})
	require.NoError(f.t, err)
	return auth.Identity{UserID: sess.User.ID, Email: sess.User.Email, Role: sess.User.Role}
}

func (f *fixture) admin() auth.Identity {
	f.t.Helper()
	id := f.user("Admin")
	require.NoError(f.t, f.repos.Users.SetRole(f.ctx, id.UserID, models.RoleAdmin))
	id.Role = models.RoleAdmin
	return id
}

func (f *fixture) profession(name string) *models.Profession {
	f.t.Helper()
	p, err := f.svc.Professions.Create(f.ctx, ProfessionInput{Name: &name})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) company(owner auth.Identity, name string) *models.Company {
	f.t.Helper()
	c, err := f.svc.Companies.Create(f.ctx, owner, CompanyInput{Name: &name})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) job(owner auth.Identity, title string, profession *models.Profession) *models.Job {
	f.t.Helper()
	pid := profession.ID.Hex()
	desc := "Build things"
	j, err := f.svc.Jobs.Create(f.ctx, owner, JobInput{Title: &title, Description: &desc, ProfessionID: &pid})
	require.NoError(f.t, err)
	return j
}

func (f *fixture) professional(owner auth.Identity, first, last string) *models.Professional {
	f.t.Helper()
	p, err := f.svc.Professionals.Create(f.ctx, owner, ProfessionalInput{
		ProfileInput: ProfileInput{FirstName: &first, LastName: &last},
	})
	require.NoError(f.t, err)
	return p
}

func requireCode(t *testing.T, err error, code utils.Code) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, utils.IsCode(err, code), "want %s, got %v", code, err)
}

func ptr[T any](v T) *T { return &v }
