package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompanyService_CreatePromotesOwner(t *testing.T) {
	f := newFixture(t)
	boss := f.user("Boss")

	c := f.company(boss, "Acme")
	assert.Equal(t, boss.UserID, c.UserID)
	require.NotNil(t, c.User)
	assert.Equal(t, "Boss", c.User.Name)

	u, err := f.repos.Users.GetByID(f.ctx, boss.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompany, u.Role)
}

func TestCompanyService_OnePerUser(t *testing.T) {
	f := newFixture(t)
	boss := f.user("Boss")
	f.company(boss, "Acme")

	for _, name := range []string{"Acme", "Other Co", "Third"} {
		_, err := f.svc.Companies.Create(f.ctx, boss, CompanyInput{Name: ptr(name)})
		requireCode(t, err, utils.CodeConflict)
	}
}

func TestCompanyService_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	boss := f.user("Boss")
	other := f.user("Other")
	admin := f.admin()
	c := f.company(boss, "Acme")

	_, err := f.svc.Companies.Update(f.ctx, other, c.ID.Hex(), CompanyInput{Name: ptr("Hijacked")})
	requireCode(t, err, utils.CodeForbidden)

	got, err := f.svc.Companies.Update(f.ctx, boss, c.ID.Hex(), CompanyInput{Industry: ptr("Software")})
	require.NoError(t, err)
	assert.Equal(t, "Software", got.Industry)
	assert.Equal(t, "Acme", got.Name)

	_, err = f.svc.Companies.Update(f.ctx, boss, c.ID.Hex(), CompanyInput{IsVerified: ptr(true)})
	requireCode(t, err, utils.CodeForbidden)

	got, err = f.svc.Companies.Update(f.ctx, admin, c.ID.Hex(), CompanyInput{IsVerified: ptr(true)})
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	_, err = f.svc.Companies.Update(f.ctx, boss, c.ID.Hex(), CompanyInput{Size: ptr(models.CompanySize("huge"))})
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestCompanyService_GetMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Companies.Get(f.ctx, primitive.NewObjectID().Hex())
	requireCode(t, err, utils.CodeNotFound)

	_, err = f.svc.Companies.Get(f.ctx, "not-an-id")
	requireCode(t, err, utils.CodeNotFound)
}

func TestCompanyService_LocationFilter(t *testing.T) {
	f := newFixture(t)
	europe, err := f.svc.Continents.Create(f.ctx, GeoInput{Name: ptr("Europe"), Code: ptr("EU")})
	require.NoError(t, err)

	a := f.user("A")
	b := f.user("B")
	_, err = f.svc.Companies.Create(f.ctx, a, CompanyInput{
		Name:          ptr("Alpha"),
		LocationInput: models.LocationInput{Continent: ptr(europe.ID.Hex())},
	})
	require.NoError(t, err)
	f.company(b, "Beta")

	list, err := f.svc.Companies.List(f.ctx, CompanyQuery{Continent: europe.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha", list[0].Name)
	require.NotNil(t, list[0].Continent)
	assert.Equal(t, "Europe", list[0].Continent.Name)
	assert.Equal(t, "EU", list[0].Continent.Code)

	_, err = f.svc.Companies.List(f.ctx, CompanyQuery{Country: "bogus"})
	requireCode(t, err, utils.CodeInvalidArgument)
}
