package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGeoService_Hierarchy(t *testing.T) {
	f := newFixture(t)

	asia, err := f.svc.Continents.Create(f.ctx, GeoInput{Name: ptr("Asia"), Code: ptr("AS")})
	require.NoError(t, err)
	assert.True(t, asia.IsActive)

	_, err = f.svc.Countries.Create(f.ctx, GeoInput{Name: ptr("Indonesia"), Code: ptr("ID")})
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = f.svc.Countries.Create(f.ctx, GeoInput{Name: ptr("Indonesia"), Code: ptr("ID"), ParentID: ptr(primitive.NewObjectID().Hex())})
	requireCode(t, err, utils.CodeInvalidArgument)

	id, err := f.svc.Countries.Create(f.ctx, GeoInput{Name: ptr("Indonesia"), Code: ptr("ID"), ParentID: ptr(asia.ID.Hex())})
	require.NoError(t, err)
	require.NotNil(t, id.Continent)
	assert.Equal(t, "Asia", id.Continent.Name)
	assert.Equal(t, "AS", id.Continent.Code)

	jawa, err := f.svc.Provinces.Create(f.ctx, GeoInput{Name: ptr("Jawa Barat"), ParentID: ptr(id.ID.Hex())})
	require.NoError(t, err)
	_, err = f.svc.Cities.Create(f.ctx, GeoInput{Name: ptr("Bandung"), ParentID: ptr(jawa.ID.Hex())})
	require.NoError(t, err)
	_, err = f.svc.Cities.Create(f.ctx, GeoInput{Name: ptr("Bekasi"), ParentID: ptr(jawa.ID.Hex()), IsActive: ptr(false)})
	require.NoError(t, err)

	active := true
	cities, err := f.svc.Cities.List(f.ctx, GeoQuery{ParentID: jawa.ID.Hex(), Active: &active})
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Bandung", cities[0].Name)
	require.NotNil(t, cities[0].Province)
	assert.Equal(t, "Jawa Barat", cities[0].Province.Name)

	all, err := f.svc.Cities.List(f.ctx, GeoQuery{ParentID: jawa.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bandung", all[0].Name)
	assert.Equal(t, "Bekasi", all[1].Name)

	_, err = f.svc.Cities.Get(f.ctx, primitive.NewObjectID().Hex())
	requireCode(t, err, utils.CodeNotFound)
}

func TestGeoService_CacheInvalidation(t *testing.T) {
	f := newFixture(t)
	eu, err := f.svc.Continents.Create(f.ctx, GeoInput{Name: ptr("Europe"), Code: ptr("EU")})
	require.NoError(t, err)
	_, err = f.svc.Countries.Create(f.ctx, GeoInput{Name: ptr("France"), Code: ptr("FR"), ParentID: ptr(eu.ID.Hex())})
	require.NoError(t, err)

	list, err := f.svc.Countries.List(f.ctx, GeoQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, f.cache.len())

	// served from cache
	list, err = f.svc.Countries.List(f.ctx, GeoQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Europe", list[0].Continent.Name)

	_, err = f.svc.Continents.Update(f.ctx, eu.ID.Hex(), GeoInput{Name: ptr("Europa")})
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.len())

	list, err = f.svc.Countries.List(f.ctx, GeoQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Europa", list[0].Continent.Name)
}

func TestProfessionService_CRUD(t *testing.T) {
	f := newFixture(t)

	dev := f.profession("Developer")
	_, err := f.svc.Professions.Create(f.ctx, ProfessionInput{Name: ptr("Developer")})
	requireCode(t, err, utils.CodeConflict)

	_, err = f.svc.Professions.Create(f.ctx, ProfessionInput{})
	requireCode(t, err, utils.CodeInvalidArgument)

	list, err := f.svc.Professions.List(f.ctx, ProfessionQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := f.svc.Professions.Update(f.ctx, dev.ID.Hex(), ProfessionInput{Category: ptr("IT")})
	require.NoError(t, err)
	assert.Equal(t, "IT", got.Category)

	list, err = f.svc.Professions.List(f.ctx, ProfessionQuery{Category: "IT"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.svc.Professions.Delete(f.ctx, dev.ID.Hex()))
	list, err = f.svc.Professions.List(f.ctx, ProfessionQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
