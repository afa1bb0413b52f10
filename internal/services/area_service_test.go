package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

func setupAreaTest(t *testing.T) (services.IAreaService, services.ICityService) {
	database := utils.SetupTestDB(t, "rentghar_test_areas", "areas", "cities")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return services.NewAreaService(database), services.NewCityService(database)
}

func TestAreaService_Create_ResolvesCity(t *testing.T) {
	areaSvc, citySvc := setupAreaTest(t)
	ctx := context.Background()

	city, err := citySvc.Create(ctx, services.CityInput{Name: "Lahore"})
	require.NoError(t, err)

	area, err := areaSvc.Create(ctx, services.AreaInput{Name: "DHA Phase 5", City: city.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, city.ID, area.CityID)

	withCity, err := areaSvc.FindByID(ctx, area.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, withCity.City)
	assert.Equal(t, "lahore", withCity.City.Name)
}

func TestAreaService_Create_MalformedCityID(t *testing.T) {
	areaSvc, _ := setupAreaTest(t)

	// Format is checked before existence.
	_, err := areaSvc.Create(context.Background(), services.AreaInput{Name: "Anywhere", City: "nope"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAreaService_Create_UnknownCity(t *testing.T) {
	areaSvc, _ := setupAreaTest(t)

	_, err := areaSvc.Create(context.Background(), services.AreaInput{
		Name: "Anywhere",
		City: "64a000000000000000000000",
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAreaService_Create_DuplicateName(t *testing.T) {
	areaSvc, citySvc := setupAreaTest(t)
	ctx := context.Background()

	city, err := citySvc.Create(ctx, services.CityInput{Name: "Karachi"})
	require.NoError(t, err)

	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "Clifton", City: city.ID.Hex()})
	require.NoError(t, err)
	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "Clifton", City: city.ID.Hex()})
	assert.ErrorIs(t, err, services.ErrConflict)
}

// Area names are unique across the whole collection, not per city.
func TestAreaService_Create_DuplicateNameAcrossCities(t *testing.T) {
	areaSvc, citySvc := setupAreaTest(t)
	ctx := context.Background()

	lahore, err := citySvc.Create(ctx, services.CityInput{Name: "Lahore"})
	require.NoError(t, err)
	karachi, err := citySvc.Create(ctx, services.CityInput{Name: "Karachi"})
	require.NoError(t, err)

	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "Model Town", City: lahore.ID.Hex()})
	require.NoError(t, err)
	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "Model Town", City: karachi.ID.Hex()})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestAreaService_FindByCity(t *testing.T) {
	areaSvc, citySvc := setupAreaTest(t)
	ctx := context.Background()

	city, err := citySvc.Create(ctx, services.CityInput{Name: "Islamabad"})
	require.NoError(t, err)
	other, err := citySvc.Create(ctx, services.CityInput{Name: "Rawalpindi"})
	require.NoError(t, err)

	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "G-11", City: city.ID.Hex()})
	require.NoError(t, err)
	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "F-7", City: city.ID.Hex()})
	require.NoError(t, err)
	_, err = areaSvc.Create(ctx, services.AreaInput{Name: "Saddar", City: other.ID.Hex()})
	require.NoError(t, err)

	areas, err := areaSvc.FindByCity(ctx, city.ID.Hex())
	require.NoError(t, err)
	require.Len(t, areas, 2)
	// Sorted by name, stored lowercased.
	assert.Equal(t, "f-7", areas[0].Name)
	assert.Equal(t, "g-11", areas[1].Name)
}

func TestAreaService_FindByCity_NoAreas(t *testing.T) {
	areaSvc, citySvc := setupAreaTest(t)
	ctx := context.Background()

	city, err := citySvc.Create(ctx, services.CityInput{Name: "Quetta"})
	require.NoError(t, err)

	areas, err := areaSvc.FindByCity(ctx, city.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, areas)
}
