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

func TestCityService_CreateAndFind(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	svc := services.NewCityService(database)
	ctx := context.Background()

	city, err := svc.Create(ctx, services.CityInput{Name: "Lahore", State: "Punjab", Country: "Pakistan"})
	require.NoError(t, err)
	assert.Equal(t, "lahore", city.Name, "names are stored lowercased")
	assert.False(t, city.ID.IsZero())

	found, err := svc.FindByID(ctx, city.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "lahore", found.Name)
	assert.Equal(t, "punjab", found.State)
}

func TestCityService_Create_DuplicateName(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	svc := services.NewCityService(database)
	ctx := context.Background()

	_, err := svc.Create(ctx, services.CityInput{Name: "Karachi"})
	require.NoError(t, err)

	// Same name in a different case is still a duplicate.
	_, err = svc.Create(ctx, services.CityInput{Name: "KARACHI"})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestCityService_FindByID_Missing(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	svc := services.NewCityService(database)

	_, err := svc.FindByID(context.Background(), "64a000000000000000000000")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCityService_FindByID_MalformedID(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	svc := services.NewCityService(database)

	_, err := svc.FindByID(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCityService_Update(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	svc := services.NewCityService(database)
	ctx := context.Background()

	city, err := svc.Create(ctx, services.CityInput{Name: "Islamabad"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, city.ID.Hex(), services.CityInput{Name: "Islamabad", State: "ICT"})
	require.NoError(t, err)
	assert.Equal(t, "ict", updated.State)
}

func TestCityService_Delete_LeavesOrphanedAreas(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities", "areas")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	citySvc := services.NewCityService(database)
	areaSvc := services.NewAreaService(database)
	ctx := context.Background()

	city, err := citySvc.Create(ctx, services.CityInput{Name: "Multan"})
	require.NoError(t, err)
	area, err := areaSvc.Create(ctx, services.AreaInput{Name: "Cantt", City: city.ID.Hex()})
	require.NoError(t, err)

	require.NoError(t, citySvc.Delete(ctx, city.ID.Hex()))

	_, err = citySvc.FindByID(ctx, city.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	// The area record survives; its city reference just no longer resolves.
	orphan, err := areaSvc.FindByID(ctx, area.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, orphan.City)
}

func TestCityService_Delete_Missing(t *testing.T) {
	database := utils.SetupTestDB(t, "rentghar_test_cities", "cities")
	svc := services.NewCityService(database)

	err := svc.Delete(context.Background(), "64a000000000000000000000")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
