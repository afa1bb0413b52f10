package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/client"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

func TestClient_Login_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "issued-token",
			"user":  models.User{Email: "admin@example.com"},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	resp, err := c.Login(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", resp.Token)
}

func TestClient_CreateCity_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/city", r.URL.Path)
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))

		var input services.CityInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "Lahore", input.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.City{ID: primitive.NewObjectID(), Name: "lahore"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	c.SetToken("my-token")
	city, err := c.CreateCity(context.Background(), services.CityInput{Name: "Lahore"})
	require.NoError(t, err)
	assert.Equal(t, "lahore", city.Name)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "city not found"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GetCity(context.Background(), "64a000000000000000000000")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "city not found", apiErr.Message)
}

func TestClient_ListProperties_BuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "my-city", r.URL.Query().Get("cityId"))
		json.NewEncoder(w).Encode([]models.PropertyWithArea{})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	properties, err := c.ListProperties(context.Background(), "", "my-city")
	require.NoError(t, err)
	assert.Empty(t, properties)
}

func TestClient_SubmitProperty_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "captcha-token", r.Header.Get("X-Turnstile-Token"))

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "3 Bed House", r.FormValue("title"))
		assert.Equal(t, "rent", r.FormValue("listingType"))

		files := r.MultipartForm.File["mainPhoto"]
		require.Len(t, files, 1)
		assert.Equal(t, "front.jpg", files[0].Filename)
		require.Len(t, r.MultipartForm.File["additionalPhotos"], 2)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Property{
			ID:     primitive.NewObjectID(),
			Title:  "3 Bed House",
			Status: models.PropertyStatusPending,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	property, err := c.SubmitProperty(context.Background(),
		services.PropertyInput{Title: "3 Bed House", ListingType: "rent", Price: "45000"},
		&client.PhotoUpload{Filename: "front.jpg", Content: strings.NewReader("img")},
		[]client.PhotoUpload{
			{Filename: "kitchen.jpg", Content: strings.NewReader("img")},
			{Filename: "garden.jpg", Content: strings.NewReader("img")},
		},
		"captcha-token",
	)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusPending, property.Status)
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ping", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "pong"})
	}))
	defer srv.Close()

	assert.NoError(t, client.New(srv.URL).Ping(context.Background()))
}
