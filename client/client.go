// Package client provides a typed Go client for the Rent Ghar REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a Rent Ghar API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// AuthResponse is the payload of register and login calls.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	in := map[string]string{"email": email, "password": password, "name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", in, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", in, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// --- Cities ---

func (c *Client) CreateCity(ctx context.Context, input services.CityInput) (*models.City, error) {
	var city models.City
	if err := c.doJSON(ctx, http.MethodPost, "/city", input, &city); err != nil {
		return nil, err
	}
	return &city, nil
}

func (c *Client) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := c.doJSON(ctx, http.MethodGet, "/city", nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *Client) GetCity(ctx context.Context, id string) (*models.City, error) {
	var city models.City
	if err := c.doJSON(ctx, http.MethodGet, "/city/"+url.PathEscape(id), nil, &city); err != nil {
		return nil, err
	}
	return &city, nil
}

func (c *Client) DeleteCity(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/city/"+url.PathEscape(id), nil, nil)
}

// --- Areas ---

func (c *Client) CreateArea(ctx context.Context, input services.AreaInput) (*models.Area, error) {
	var area models.Area
	if err := c.doJSON(ctx, http.MethodPost, "/areas", input, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// ListAreas returns all areas, or one city's areas when cityID is set.
func (c *Client) ListAreas(ctx context.Context, cityID string) ([]models.AreaWithCity, error) {
	path := "/areas"
	if cityID != "" {
		path += "?cityId=" + url.QueryEscape(cityID)
	}
	var areas []models.AreaWithCity
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// --- Blog categories ---

func (c *Client) CreateCategory(ctx context.Context, input services.CategoryInput) (*models.Category, error) {
	var cat models.Category
	if err := c.doJSON(ctx, http.MethodPost, "/category/create", input, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.CategoryWithParent, error) {
	var cats []models.CategoryWithParent
	if err := c.doJSON(ctx, http.MethodGet, "/category", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) (*models.CategoryWithParent, error) {
	var cat models.CategoryWithParent
	if err := c.doJSON(ctx, http.MethodGet, "/category/slug/"+url.PathEscape(slug), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// --- Blog posts ---

func (c *Client) CreateBlog(ctx context.Context, input services.BlogInput) (*models.Blog, error) {
	var blog models.Blog
	if err := c.doJSON(ctx, http.MethodPost, "/blog", input, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) ListPublishedBlogs(ctx context.Context) ([]models.BlogWithCategories, error) {
	var blogs []models.BlogWithCategories
	if err := c.doJSON(ctx, http.MethodGet, "/blog/published", nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) GetBlogBySlug(ctx context.Context, slug string) (*models.BlogWithCategories, error) {
	var blog models.BlogWithCategories
	if err := c.doJSON(ctx, http.MethodGet, "/blog/slug/"+url.PathEscape(slug), nil, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// --- Properties ---

// PhotoUpload is a photo attached to a property submission.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

// SubmitProperty posts a multipart property submission. The Turnstile
// token may be empty when the server runs without captcha verification.
func (c *Client) SubmitProperty(ctx context.Context, input services.PropertyInput, mainPhoto *PhotoUpload, additionalPhotos []PhotoUpload, turnstileToken string) (*models.Property, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"listingType":   input.ListingType,
		"propertyType":  input.PropertyType,
		"area":          input.Area,
		"title":         input.Title,
		"slug":          input.Slug,
		"location":      input.Location,
		"bedrooms":      input.Bedrooms,
		"bathrooms":     input.Bathrooms,
		"areaSize":      input.AreaSize,
		"price":         input.Price,
		"description":   input.Description,
		"contactNumber": input.ContactNumber,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	for _, f := range input.Features {
		if err := mw.WriteField("features", f); err != nil {
			return nil, fmt.Errorf("failed to write feature: %w", err)
		}
	}

	writePhoto := func(field string, photo PhotoUpload) error {
		fw, err := mw.CreateFormFile(field, photo.Filename)
		if err != nil {
			return fmt.Errorf("failed to attach %s: %w", photo.Filename, err)
		}
		if _, err := io.Copy(fw, photo.Content); err != nil {
			return fmt.Errorf("failed to copy %s: %w", photo.Filename, err)
		}
		return nil
	}
	if mainPhoto != nil {
		if err := writePhoto("mainPhoto", *mainPhoto); err != nil {
			return nil, err
		}
	}
	for _, photo := range additionalPhotos {
		if err := writePhoto("additionalPhotos", photo); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/properties", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if turnstileToken != "" {
		req.Header.Set("X-Turnstile-Token", turnstileToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errBody)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	var property models.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &property, nil
}

// ListProperties returns approved listings, optionally filtered by area
// or city.
func (c *Client) ListProperties(ctx context.Context, areaID, cityID string) ([]models.PropertyWithArea, error) {
	q := url.Values{}
	if areaID != "" {
		q.Set("areaId", areaID)
	}
	if cityID != "" {
		q.Set("cityId", cityID)
	}
	path := "/properties"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var properties []models.PropertyWithArea
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) GetPropertyBySlug(ctx context.Context, slug string) (*models.PropertyWithArea, error) {
	var property models.PropertyWithArea
	if err := c.doJSON(ctx, http.MethodGet, "/properties/slug/"+url.PathEscape(slug), nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// UpdatePropertyStatus transitions a listing's moderation status. Admin
// token required.
func (c *Client) UpdatePropertyStatus(ctx context.Context, id, status string) (*models.Property, error) {
	var property models.Property
	in := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, "/properties/"+url.PathEscape(id)+"/status", in, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/ping", nil, nil)
}
