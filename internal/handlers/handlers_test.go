package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"webcarros-backend/internal/middleware"
	"webcarros-backend/internal/models"
	"webcarros-backend/internal/repository"
	"webcarros-backend/internal/services"
	"webcarros-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStorage implements services.ObjectStorage in memory
type stubStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *stubStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *stubStorage) PresignGet(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	return "https://storage.test/signed/" + key, nil
}

func (s *stubStorage) PublicURL(key string) string {
	return "https://storage.test/" + key
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	store := repository.NewInMemoryStore()
	storage := &stubStorage{objects: make(map[string][]byte)}

	authService := services.NewAuthService(store, "test-secret")
	imageService := services.NewImageService(storage)
	carService := services.NewCarService(store, imageService)
	feedHub := services.NewFeedHub()

	validate := validation.New()
	authHandler := NewAuthHandler(authService, validate)
	imageHandler := NewImageHandler(imageService)
	carHandler := NewCarHandler(carService, feedHub, validate)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/cars", carHandler.List)
		r.Get("/cars/{id}", carHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/images", imageHandler.Upload)
			r.Get("/images", imageHandler.List)
			r.Delete("/images", imageHandler.Delete)
			r.Post("/cars", carHandler.Create)
		})
	})
	return r
}

func doJSON(t *testing.T, api http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func doUpload(t *testing.T, api http.Handler, token, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="car.img"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/images", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, api http.Handler, name, email string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func carForm() map[string]string {
	return map[string]string{
		"name":        "Civic Touring",
		"model":       "1.5 Turbo",
		"year":        "2022/2023",
		"km":          "24.900",
		"price":       "145.000",
		"city":        "Sombrio - SC",
		"whatsapp":    "48999999999",
		"description": "Single owner",
	}
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	t.Run("RegisterAndMe", func(t *testing.T) {
		token := register(t, api, "A", "a@a.com")

		rec := doJSON(t, api, http.MethodGet, "/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		assert.Equal(t, "A", me.Name)
		assert.Equal(t, "a@a.com", me.Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("RegisterDuplicateEmail", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"name": "B", "email": "a@a.com", "password": "123456",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("RegisterValidation", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"name": "B", "email": "b@b.com", "password": "123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "password")
		assert.NotContains(t, resp.Fields, "email")
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email": "a@a.com", "password": "wrong1",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("LogoutTearsDownSession", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email": "a@a.com", "password": "123456",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var session SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

		rec = doJSON(t, api, http.MethodPost, "/v1/auth/logout", session.Token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, api, http.MethodGet, "/v1/auth/me", session.Token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doJSON(t, api, http.MethodPost, "/v1/cars", session.Token, carForm())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListingEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := register(t, api, "Ana", "ana@a.com")

	t.Run("CreateWithoutImages", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/cars", token, carForm())
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("UploadRejectsGif", func(t *testing.T) {
		rec := doUpload(t, api, token, "image/gif")
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

		list := doJSON(t, api, http.MethodGet, "/v1/images", token, nil)
		assert.JSONEq(t, "[]", list.Body.String())
	})

	t.Run("UploadAndDelete", func(t *testing.T) {
		rec := doUpload(t, api, token, "image/png")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var image models.DraftImage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &image))
		assert.NotEmpty(t, image.URL)
		assert.NotEmpty(t, image.PreviewURL)

		del := doJSON(t, api, http.MethodDelete, "/v1/images", token, map[string]string{"url": image.URL})
		require.Equal(t, http.StatusNoContent, del.Code)

		list := doJSON(t, api, http.MethodGet, "/v1/images", token, nil)
		assert.JSONEq(t, "[]", list.Body.String())
	})

	t.Run("CreateAndBrowse", func(t *testing.T) {
		first := doUpload(t, api, token, "image/jpeg")
		require.Equal(t, http.StatusCreated, first.Code)
		second := doUpload(t, api, token, "image/png")
		require.Equal(t, http.StatusCreated, second.Code)

		rec := doJSON(t, api, http.MethodPost, "/v1/cars", token, carForm())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var car models.Car
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &car))
		assert.Equal(t, "CIVIC TOURING", car.Name)
		assert.Equal(t, "Ana", car.Owner)
		require.Len(t, car.Images, 2)

		// Drafts were consumed.
		list := doJSON(t, api, http.MethodGet, "/v1/images", token, nil)
		assert.JSONEq(t, "[]", list.Body.String())

		browse := doJSON(t, api, http.MethodGet, "/v1/cars", "", nil)
		require.Equal(t, http.StatusOK, browse.Code)
		var cars []models.Car
		require.NoError(t, json.Unmarshal(browse.Body.Bytes(), &cars))
		require.Len(t, cars, 1)
		assert.Equal(t, car.ID, cars[0].ID)

		search := doJSON(t, api, http.MethodGet, "/v1/cars?name=civ", "", nil)
		require.Equal(t, http.StatusOK, search.Code)
		cars = nil
		require.NoError(t, json.Unmarshal(search.Body.Bytes(), &cars))
		require.Len(t, cars, 1)

		miss := doJSON(t, api, http.MethodGet, "/v1/cars?name=corolla", "", nil)
		cars = nil
		require.NoError(t, json.Unmarshal(miss.Body.Bytes(), &cars))
		assert.Empty(t, cars)

		detail := doJSON(t, api, http.MethodGet, fmt.Sprintf("/v1/cars/%s", car.ID), "", nil)
		assert.Equal(t, http.StatusOK, detail.Code)

		missing := doJSON(t, api, http.MethodGet, "/v1/cars/does-not-exist", "", nil)
		assert.Equal(t, http.StatusNotFound, missing.Code)
	})

	t.Run("CreateValidation", func(t *testing.T) {
		upload := doUpload(t, api, token, "image/jpeg")
		require.Equal(t, http.StatusCreated, upload.Code)

		form := carForm()
		form["whatsapp"] = "123"
		rec := doJSON(t, api, http.MethodPost, "/v1/cars", token, form)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "whatsapp")

		// Invalid submits must not write anything.
		browse := doJSON(t, api, http.MethodGet, "/v1/cars?name=zzz", "", nil)
		var cars []models.Car
		require.NoError(t, json.Unmarshal(browse.Body.Bytes(), &cars))
		assert.Empty(t, cars)
	})

	t.Run("ProtectedRoutesRequireToken", func(t *testing.T) {
		rec := doJSON(t, api, http.MethodPost, "/v1/cars", "", carForm())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doUpload(t, api, "garbage-token", "image/png")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
