package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"genapi/auth"
	"genapi/config"
	"genapi/database"
	"genapi/models"
	"genapi/repositories"
	"genapi/router"
	"genapi/services"
)

// testAPI wires the whole request path, gate included, against an in-memory
// database.
type testAPI struct {
	container *restful.Container
	db        *gorm.DB
	auth      services.AuthService
}

func setupAPI(t *testing.T) *testAPI {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: "Generic API", Version: "1.0.0", Env: "test"},
		JWT: config.JWTConfig{
			Secret:   "test-secret-key",
			TTL:      time.Hour,
			Issuer:   "test-issuer",
			Audience: "test-audience",
		},
	}
	logger := zap.NewNop()

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	tokens := auth.NewTokenManager(cfg.JWT)

	authService := services.NewAuthService(userRepo, sessionRepo, resetRepo, tokens, logger)
	categoryService := services.NewCategoryService(repositories.NewCategoryRepository(db))
	itemService := services.NewItemService(repositories.NewItemRepository(db), repositories.NewTagRepository(db))
	tagService := services.NewTagService(repositories.NewTagRepository(db))
	notificationService := services.NewNotificationService(repositories.NewNotificationRepository(db))
	userService := services.NewUserService(userRepo, sessionRepo, repositories.NewUserTypeRepository(db))

	ws := new(restful.WebService)
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	NewSystemController(cfg).RegisterRoutes(ws)
	NewAuthController(authService).RegisterRoutes(ws)
	NewUserController(userService).RegisterRoutes(ws)
	NewCategoryController(categoryService).RegisterRoutes(ws)
	NewItemController(itemService).RegisterRoutes(ws)
	NewTagController(tagService).RegisterRoutes(ws)
	NewNotificationController(notificationService).RegisterRoutes(ws)

	gate := router.NewGate(tokens, sessionRepo, logger)
	container := router.New(cfg, gate, logger)
	container.Add(ws)

	return &testAPI{container: container, db: db, auth: authService}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.container.ServeHTTP(w, req)
	return w
}

// itoa renders a JSON-decoded numeric id for use in a path.
func itoa(id float64) string {
	return strconv.Itoa(int(id))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

// registerAndLogin creates an account at the given permission level and
// returns a live token for it.
func (a *testAPI) registerAndLogin(t *testing.T, username string, permissionLevel int) (*models.User, string) {
	userID, err := a.auth.Register(&services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	if permissionLevel != 0 {
		assert.NoError(t, a.db.Model(&models.User{}).Where("id = ?", userID).
			Update("permission_level", permissionLevel).Error)
	}

	user, err := a.auth.Authenticate(username, "password123")
	assert.NoError(t, err)
	token, err := a.auth.GenerateToken(user)
	assert.NoError(t, err)
	assert.NoError(t, a.auth.CreateSession(user.ID, token))
	return user, token
}

func TestHealthAndInfo(t *testing.T) {
	api := setupAPI(t)

	t.Run("Health", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		data := env.Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "1.0.0", data["version"])
		assert.NotEmpty(t, data["timestamp"])
	})

	t.Run("Info", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/info", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		env := decodeEnvelope(t, w)
		data := env.Data.(map[string]any)
		assert.Equal(t, "Generic API", data["name"])
		assert.Equal(t, "test", data["environment"])
		assert.Contains(t, data["endpoints"], "items")
	})
}

func TestUnknownRoute(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}
