package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pindrop/internal/config"
	"pindrop/internal/pin"
	"pindrop/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&user.User{}, &pin.Pin{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := dbConn.Exec("DELETE FROM users").Error; err != nil {
		t.Fatalf("failed to reset users table: %v", err)
	}
	if err := dbConn.Exec("DELETE FROM pins").Error; err != nil {
		t.Fatalf("failed to reset pins table: %v", err)
	}
	return dbConn
}

func seedUser(t *testing.T, dbConn *gorm.DB, username string, role user.Role) user.User {
	u := user.User{Username: username, PasswordHash: "hash", Role: role}
	if err := dbConn.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	cfg.Geofence.SouthWest = config.Coordinate{Lat: 29.62725, Lng: -82.37236}
	cfg.Geofence.NorthEast = config.Coordinate{Lat: 29.66, Lng: -82.30}
	cfg.Pins.DefaultDurationMinutes = 60
	return cfg
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignupHandler_MissingFields(t *testing.T) {
	dbConn := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/signup", SignupHandler(dbConn))

	w := postJSON(t, r, "/signup", map[string]string{"username": "nopassword"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing password, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSignupHandler_Success(t *testing.T) {
	dbConn := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/signup", SignupHandler(dbConn))

	w := postJSON(t, r, "/signup", map[string]string{"username": "newuser", "password": "pw123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var u user.User
	if err := dbConn.Where("username = ?", "newuser").First(&u).Error; err != nil {
		t.Fatalf("expected user persisted: %v", err)
	}
	if u.Role != user.RoleUser {
		t.Errorf("expected role user, got %s", u.Role)
	}
	if u.PasswordHash == "pw123" || u.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}
	if u.ID == "" {
		t.Errorf("expected server-assigned id")
	}
}

func TestSignupHandler_DuplicateUsername(t *testing.T) {
	dbConn := setupTestDB(t)
	seedUser(t, dbConn, "dupeuser", user.RoleUser)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/signup", SignupHandler(dbConn))

	w := postJSON(t, r, "/signup", map[string]string{"username": "dupeuser", "password": "pw"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict for duplicate username, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_UnknownUser(t *testing.T) {
	dbConn := setupTestDB(t)
	seedUser(t, dbConn, "someone", user.RoleUser)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(testConfig(), dbConn))

	w := postJSON(t, r, "/login", map[string]string{"username": "nobody", "password": "pw"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	dbConn := setupTestDB(t)
	hash, _ := user.HashPassword("rightpw")
	u := user.User{Username: "loginuser", PasswordHash: hash, Role: user.RoleUser}
	if err := dbConn.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(testConfig(), dbConn))

	w := postJSON(t, r, "/login", map[string]string{"username": "loginuser", "password": "wrongpw"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d: %s", w.Code, w.Body.String())
	}
	// Same message as unknown user, so the response never confirms the account
	if !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Errorf("expected uniform credentials error, got: %s", w.Body.String())
	}
}

func TestLoginHandler_Success(t *testing.T) {
	dbConn := setupTestDB(t)
	hash, _ := user.HashPassword("mypw")
	u := user.User{Username: "gooduser", PasswordHash: hash, Role: user.RoleUser}
	if err := dbConn.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(testConfig(), dbConn))

	w := postJSON(t, r, "/login", map[string]string{"username": "gooduser", "password": "mypw"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for valid login, got %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Errorf("expected token in response, got: %s", w.Body.String())
	}
	if resp.Username != "gooduser" {
		t.Errorf("expected username in response, got: %s", w.Body.String())
	}
}
