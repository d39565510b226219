package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/database"
	"github.com/hugh/go-roster/internal/database/models"
	"github.com/hugh/go-roster/internal/store"
	"github.com/hugh/go-roster/pkg/credential"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with foreign keys on.
// A single connection keeps every statement on the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestHasher is bcrypt at its minimum cost.
func TestHasher() credential.Hasher {
	return credential.NewBcryptHasher(bcrypt.MinCost)
}

// CreateTestRole creates a role with the given name
func CreateTestRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()

	role := &models.Role{
		Base:   models.Base{ID: uuid.New()},
		Name:   name,
		Active: true,
	}

	if err := db.Create(role).Error; err != nil {
		t.Fatalf("failed to create test role: %v", err)
	}

	return role
}

// CreateTestUser creates an active user whose password is "testpassword123".
// primaryRole may be nil.
func CreateTestUser(t *testing.T, db *gorm.DB, primaryRole *models.Role) *models.User {
	t.Helper()

	hash, err := TestHasher().Hash("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Name:         "Test User",
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Active:       true,
	}
	if primaryRole != nil {
		user.PrimaryRoleID = &primaryRole.ID
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestProfile attaches a profile to user
func CreateTestProfile(t *testing.T, db *gorm.DB, user *models.User, bio, avatarURL string) *models.Profile {
	t.Helper()

	profile := &models.Profile{UserID: user.ID}
	if bio != "" {
		profile.Bio = &bio
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}

	return profile
}

// AssignTestRole adds role to each user through the association table
func AssignTestRole(t *testing.T, db *gorm.DB, role *models.Role, users ...*models.User) {
	t.Helper()

	for _, u := range users {
		if err := db.Create(&models.UserRole{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
			t.Fatalf("failed to assign test role: %v", err)
		}
	}
}

// RowCounts is a snapshot of every table's size.
type RowCounts struct {
	Users     int64
	Roles     int64
	Profiles  int64
	UserRoles int64
}

// CountRows snapshots the table sizes, for atomicity assertions.
func CountRows(t *testing.T, db *gorm.DB) RowCounts {
	t.Helper()

	var c RowCounts
	for _, target := range []struct {
		model any
		dest  *int64
	}{
		{&models.User{}, &c.Users},
		{&models.Role{}, &c.Roles},
		{&models.Profile{}, &c.Profiles},
		{&models.UserRole{}, &c.UserRoles},
	} {
		if err := db.Model(target.model).Count(target.dest).Error; err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
	}
	return c
}

// JSONRequest creates an HTTP request with a JSON body
func JSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB      *gorm.DB
	Store   *store.Store
	Service *accounts.Service
	Logger  *slog.Logger
}

// NewTestContext creates a DB, a store over it and an account service
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	log := DiscardLogger()
	st := store.New(db)

	return &TestSetup{
		DB:      db,
		Store:   st,
		Service: accounts.NewService(st, TestHasher(), log),
		Logger:  log,
	}
}
