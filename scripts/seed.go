//go:build ignore

package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/database"
	"github.com/hugh/go-roster/internal/store"
	"github.com/hugh/go-roster/pkg/config"
	"github.com/hugh/go-roster/pkg/credential"
	"github.com/hugh/go-roster/pkg/util"
	"github.com/joho/godotenv"
)

var demoRoles = []struct {
	name        string
	description string
}{
	{"Usuario", "Basic user role"},
	{"Moderador", "Role with moderation permissions"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	svc := accounts.NewService(store.New(db), credential.NewBcryptHasher(cfg.Security.BcryptCost), logger)
	ctx := context.Background()

	for _, r := range demoRoles {
		desc := r.description
		_, err := svc.CreateRole(ctx, accounts.RoleInput{Name: r.name, Description: &desc})
		switch {
		case err == nil:
			log.Printf("created role %s", r.name)
		case errors.Is(err, accounts.ErrDuplicateRoleName):
			log.Printf("role %s already exists", r.name)
		default:
			log.Fatalf("failed to create role %s: %v", r.name, err)
		}
	}

	email := envOr("ADMIN_EMAIL", "admin@sistema.com")
	adminDesc := "Role with full system access"

	res, err := svc.CreateUserWithRole(ctx, accounts.CreateUserWithRoleInput{
		Name:     envOr("ADMIN_NAME", "System Administrator"),
		Email:    email,
		Password: envOr("ADMIN_PASSWORD", "admin123"),
		Role:     accounts.RoleInput{Name: "Administrador", Description: &adminDesc},
	})
	if errors.Is(err, accounts.ErrDuplicateEmail) {
		log.Printf("admin user %s already exists", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	log.Printf("admin user created: %s (role %s)", res.User.Email, res.User.PrimaryRole.Name)
	if os.Getenv("ADMIN_PASSWORD") == "" {
		log.Println("default admin password in use, change it")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
