package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-api/config"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "Demo!Passw0rd"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if cfg.RunMigrations {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	u, created, err := seedUser(ctx, users, cfg.BcryptCost)
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, demoPassword)
	if !created {
		fmt.Println("user already existed; skipping welcome post")
		return
	}

	p := &entity.Post{
		Title:    "Welcome",
		Summary:  "Your blog is up and running.",
		Image:    "https://picsum.photos/seed/welcome/800/400",
		Content:  "This post was created by the seeder. Log in as the demo user to edit or delete it.",
		AuthorID: u.ID,
	}
	if err := posts.Create(ctx, p); err != nil {
		logger.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%s title=%q\n", p.ID, p.Title)
}

// seedUser makes sure the verified demo account exists and reports whether it was created now.
func seedUser(ctx context.Context, users repo.UserRepository, cost int) (*entity.User, bool, error) {
	existing, err := users.GetByEmail(ctx, demoEmail)
	if err == nil {
		if !existing.IsVerified {
			if err := users.SetVerified(ctx, existing.ID); err != nil {
				return nil, false, err
			}
			existing.IsVerified = true
		}
		return existing, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	hash, err := helpers.HashPassword(demoPassword, cost)
	if err != nil {
		return nil, false, err
	}
	u := &entity.User{Email: demoEmail, Password: hash, IsVerified: true}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
