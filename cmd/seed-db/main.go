// Command seed-db loads development fixtures: user accounts, their bearer
// tokens, and a starter product catalog.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/campuskart/campuskart/internal/domain/auth"
	"github.com/campuskart/campuskart/internal/domain/product"
	"github.com/campuskart/campuskart/internal/domain/user"
	"github.com/campuskart/campuskart/internal/storage/postgres"
)

type fixtures struct {
	Users    []userJSON    `json:"users"`
	Products []productJSON `json:"products"`
}

type userJSON struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	// Token is the plaintext bearer token; only its SHA-256 hash is stored.
	Token string `json:"token"`
}

type productJSON struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"sellerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

func main() {
	var (
		databaseURL  string
		fixturesFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&fixturesFile, "fixtures-file", "db/seed/fixtures.json", "path to fixtures JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, fixturesFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, fixturesFile string) error {
	slog.Info("reading fixtures file", slog.String("path", fixturesFile))

	data, err := os.ReadFile(fixturesFile)
	if err != nil {
		return errors.Wrap(err, "read fixtures file")
	}
	var fx fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return errors.Wrap(err, "parse fixtures JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedUsers(ctx, postgres.NewUserRepository(pool), postgres.NewTokenRepository(pool), fx.Users); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedProducts(ctx, postgres.NewProductRepository(pool), fx.Products); err != nil {
		return errors.Wrap(err, "seed products")
	}
	return nil
}

func seedUsers(ctx context.Context, users *postgres.UserRepository, tokens *postgres.TokenRepository, list []userJSON) error {
	slog.Info("seeding users", slog.Int("count", len(list)))

	for _, u := range list {
		err := users.Upsert(ctx, &user.User{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		})
		if err != nil {
			return errors.Wrapf(err, "upsert user %s", u.Email)
		}

		sum := sha256.Sum256([]byte(u.Token))
		err = tokens.Insert(ctx, auth.TokenInfo{
			UserID:    u.ID,
			TokenHash: hex.EncodeToString(sum[:]),
		})
		if err != nil {
			return errors.Wrapf(err, "insert token for %s", u.Email)
		}

		slog.Info("seeded user", slog.String("id", u.ID), slog.String("email", u.Email))
	}
	return nil
}

func seedProducts(ctx context.Context, products *postgres.ProductRepository, list []productJSON) error {
	slog.Info("seeding products", slog.Int("count", len(list)))

	now := time.Now().UTC()
	for _, p := range list {
		err := products.Upsert(ctx, &product.Product{
			ID:          p.ID,
			SellerID:    p.SellerID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			CreatedAt:   now,
		})
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("seeded product", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}
