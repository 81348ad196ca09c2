//go:build integration

// Package integration holds end-to-end tests that run against a disposable PostgreSQL container.
// Run with: go test -tags integration ./integration/...
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/iyhunko/product-catalog-service/internal/cache"
	"github.com/iyhunko/product-catalog-service/internal/config"
	httpAPI "github.com/iyhunko/product-catalog-service/internal/http"
	"github.com/iyhunko/product-catalog-service/internal/http/controller"
	reposql "github.com/iyhunko/product-catalog-service/internal/repository/sql"
	"github.com/iyhunko/product-catalog-service/internal/service"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// TestDB holds the test database connection and the container behind it.
type TestDB struct {
	DB       *sql.DB
	Pool     *dockertest.Pool
	Resource *dockertest.Resource
}

// SetupTestDB starts PostgreSQL in docker and applies the migrations of the repository.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=catalog",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	// orphaned containers are removed after 2 minutes
	if err := resource.Expire(120); err != nil {
		t.Fatalf("Could not set expiration: %s", err)
	}

	databaseURL := fmt.Sprintf("postgres://testuser:secret@%s/catalog?sslmode=disable", resource.GetHostPort("5432/tcp"))
	log.Println("Connecting to database on url: ", databaseURL)

	var db *sql.DB
	if err = pool.Retry(func() error {
		var err error
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			return err
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}

	migrationsPath := "../migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		t.Fatalf("Migrations directory not found: %s", migrationsPath)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("Could not create migration driver: %s", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		t.Fatalf("Could not create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("Could not run migrations: %s", err)
	}

	return &TestDB{
		DB:       db,
		Pool:     pool,
		Resource: resource,
	}
}

// Cleanup closes the database connection and purges the container.
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()

	if tdb.DB != nil {
		if err := tdb.DB.Close(); err != nil {
			t.Errorf("Could not close database: %s", err)
		}
	}
	if tdb.Pool != nil && tdb.Resource != nil {
		if err := tdb.Pool.Purge(tdb.Resource); err != nil {
			t.Errorf("Could not purge resource: %s", err)
		}
	}
}

// TruncateTables empties every table.
func (tdb *TestDB) TruncateTables(t *testing.T) {
	t.Helper()

	for _, table := range []string{"events", "products"} {
		if _, err := tdb.DB.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("Could not truncate table %s: %s", table, err)
		}
	}
}

// testApp is the product service wired the way cmd/product-service wires it, minus SQS.
type testApp struct {
	Router   *gin.Engine
	Service  *service.ProductService
	Products *reposql.ProductRepository
	Events   *reposql.EventRepository
	Store    cache.Store
}

func newTestApp(tdb *TestDB, opts ...service.Option) *testApp {
	gin.SetMode(gin.TestMode)

	products := reposql.NewProductRepository(tdb.DB)
	events := reposql.NewEventRepository(tdb.DB)
	store := cache.NewMemoryStore(cache.DefaultMemoryConfig())
	cacheConf := config.Cache{
		Enabled:    true,
		ProductTTL: config.DefaultProductCacheTTL,
		PageTTL:    config.DefaultPageCacheTTL,
	}
	productService := service.NewProductService(products, reposql.NewTransactionalRepository(tdb.DB), store, cacheConf, opts...)

	conf := &config.Config{CORS: config.CORS{AllowedOrigins: config.DefaultCORSAllowedOrigins}}
	router := httpAPI.InitRouter(conf, gin.New(), controller.New(tdb.DB), controller.NewProductController(productService))

	return &testApp{
		Router:   router,
		Service:  productService,
		Products: products,
		Events:   events,
		Store:    store,
	}
}
