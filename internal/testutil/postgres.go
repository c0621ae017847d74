package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/VictorPortugues07/Xis-Clique/internal/db"
)

const (
	dbUser     = "storefront"
	dbPassword = "storefront"
	dbName     = "storefront"
)

// StartPostgres launches a throwaway Postgres container, applies the schema,
// and returns a database handle. Tests are skipped when docker is not
// available on the host.
func StartPostgres(ctx context.Context, t *testing.T) *sql.DB {
	t.Helper()
	requireDocker(t)

	containerName := "storefront-int-" + uuid.NewString()
	runArgs := []string{
		"run", "--rm", "-d",
		"-e", fmt.Sprintf("POSTGRES_USER=%s", dbUser),
		"-e", fmt.Sprintf("POSTGRES_PASSWORD=%s", dbPassword),
		"-e", fmt.Sprintf("POSTGRES_DB=%s", dbName),
		"-P",
		"--name", containerName,
		"postgres:16-alpine",
	}
	if err := dockerRun(ctx, runArgs); err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = dockerStop(containerName)
	})

	hostPort := waitForPort(ctx, t, containerName, "5432/tcp")
	dsn := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", dbUser, dbPassword, hostPort, dbName)

	database := waitForPostgres(ctx, t, dsn)
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(dsn, log.New(io.Discard, "", 0)); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return database
}

func waitForPostgres(ctx context.Context, t *testing.T, dsn string) *sql.DB {
	t.Helper()

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		database, err := sql.Open("postgres", dsn)
		if err == nil {
			if err := database.PingContext(ctx); err == nil {
				return database
			}
			_ = database.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}

	t.Fatalf("postgres at %s did not become ready in time", dsn)
	return nil
}
