package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/staycation/internal/migrations"
	"github.com/magabrotheeeer/staycation/internal/models"
)

const pgPort = nat.Port("5432/tcp")

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_DB":       "staycation",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(pgPort),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/staycation?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to connect after retries")
	t.Cleanup(func() {
		_ = storage.Close()
	})

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))
	return storage
}

// testDataFactory создаёт клиентов, пакеты и бронирования для тестов.
type testDataFactory struct {
	t       *testing.T
	storage *Storage
}

func newTestDataFactory(t *testing.T, storage *Storage) *testDataFactory {
	return &testDataFactory{t: t, storage: storage}
}

func (f *testDataFactory) customer(email, name string) *models.Customer {
	f.t.Helper()
	c := models.Customer{Email: email, Name: name, PasswordHash: "hash", Role: models.RoleUser}
	id, err := f.storage.CreateCustomer(context.Background(), c)
	require.NoError(f.t, err)
	c.ID = id
	return &c
}

func (f *testDataFactory) pkg(hotel string, duration int, unitCost float64) *models.Package {
	f.t.Helper()
	p := models.Package{HotelName: hotel, Duration: duration, UnitCost: unitCost}
	id, err := f.storage.CreatePackage(context.Background(), p)
	require.NoError(f.t, err)
	p.ID = id
	return &p
}

func (f *testDataFactory) booking(checkIn time.Time, c *models.Customer, p *models.Package) int64 {
	f.t.Helper()
	id, err := f.storage.CreateBooking(context.Background(), models.NewBooking(checkIn, c, p))
	require.NoError(f.t, err)
	return id
}
