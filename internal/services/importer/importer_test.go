package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/staycation/internal/lib/logger"
	"github.com/magabrotheeeer/staycation/internal/lib/password"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateCustomer(ctx context.Context, c models.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockRepo) CreatePackage(ctx context.Context, p models.Package) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetPackageByHotel(ctx context.Context, hotelName string) (*models.Package, error) {
	args := m.Called(ctx, hotelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockRepo) CreateBooking(ctx context.Context, b models.Booking) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) InvalidatePackages(ctx context.Context, hotelNames ...string) error {
	return m.Called(ctx, hotelNames).Error(0)
}

func newService(repo *MockRepo, catalog CatalogInvalidator) *Service {
	return New(repo, catalog, metrics.New(prometheus.NewRegistry()), logger.NewNoop())
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in   string
		want DataType
	}{
		{in: "staycation", want: Staycation},
		{in: "Staycations", want: Staycation},
		{in: " booking ", want: Booking},
		{in: "USERS", want: User},
	}
	for _, tt := range tests {
		got, err := ParseDataType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDataType("payments")
	assert.ErrorIs(t, err, ErrUnknownDataType)
}

func TestImport_Staycations(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	catalog := new(MockCatalog)

	csv := "hotel_name,duration,unit_cost,image_url,description\n" +
		"Raffles,2,500.5,https://img/raffles.jpg,Colonial classic\n" +
		"Capella,3,400,,\n" +
		"Raffles,1,100,,duplicate\n" +
		"Broken,two,100,,\n" +
		",1,100,,no name\n"

	repo.On("CreatePackage", ctx, models.Package{
		HotelName: "Raffles", Duration: 2, UnitCost: 500.5,
		ImageURL: "https://img/raffles.jpg", Description: "Colonial classic",
	}).Return(int64(1), nil).Once()
	repo.On("CreatePackage", ctx, models.Package{HotelName: "Capella", Duration: 3, UnitCost: 400}).
		Return(int64(2), nil).Once()
	repo.On("CreatePackage", ctx, models.Package{HotelName: "Raffles", Duration: 1, UnitCost: 100, Description: "duplicate"}).
		Return(int64(0), fmt.Errorf("repository.CreatePackage: %w", repository.ErrAlreadyExists)).Once()
	catalog.On("InvalidatePackages", ctx, []string{"Raffles", "Capella"}).Return(nil)

	res, err := newService(repo, catalog).Import(ctx, Staycation, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 3}, res)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestStaycationRow_ToPackageRejects(t *testing.T) {
	tests := []struct {
		name string
		row  staycationRow
	}{
		{name: "nan cost", row: staycationRow{HotelName: "A", Duration: "2", UnitCost: "NaN"}},
		{name: "infinite cost", row: staycationRow{HotelName: "A", Duration: "2", UnitCost: "Inf"}},
		{name: "negative infinite cost", row: staycationRow{HotelName: "A", Duration: "2", UnitCost: "-Inf"}},
		{name: "total overflows", row: staycationRow{HotelName: "A", Duration: "2", UnitCost: "1e308"}},
		{name: "negative cost", row: staycationRow{HotelName: "A", Duration: "2", UnitCost: "-1"}},
		{name: "duration above integer column", row: staycationRow{HotelName: "A", Duration: "3000000000", UnitCost: "10"}},
		{name: "negative duration", row: staycationRow{HotelName: "A", Duration: "-1", UnitCost: "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.row.toPackage()
			assert.Error(t, err)
		})
	}

	p, err := staycationRow{HotelName: "A", Duration: "1", UnitCost: "1e308"}.toPackage()
	require.NoError(t, err)
	assert.Equal(t, 1e308, p.TotalCost())
}

func TestImport_StaycationsSkipsOutOfRangeValues(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)

	csv := "hotel_name,duration,unit_cost,image_url,description\n" +
		"Nan Hotel,2,NaN,,\n" +
		"Inf Hotel,2,+Inf,,\n" +
		"Huge Hotel,2,1e308,,\n" +
		"Long Stay,3000000000,10,,\n"

	res, err := newService(repo, nil).Import(ctx, Staycation, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 4}, res)
	repo.AssertNotCalled(t, "CreatePackage", mock.Anything, mock.Anything)
}

func TestImport_Bookings(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)

	alice := &models.Customer{ID: 1, Email: "alice@example.com", Name: "alice"}
	raffles := &models.Package{ID: 5, HotelName: "Raffles", Duration: 2, UnitCost: 500}

	csv := "check_in_date,customer,hotel_name\n" +
		"2022-01-01,alice@example.com,Raffles\n" +
		"2022-01-02 14:00:00,Alice@Example.com,Raffles\n" +
		"2022-01-03,ghost@example.com,Raffles\n" +
		"2022-01-04,alice@example.com,Nowhere\n" +
		"yesterday,alice@example.com,Raffles\n"

	repo.On("GetCustomerByEmail", ctx, "alice@example.com").Return(alice, nil).Once()
	repo.On("GetCustomerByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()
	repo.On("GetPackageByHotel", ctx, "Raffles").Return(raffles, nil).Once()
	repo.On("GetPackageByHotel", ctx, "Nowhere").Return(nil, repository.ErrNotFound).Once()
	repo.On("CreateBooking", ctx, mock.MatchedBy(func(b models.Booking) bool {
		return b.TotalCost == 1000 && *b.CustomerID == 1 && *b.PackageID == 5
	})).Return(int64(1), nil).Twice()

	res, err := newService(repo, nil).Import(ctx, Booking, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 3}, res)
	repo.AssertExpectations(t)
}

func TestImport_BookingsStorageError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	dbErr := errors.New("connection refused")
	repo.On("GetCustomerByEmail", ctx, "alice@example.com").Return(nil, dbErr)

	csv := "check_in_date,customer,hotel_name\n2022-01-01,alice@example.com,Raffles\n"
	_, err := newService(repo, nil).Import(ctx, Booking, strings.NewReader(csv))
	assert.ErrorIs(t, err, dbErr)
}

func TestImport_Users(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)

	csv := "email,password,name\n" +
		"alice@example.com,s3cret,alice\n" +
		"bob@example.com,hunter2,bob\n" +
		"carol@example.com,,carol\n"

	repo.On("CreateCustomer", ctx, mock.MatchedBy(func(c models.Customer) bool {
		return c.Email == "alice@example.com" && password.CompareHash(c.PasswordHash, "s3cret") == nil
	})).Return(int64(1), nil).Once()
	repo.On("CreateCustomer", ctx, mock.MatchedBy(func(c models.Customer) bool {
		return c.Email == "bob@example.com"
	})).Return(int64(0), repository.ErrAlreadyExists).Once()

	res, err := newService(repo, nil).Import(ctx, User, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Skipped: 2}, res)
	repo.AssertExpectations(t)
}

func TestImport_UnknownType(t *testing.T) {
	_, err := newService(new(MockRepo), nil).Import(context.Background(), "payments", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnknownDataType)
}

func TestParseCheckIn(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2022-01-01", want: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2022-01-01 15:30:00", want: time.Date(2022, 1, 1, 15, 30, 0, 0, time.UTC)},
		{in: "2022-01-01T15:30:00Z", want: time.Date(2022, 1, 1, 15, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseCheckIn(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := ParseCheckIn("01/02/2022")
	assert.Error(t, err)
}
