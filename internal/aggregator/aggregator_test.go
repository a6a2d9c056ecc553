package aggregator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/staycation/internal/models"
)

func booking(customer, hotel string, checkIn time.Time, cost float64) models.Booking {
	return models.Booking{
		CheckInDate: checkIn,
		TotalCost:   cost,
		Customer:    &models.Customer{Name: customer, Email: customer + "@example.com"},
		Package:     &models.Package{HotelName: hotel},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeDailyIncome(t *testing.T) {
	bookings := []models.Booking{
		booking("alice", "A", day(2022, 1, 1), 100),
		booking("bob", "A", day(2022, 1, 1).Add(15*time.Hour), 50),
		booking("alice", "B", day(2022, 1, 2), 200),
	}

	income, skipped := ComputeDailyIncome(bookings)

	assert.Zero(t, skipped)
	assert.Equal(t, models.HotelDateIncome{
		"A": {"2022-01-01": 150},
		"B": {"2022-01-02": 200},
	}, income)
}

func TestComputeDailyIncome_Empty(t *testing.T) {
	income, skipped := ComputeDailyIncome(nil)

	assert.Zero(t, skipped)
	assert.NotNil(t, income)
	assert.Empty(t, income)
}

func TestComputeDailyIncome_SkipsUnresolved(t *testing.T) {
	orphan := booking("alice", "A", day(2022, 1, 1), 100)
	orphan.Package = nil
	noCustomer := booking("bob", "A", day(2022, 1, 1), 70)
	noCustomer.Customer = nil

	income, skipped := ComputeDailyIncome([]models.Booking{
		orphan,
		noCustomer,
		booking("carol", "A", day(2022, 1, 1), 30),
	})

	assert.Equal(t, 2, skipped)
	assert.Equal(t, models.HotelDateIncome{"A": {"2022-01-01": 30}}, income)
}

func TestComputeDailyIncome_ConservesTotalAndIgnoresOrder(t *testing.T) {
	hotels := []string{"Capella", "Raffles", "Shangri-La"}
	rnd := rand.New(rand.NewSource(42))

	var bookings []models.Booking
	totals := map[string]float64{}
	for i := 0; i < 200; i++ {
		hotel := hotels[rnd.Intn(len(hotels))]
		cost := float64(rnd.Intn(10)+1) * 50
		bookings = append(bookings, booking("u", hotel, day(2022, 1, 1+rnd.Intn(20)), cost))
		totals[hotel] += cost
	}

	income, _ := ComputeDailyIncome(bookings)
	for hotel, want := range totals {
		var got float64
		for _, v := range income[hotel] {
			got += v
		}
		assert.InDelta(t, want, got, 1e-9, hotel)
	}

	shuffled := append([]models.Booking(nil), bookings...)
	rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	again, _ := ComputeDailyIncome(shuffled)
	assert.Equal(t, income, again)
}

func TestBuildTrendSeries(t *testing.T) {
	income, _ := ComputeDailyIncome([]models.Booking{
		booking("alice", "A", day(2022, 1, 1), 100),
		booking("bob", "A", day(2022, 1, 1), 50),
		booking("alice", "B", day(2022, 1, 2), 200),
	})

	chartDim, labels := BuildTrendSeries(models.NewTrendRecord(income))

	assert.Equal(t, []string{"2022-01-01", "2022-01-02"}, labels)
	assert.Equal(t, map[string][]float64{
		"A": {150, NoIncome},
		"B": {NoIncome, 200},
	}, chartDim)
}

func TestBuildTrendSeries_SentinelIffNoBooking(t *testing.T) {
	income := models.HotelDateIncome{
		"A": {"2022-01-01": 10, "2022-01-05": 20},
		"B": {"2022-01-03": 30},
		"C": {"2022-01-01": 5, "2022-01-03": 5, "2022-01-05": 5},
	}

	chartDim, labels := BuildTrendSeries(models.NewTrendRecord(income))

	require.Len(t, labels, 3)
	for hotel, series := range chartDim {
		require.Len(t, series, len(labels), hotel)
		for i, label := range labels {
			_, booked := income[hotel][label]
			assert.Equal(t, !booked, series[i] == NoIncome, "%s at %s", hotel, label)
		}
	}
}

func TestBuildTrendSeries_Empty(t *testing.T) {
	chartDim, labels := BuildTrendSeries(models.NewTrendRecord(models.HotelDateIncome{}))

	assert.NotNil(t, chartDim)
	assert.Empty(t, chartDim)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
}

func TestComputeBookingCounts(t *testing.T) {
	bookings := []models.Booking{
		booking("alice", "X", day(2022, 1, 1), 100),
		booking("alice", "X", day(2022, 1, 9), 100),
		booking("alice", "Y", day(2022, 1, 3), 100),
		booking("bob", "X", day(2022, 1, 4), 100),
	}

	tests := []struct {
		name   string
		axis   models.Axis
		target string
		want   models.BarCounts
	}{
		{name: "by user", axis: models.ByUser, target: "alice", want: models.BarCounts{"X": 2, "Y": 1}},
		{name: "by hotel", axis: models.ByHotel, target: "X", want: models.BarCounts{"alice": 2, "bob": 1}},
		{name: "unknown target", axis: models.ByUser, target: "nobody", want: models.BarCounts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := ComputeBookingCounts(bookings, tt.axis, tt.target)
			require.NoError(t, err)
			assert.Zero(t, skipped)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeBookingCounts_MatchesDirectTally(t *testing.T) {
	users := []string{"alice", "bob", "carol"}
	hotels := []string{"X", "Y", "Z"}
	rnd := rand.New(rand.NewSource(7))

	var bookings []models.Booking
	for i := 0; i < 100; i++ {
		bookings = append(bookings, booking(users[rnd.Intn(3)], hotels[rnd.Intn(3)], day(2022, 3, 1), 1))
	}

	for _, user := range users {
		want := models.BarCounts{}
		for _, b := range bookings {
			if b.Customer.Name == user {
				want[b.Package.HotelName]++
			}
		}
		got, _, err := ComputeBookingCounts(bookings, models.ByUser, user)
		require.NoError(t, err)
		assert.Equal(t, want, got, user)
	}
}

func TestComputeBookingCounts_InvalidAxis(t *testing.T) {
	got, _, err := ComputeBookingCounts(nil, models.Axis("by month"), "alice")

	assert.ErrorIs(t, err, models.ErrInvalidAxis)
	assert.Nil(t, got)
}

func TestComputeBookingCounts_SkipsUnresolved(t *testing.T) {
	orphan := booking("alice", "X", day(2022, 1, 1), 100)
	orphan.Customer = nil

	got, skipped, err := ComputeBookingCounts([]models.Booking{
		orphan,
		booking("alice", "X", day(2022, 1, 2), 100),
	}, models.ByHotel, "X")

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, models.BarCounts{"alice": 1}, got)
}

func TestBarSeries(t *testing.T) {
	names, counts := BarSeries(models.BarRecord{
		Axis:   models.ByUser,
		Target: "alice",
		Data:   models.BarCounts{"Y": 1, "X": 2, "Raffles": 5},
	})

	assert.Equal(t, []string{"Raffles", "X", "Y"}, names)
	assert.Equal(t, []int{5, 2, 1}, counts)

	names, counts = BarSeries(models.BarRecord{})
	assert.Empty(t, names)
	assert.Empty(t, counts)
}
