// Package aggregator содержит чистые функции агрегации бронирований для графиков дашборда.
//
// Функции не обращаются к хранилищу: на вход получают снимок бронирований с разрешёнными
// ссылками, на выходе отдают отображения, готовые к сохранению в производные записи.
// Бронирования, у которых клиент или пакет не разрешаются, пропускаются и учитываются
// в возвращаемом счётчике skipped.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/magabrotheeeer/staycation/internal/lib/datekey"
	"github.com/magabrotheeeer/staycation/internal/models"
)

// NoIncome - значение-заглушка в ряду отеля для даты без дохода.
// Потребитель графика должен отбрасывать его, а не рисовать как доход -1.
const NoIncome = -1.0

// ComputeDailyIncome суммирует стоимость бронирований по отелю и календарной дате заезда.
func ComputeDailyIncome(bookings []models.Booking) (income models.HotelDateIncome, skipped int) {
	income = models.HotelDateIncome{}
	for _, b := range bookings {
		if !b.Resolved() {
			skipped++
			continue
		}
		hotel := b.Package.HotelName
		date := datekey.Format(b.CheckInDate)

		byDate, ok := income[hotel]
		if !ok {
			byDate = make(map[string]float64)
			income[hotel] = byDate
		}
		byDate[date] += b.TotalCost
	}
	return income, skipped
}

// BuildTrendSeries раскладывает запись дохода в ряды одинаковой длины по общей оси дат.
//
// Для каждого отеля i-й элемент ряда соответствует labels[i]; если в эту дату дохода нет,
// на его месте стоит NoIncome. Для пустой записи возвращаются пустые ряды и метки.
func BuildTrendSeries(rec models.TrendRecord) (chartDim map[string][]float64, labels []string) {
	labels = rec.Dates
	if labels == nil {
		labels = []string{}
	}

	chartDim = make(map[string][]float64, len(rec.Data))
	for hotel, byDate := range rec.Data {
		series := make([]float64, len(labels))
		for i, date := range labels {
			if v, ok := byDate[date]; ok {
				series[i] = v
			} else {
				series[i] = NoIncome
			}
		}
		chartDim[hotel] = series
	}
	return chartDim, labels
}

// ComputeBookingCounts считает бронирования для выбранной цели.
//
// По оси ByUser берутся бронирования клиента с именем target и считаются по отелям,
// по оси ByHotel - бронирования отеля target, посчитанные по именам клиентов.
func ComputeBookingCounts(bookings []models.Booking, axis models.Axis, target string) (counts models.BarCounts, skipped int, err error) {
	const op = "aggregator.ComputeBookingCounts"
	if !axis.Valid() {
		return nil, 0, fmt.Errorf("%s: %w: %q", op, models.ErrInvalidAxis, axis)
	}

	counts = models.BarCounts{}
	for _, b := range bookings {
		if !b.Resolved() {
			skipped++
			continue
		}
		switch axis {
		case models.ByUser:
			if b.Customer.Name == target {
				counts[b.Package.HotelName]++
			}
		case models.ByHotel:
			if b.Package.HotelName == target {
				counts[b.Customer.Name]++
			}
		}
	}
	return counts, skipped, nil
}

// BarSeries возвращает имена сущностей и их счётчики в согласованном порядке (по имени).
func BarSeries(rec models.BarRecord) (names []string, counts []int) {
	names = make([]string, 0, len(rec.Data))
	for name := range rec.Data {
		names = append(names, name)
	}
	sort.Strings(names)

	counts = make([]int, len(names))
	for i, name := range names {
		counts[i] = rec.Data[name]
	}
	return names, counts
}
