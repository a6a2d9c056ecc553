package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/staycation/internal/lib/datekey"
)

// ErrInvalidRecord возвращается, если производная запись графика нарушает свои инварианты.
var ErrInvalidRecord = errors.New("invalid chart record")

// HotelDateIncome - доход по отелям и датам: отель -> "YYYY-MM-DD" -> сумма.
type HotelDateIncome map[string]map[string]float64

// BarCounts - количество бронирований по сущности (клиенту или отелю).
type BarCounts map[string]int

// TrendRecord - снимок дохода отелей по датам для линейного графика.
type TrendRecord struct {
	ID        string          `json:"id"`
	Dates     []string        `json:"dates"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	Data      HotelDateIncome `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTrendRecord строит запись из агрегированного дохода: уникальные даты по возрастанию,
// первая и последняя дата. Для пустого дохода даты пустые, а границы не заданы.
func NewTrendRecord(data HotelDateIncome) TrendRecord {
	seen := make(map[string]struct{})
	for _, byDate := range data {
		for date := range byDate {
			seen[date] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if data == nil {
		data = HotelDateIncome{}
	}
	rec := TrendRecord{Dates: dates, Data: data}
	if len(dates) == 0 {
		return rec
	}
	// ключи приходят из datekey.Format, ошибки разбора здесь не бывает
	start, _ := datekey.Parse(dates[0])
	end, _ := datekey.Parse(dates[len(dates)-1])
	rec.StartDate, rec.EndDate = &start, &end
	return rec
}

// Validate проверяет инварианты записи перед сохранением.
func (r TrendRecord) Validate() error {
	for i, date := range r.Dates {
		if _, err := datekey.Parse(date); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidRecord, date)
		}
		if i > 0 && r.Dates[i-1] >= date {
			return fmt.Errorf("%w: dates are not strictly ascending at %q", ErrInvalidRecord, date)
		}
	}

	if len(r.Dates) == 0 {
		if r.StartDate != nil || r.EndDate != nil {
			return fmt.Errorf("%w: bounds set for empty dates", ErrInvalidRecord)
		}
	} else {
		if r.StartDate == nil || datekey.Format(*r.StartDate) != r.Dates[0] {
			return fmt.Errorf("%w: start date does not match first date", ErrInvalidRecord)
		}
		if r.EndDate == nil || datekey.Format(*r.EndDate) != r.Dates[len(r.Dates)-1] {
			return fmt.Errorf("%w: end date does not match last date", ErrInvalidRecord)
		}
	}

	known := make(map[string]struct{}, len(r.Dates))
	for _, date := range r.Dates {
		known[date] = struct{}{}
	}
	for hotel, byDate := range r.Data {
		for date, income := range byDate {
			if _, ok := known[date]; !ok {
				return fmt.Errorf("%w: hotel %q has date %q outside of dates", ErrInvalidRecord, hotel, date)
			}
			if math.IsNaN(income) || math.IsInf(income, 0) {
				return fmt.Errorf("%w: hotel %q has non-finite income on %q", ErrInvalidRecord, hotel, date)
			}
			if income < 0 {
				return fmt.Errorf("%w: hotel %q has negative income on %q", ErrInvalidRecord, hotel, date)
			}
		}
	}
	return nil
}

// BarRecord - снимок количества бронирований по сущностям для выбранной цели и оси.
type BarRecord struct {
	ID        string    `json:"id"`
	Axis      Axis      `json:"axis"`
	Target    string    `json:"target"`
	Data      BarCounts `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate проверяет инварианты записи перед сохранением.
func (r BarRecord) Validate() error {
	if !r.Axis.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidAxis)
	}
	if r.Target == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidRecord)
	}
	for name, count := range r.Data {
		if count < 1 {
			return fmt.Errorf("%w: entity %q has count %d", ErrInvalidRecord, name, count)
		}
	}
	return nil
}
