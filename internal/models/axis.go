package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAxis возвращается для оси агрегации вне множества {"by user", "by hotel"}.
var ErrInvalidAxis = errors.New("invalid aggregation axis")

// Axis - ось агрегации бронирований для столбчатой диаграммы.
type Axis string

const (
	// ByUser считает бронирования выбранного клиента по отелям.
	ByUser Axis = "by user"
	// ByHotel считает бронирования выбранного отеля по клиентам.
	ByHotel Axis = "by hotel"
)

// ParseAxis разбирает строковое значение оси.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "by user", "user":
		return ByUser, nil
	case "by hotel", "hotel":
		return ByHotel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAxis, s)
	}
}

// Valid сообщает, что ось входит в допустимое множество.
func (a Axis) Valid() bool {
	return a == ByUser || a == ByHotel
}

// TargetField возвращает имя поля ответа, в котором передаётся выбранная цель.
func (a Axis) TargetField() string {
	if a == ByHotel {
		return "hotel_name"
	}
	return "user_name"
}
