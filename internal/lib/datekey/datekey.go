// Package datekey приводит даты заезда к календарному ключу вида "YYYY-MM-DD".
package datekey

import (
	"fmt"
	"time"
)

// Layout - формат ключа даты.
const Layout = "2006-01-02"

// Format возвращает календарную дату в UTC без времени суток.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse разбирает ключ даты в полночь UTC.
func Parse(s string) (time.Time, error) {
	const op = "datekey.Parse"
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
