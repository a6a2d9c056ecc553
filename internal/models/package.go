package models

// Package представляет пакет проживания (staycation) в отеле.
type Package struct {
	ID          int64   `json:"id"`
	HotelName   string  `json:"hotel_name"` // Уникальный ключ для поиска
	Duration    int     `json:"duration"`   // Количество ночей
	UnitCost    float64 `json:"unit_cost"`  // Стоимость одной ночи
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// TotalCost возвращает полную стоимость пакета: стоимость ночи, умноженная на длительность.
func (p Package) TotalCost() float64 {
	return p.UnitCost * float64(p.Duration)
}
