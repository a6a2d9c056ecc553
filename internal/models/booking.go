package models

import "time"

// Booking представляет бронирование пакета клиентом.
//
// CustomerID и PackageID равны nil, если клиент или пакет были удалены после бронирования.
// Customer и Package заполняются хранилищем при чтении, если ссылки разрешаются.
type Booking struct {
	ID          int64     `json:"id"`
	CheckInDate time.Time `json:"check_in_date"`
	CustomerID  *int64    `json:"customer_id,omitempty"`
	PackageID   *int64    `json:"package_id,omitempty"`
	TotalCost   float64   `json:"total_cost"`
	CreatedAt   time.Time `json:"created_at"`

	Customer *Customer `json:"customer,omitempty"`
	Package  *Package  `json:"package,omitempty"`
}

// NewBooking создаёт бронирование и вычисляет его стоимость по пакету.
func NewBooking(checkIn time.Time, customer *Customer, pkg *Package) Booking {
	return Booking{
		CheckInDate: checkIn,
		CustomerID:  &customer.ID,
		PackageID:   &pkg.ID,
		TotalCost:   pkg.TotalCost(),
		Customer:    customer,
		Package:     pkg,
	}
}

// Resolved сообщает, что обе ссылки бронирования разрешены.
func (b Booking) Resolved() bool {
	return b.Customer != nil && b.Package != nil
}

// BookingCreated - событие о новом бронировании, публикуемое в RabbitMQ.
type BookingCreated struct {
	BookingID   int64     `json:"booking_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	HotelName   string    `json:"hotel_name"`
	CheckInDate time.Time `json:"check_in_date"`
	TotalCost   float64   `json:"total_cost"`
}
