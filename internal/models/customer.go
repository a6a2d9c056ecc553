// Package models содержит доменные структуры портала: клиентов, пакеты проживания,
// бронирования и производные записи для графиков на дашборде.
package models

import "time"

// RoleAdmin и RoleUser - роли клиентов портала.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminName - отображаемое имя служебного пользователя, которое не показывается в списках дашборда.
const AdminName = "Admin"

// Customer представляет зарегистрированного клиента портала.
type Customer struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"` // Уникальный ключ клиента
	Name         string    `json:"name"`  // Отображаемое имя
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
