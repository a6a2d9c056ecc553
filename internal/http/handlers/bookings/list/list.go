// Package list реализует HTTP-обработчик списка бронирований текущего клиента.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/middlewarectx"
	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
)

// Service бронирования клиента.
type Service interface {
	ListForCustomer(ctx context.Context, identity models.Identity) ([]models.Booking, error)
}

// Handler отдаёт бронирования клиента из токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои бронирования
// @Tags Bookings
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Бронирования по дате заезда"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bookings, err := h.service.ListForCustomer(r.Context(), identity)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	render.JSON(w, r, response.OKWithData(bookings))
}
