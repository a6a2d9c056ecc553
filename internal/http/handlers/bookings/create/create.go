// Package create реализует HTTP-обработчик бронирования пакета текущим клиентом.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/staycation/internal/http/middlewarectx"
	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/datekey"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/booking"
)

// Request дата заезда в формате YYYY-MM-DD.
type Request struct {
	CheckInDate string `json:"check_in_date" validate:"required"`
}

// Service бизнес-логика бронирования.
type Service interface {
	Create(ctx context.Context, identity models.Identity, hotelName string, checkIn time.Time) (*models.Booking, error)
}

// Handler обрабатывает запросы бронирования.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Забронировать пакет
// @Description Бронирует пакет отеля для текущего клиента. Стоимость равна цене ночи, умноженной на длительность.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param hotel path string true "Название отеля"
// @Param request body Request true "Дата заезда"
// @Success 201 {object} response.Response "Бронирование создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /packages/{hotel}/bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.create"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err))
		return
	}
	checkIn, err := datekey.Parse(req.CheckInDate)
	if err != nil {
		log.Warn("invalid check-in date", slog.String("check_in_date", req.CheckInDate))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("check_in_date must be in format YYYY-MM-DD"))
		return
	}

	hotel := chi.URLParam(r, "hotel")
	b, err := h.service.Create(r.Context(), identity, hotel, checkIn)
	switch {
	case errors.Is(err, booking.ErrPackageNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("package not found"))
		return
	case errors.Is(err, booking.ErrCustomerNotFound):
		log.Warn("token owner no longer exists", slog.String("email", identity.Email))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	case err != nil:
		log.Error("failed to create booking", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create booking"))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(b))
}
