// Package trend реализует HTTP-обработчик графика дневного дохода отелей.
package trend

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/services/dashboard"
)

// Service построение графика дохода.
type Service interface {
	TrendChart(ctx context.Context) (*dashboard.TrendPayload, error)
}

// Handler отдаёт данные графика в виде {chartDim, labels}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary График дохода по дням
// @Description Для каждого отеля ряд дохода по всем датам бронирований, -1 означает отсутствие бронирований в этот день.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dashboard.TrendPayload
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard/trend_chart [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.trend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := h.service.TrendChart(r.Context())
	if err != nil {
		log.Error("failed to build trend chart", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build trend chart"))
		return
	}

	log.Debug("trend chart built", slog.Int("hotels", len(payload.ChartDim)), slog.Int("dates", len(payload.Labels)))
	render.JSON(w, r, payload)
}
