// Package bar реализует HTTP-обработчики столбчатых диаграмм количества бронирований.
//
// Цель передаётся JSON-телом или полем формы: username для оси "by user",
// hotelname для оси "by hotel", пара axis и target для произвольной оси.
package bar

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/dashboard"
)

// Service построение столбчатой диаграммы.
type Service interface {
	BarChart(ctx context.Context, axis models.Axis, target string) (*dashboard.BarPayload, error)
}

// Handler отдаёт диаграмму {chartDim, labels, user_name|hotel_name}.
type Handler struct {
	log     *slog.Logger
	service Service
	// axis фиксированная ось, пустая строка означает, что ось берётся из запроса
	axis        models.Axis
	targetField string
}

// NewByUser диаграмма бронирований клиента по отелям, цель в поле username.
func NewByUser(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, axis: models.ByUser, targetField: "username"}
}

// NewByHotel диаграмма бронирований отеля по клиентам, цель в поле hotelname.
func NewByHotel(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, axis: models.ByHotel, targetField: "hotelname"}
}

// New диаграмма по оси из поля axis, цель в поле target.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, targetField: "target"}
}

// ServeHTTP godoc
// @Summary Количество бронирований
// @Description Считает бронирования выбранного клиента по отелям или выбранного отеля по клиентам.
// @Description Ось, отличная от "by user" и "by hotel", отклоняется с кодом 400.
// @Tags Dashboard
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body map[string]string true "username | hotelname | axis + target"
// @Success 200 {object} map[string]any "chartDim, labels и user_name или hotel_name"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или ось"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard/bar_chart_by_user [post]
// @Router /dashboard/bar_chart_by_hotel [post]
// @Router /dashboard/bar_chart [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.bar"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fields, err := readFields(r)
	if err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	axis := h.axis
	if axis == "" {
		axis, err = models.ParseAxis(fields["axis"])
		if err != nil {
			log.Warn("invalid axis", slog.String("axis", fields["axis"]))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(`axis must be "by user" or "by hotel"`))
			return
		}
	}

	target := strings.TrimSpace(fields[h.targetField])
	if target == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("field "+h.targetField+" is a required field"))
		return
	}

	payload, err := h.service.BarChart(r.Context(), axis, target)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAxis) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(`axis must be "by user" or "by hotel"`))
			return
		}
		log.Error("failed to build bar chart", slog.String("axis", string(axis)), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build bar chart"))
		return
	}

	render.JSON(w, r, payload)
}

// readFields читает строковые поля из формы или из JSON-объекта.
func readFields(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		fields := make(map[string]string, len(r.Form))
		for k := range r.Form {
			fields[k] = r.Form.Get(k)
		}
		return fields, nil
	}

	fields := map[string]string{}
	if r.Body == nil || r.Body == http.NoBody {
		return fields, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
