// Package names реализует HTTP-обработчики списков целей для диаграмм: клиентов и отелей.
package names

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
)

// ListFunc возвращает список имён.
type ListFunc func(ctx context.Context) ([]string, error)

// Handler отдаёт список имён.
type Handler struct {
	log  *slog.Logger
	list ListFunc
	kind string
}

// NewUsers список имён клиентов без служебного администратора.
//
// @Summary Имена клиентов
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/users [get]
func NewUsers(log *slog.Logger, list ListFunc) *Handler {
	return &Handler{log: log, list: list, kind: "users"}
}

// NewHotels список названий отелей.
//
// @Summary Названия отелей
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/hotels [get]
func NewHotels(log *slog.Logger, list ListFunc) *Handler {
	return &Handler{log: log, list: list, kind: "hotels"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.names"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", h.kind),
	)

	names, err := h.list(r.Context())
	if err != nil {
		log.Error("failed to list names", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list "+h.kind))
		return
	}
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, response.OKWithData(names))
}
