// Package list реализует HTTP-обработчик списка пакетов проживания.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
)

// Service каталог пакетов.
type Service interface {
	ListPackages(ctx context.Context) ([]models.Package, error)
}

// Handler отдаёт каталог пакетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пакетов
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Пакеты, отсортированные по названию отеля"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}
	if packages == nil {
		packages = []models.Package{}
	}

	log.Debug("packages listed", slog.Int("count", len(packages)))
	render.JSON(w, r, response.OKWithData(packages))
}
