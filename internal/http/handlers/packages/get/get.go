// Package get реализует HTTP-обработчик чтения одного пакета по названию отеля.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/catalog"
)

// Service каталог пакетов.
type Service interface {
	GetPackage(ctx context.Context, hotelName string) (*models.Package, error)
}

// Handler отдаёт пакет отеля из URL.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пакет отеля
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Param hotel path string true "Название отеля"
// @Success 200 {object} response.Response "Пакет"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /packages/{hotel} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	hotel := chi.URLParam(r, "hotel")
	if hotel == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("hotel name is required"))
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), hotel)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			log.Info("package not found", slog.String("hotel", hotel))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("package not found"))
			return
		}
		log.Error("failed to get package", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get package"))
		return
	}

	render.JSON(w, r, response.OKWithData(pkg))
}
