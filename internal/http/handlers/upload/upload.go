// Package upload реализует HTTP-обработчик загрузки CSV-файлов с пакетами,
// бронированиями и клиентами.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/staycation/internal/http/response"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/services/importer"
)

// MaxUploadSize предельный размер multipart-запроса.
const MaxUploadSize = 10 << 20

// Service импорт CSV-файла.
type Service interface {
	Import(ctx context.Context, dataType importer.DataType, r io.Reader) (importer.Result, error)
}

// Handler принимает поля формы file и datatype.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузка CSV
// @Description Импортирует пакеты (staycation), бронирования (booking) или клиентов (user) из CSV.
// @Description Строки с неизвестными ссылками и дубликаты пропускаются.
// @Tags Upload
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "CSV-файл"
// @Param datatype formData string true "staycation, booking или user"
// @Success 200 {object} response.Response "Число созданных и пропущенных строк"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма или тип данных"
// @Failure 401 {object} response.ErrorResponse "Клиент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		log.Warn("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	dataType, err := importer.ParseDataType(r.FormValue("datatype"))
	if err != nil {
		log.Warn("unknown data type", slog.String("datatype", r.FormValue("datatype")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("datatype must be one of staycation, booking, user"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("file is missing", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()

	result, err := h.service.Import(r.Context(), dataType, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownDataType) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown datatype"))
			return
		}
		log.Error("import failed", slog.String("file", header.Filename), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not import file"))
		return
	}

	log.Info("file imported",
		slog.String("file", header.Filename),
		slog.String("datatype", string(dataType)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
	)
	render.JSON(w, r, response.OKWithData(result))
}
