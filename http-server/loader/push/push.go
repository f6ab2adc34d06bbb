package push

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"sales-dashboard/internal/service/loader"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Response struct {
	Report *loader.Report `json:"report,omitempty"`
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
}

type SalesLoader interface {
	LoadSales(ctx context.Context, r io.Reader) (*loader.Report, error)
	LoadSalesXLSX(ctx context.Context, r io.Reader) (*loader.Report, error)
}

type EmployeeLoader interface {
	LoadEmployees(ctx context.Context, r io.Reader) (*loader.Report, error)
}

// PushSales accepts a JSON array, a raw xlsx body or a multipart upload with a "file" part.
func PushSales(log *slog.Logger, l SalesLoader, maxBytes int64, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.loader.push.PushSales"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

		var (
			rep *loader.Report
			err error
		)
		switch mediaType {
		case xlsxContentType:
			rep, err = l.LoadSalesXLSX(ctx, r.Body)
		case "multipart/form-data":
			rep, err = pushUpload(ctx, r, l)
		default:
			rep, err = l.LoadSales(ctx, r.Body)
		}

		respond(w, r, log, rep, err)
	}
}

func pushUpload(ctx context.Context, r *http.Request, l SalesLoader) (*loader.Report, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.Join(loader.ErrInvalidPayload, err)
	}
	defer file.Close()

	if strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		return l.LoadSales(ctx, file)
	}
	return l.LoadSalesXLSX(ctx, file)
}

func PushEmployees(log *slog.Logger, l EmployeeLoader, maxBytes int64, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.loader.push.PushEmployees"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := l.LoadEmployees(ctx, r.Body)
		respond(w, r, log, rep, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, rep *loader.Report, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case err == nil:
		log.Info("payload loaded",
			slog.String("batch_id", rep.BatchID),
			slog.Int("inserted", rep.Inserted),
			slog.Int("skipped", len(rep.Skipped)),
		)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{Report: rep, Status: strconv.Itoa(http.StatusCreated)})
	case errors.As(err, &tooLarge):
		log.Warn("payload too large", slog.Int64("limit", tooLarge.Limit))
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusRequestEntityTooLarge), Error: "payload too large"})
	case errors.Is(err, loader.ErrEmptyPayload), errors.Is(err, loader.ErrInvalidPayload):
		log.Error("bad payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusBadRequest), Error: err.Error()})
	default:
		log.Error("failed to load payload", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Response{Report: rep, Status: strconv.Itoa(http.StatusInternalServerError), Error: "failed to save rows"})
	}
}
