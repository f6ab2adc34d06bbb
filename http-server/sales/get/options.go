package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
)

type ResponseValues struct {
	Values []string `json:"values"`
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
}

type SalesMonths interface {
	GetUniqueMonths(ctx context.Context) ([]string, error)
}

type SalesCategories interface {
	GetUniqueCategories(ctx context.Context) ([]string, error)
}

func GetMonths(log *slog.Logger, months SalesMonths, timeout time.Duration) http.HandlerFunc {
	return values(log, "handler.sales.get.GetMonths", months.GetUniqueMonths, timeout)
}

func GetCategories(log *slog.Logger, categories SalesCategories, timeout time.Duration) http.HandlerFunc {
	return values(log, "handler.sales.get.GetCategories", categories.GetUniqueCategories, timeout)
}

func values(log *slog.Logger, op string, fetch func(ctx context.Context) ([]string, error), timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		vals, err := fetch(ctx)
		if err != nil {
			log.Error("failed to load values", slog.String("op", op), slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ResponseValues{Status: strconv.Itoa(http.StatusInternalServerError), Error: "failed to load values"})
			return
		}
		if vals == nil {
			vals = []string{}
		}

		render.JSON(w, r, ResponseValues{Values: vals, Status: strconv.Itoa(http.StatusOK)})
	}
}
