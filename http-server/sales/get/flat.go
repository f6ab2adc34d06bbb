package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"sales-dashboard/internal/service/report"
	"sales-dashboard/internal/storage"
)

type ResponseFlat struct {
	Rows   []storage.SalesRecord `json:"rows"`
	Total  float64               `json:"total"`
	Status string                `json:"status"`
	Error  string                `json:"error,omitempty"`
}

type SalesRows interface {
	GetSalesRows(ctx context.Context, categories []string) ([]storage.SalesRecord, error)
}

// GetSalesFlat is the non-pivoted view: raw sales rows for the selected categories.
func GetSalesFlat(log *slog.Logger, rows SalesRows, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.sales.get.GetSalesFlat"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		categories := Categories(r.URL.Query()["category"])
		for _, c := range categories {
			if strings.EqualFold(c, report.AllCategories) {
				categories = nil
				break
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		data, err := rows.GetSalesRows(ctx, categories)
		if err != nil {
			log.Error("failed to get sales rows", slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ResponseFlat{Status: strconv.Itoa(http.StatusInternalServerError), Error: "failed to get sales rows"})
			return
		}
		if data == nil {
			data = []storage.SalesRecord{}
		}

		var total float64
		for _, d := range data {
			total += d.Sales
		}

		render.JSON(w, r, ResponseFlat{
			Rows:   data,
			Total:  total,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
