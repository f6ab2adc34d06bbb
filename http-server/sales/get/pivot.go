package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"sales-dashboard/internal/service/report"
)

type ResponsePivot struct {
	Report *report.SalesReport `json:"report,omitempty"`
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
}

type SalesReporter interface {
	SalesReport(ctx context.Context, filter report.Filter) (*report.SalesReport, error)
}

func GetSalesPivot(log *slog.Logger, reporter SalesReporter, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.sales.get.GetSalesPivot"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter, err := ParseReportFilter(r)
		if err != nil {
			log.Error("invalid query parameters", slog.String("error", err.Error()))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ResponsePivot{Status: strconv.Itoa(http.StatusBadRequest), Error: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := reporter.SalesReport(ctx, filter)
		if err != nil {
			if errors.Is(err, report.ErrInvalidFilter) {
				log.Error("invalid report filter", slog.String("error", err.Error()))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, ResponsePivot{Status: strconv.Itoa(http.StatusBadRequest), Error: err.Error()})
				return
			}
			log.Error("failed to build sales pivot", slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ResponsePivot{Status: strconv.Itoa(http.StatusInternalServerError), Error: "failed to build sales report"})
			return
		}

		render.JSON(w, r, ResponsePivot{
			Report: rep,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
