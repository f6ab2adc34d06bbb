package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"sales-dashboard/internal/storage"
)

type ResponseEmployees struct {
	Employees []storage.Employee `json:"employees"`
	Count     int                `json:"count"`
	Status    string             `json:"status"`
	Error     string             `json:"error,omitempty"`
}

type Employees interface {
	GetEmployees(ctx context.Context, filter storage.EmployeeFilter) ([]storage.Employee, error)
}

type EmployeeOptions interface {
	GetEmployeeOptions(ctx context.Context) (*storage.EmployeeOptions, error)
}

// GetEmployees lists staff filtered by department, designation, project and status.
func GetEmployees(log *slog.Logger, employees Employees, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.employees.get.GetEmployees"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		filter := storage.EmployeeFilter{
			Department:  q.Get("department"),
			Designation: q.Get("designation"),
			Project:     q.Get("project"),
			Status:      q.Get("status"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		list, err := employees.GetEmployees(ctx, filter)
		if err != nil {
			log.Error("failed to get employees", slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ResponseEmployees{Status: strconv.Itoa(http.StatusInternalServerError), Error: "failed to get employees"})
			return
		}
		if list == nil {
			list = []storage.Employee{}
		}

		log.Debug("employees found", slog.Int("count", len(list)))

		render.JSON(w, r, ResponseEmployees{
			Employees: list,
			Count:     len(list),
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}

func GetEmployeeOptions(log *slog.Logger, options EmployeeOptions, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.employees.get.GetEmployeeOptions"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		opts, err := options.GetEmployeeOptions(ctx)
		if err != nil {
			log.Error("failed to get employee options",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, opts)
	}
}
