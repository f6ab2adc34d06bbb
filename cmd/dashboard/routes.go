package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"
	getemployees "sales-dashboard/http-server/employees/get"
	generate_excel "sales-dashboard/http-server/generate-report/generate-excel"
	"sales-dashboard/http-server/loader/push"
	getsales "sales-dashboard/http-server/sales/get"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware/auth"
	excelservice "sales-dashboard/internal/service/generate-excel"
	"sales-dashboard/internal/service/loader"
	"sales-dashboard/internal/service/report"
	"sales-dashboard/internal/storage/mysql"
)

type services struct {
	storage *mysql.Storage
	report  *report.Service
	excel   *excelservice.GenerateExcelService
	loader  *loader.Service
}

func routes(cfg config.Config, log *slog.Logger, deps services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz(log, deps.storage))

	// sales dashboard
	router.Get("/api/sales/pivot", getsales.GetSalesPivot(log, deps.report, cfg.Report.RequestTimeout))
	router.Get("/api/sales/flat", getsales.GetSalesFlat(log, deps.storage, cfg.Report.RequestTimeout))
	router.Get("/api/sales/months", getsales.GetMonths(log, deps.storage, cfg.Report.RequestTimeout))
	router.Get("/api/sales/categories", getsales.GetCategories(log, deps.storage, cfg.Report.RequestTimeout))
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, deps.excel, cfg.Report.ExcelTimeout))

	// HR
	router.Get("/api/employees", getemployees.GetEmployees(log, deps.storage, cfg.Report.RequestTimeout))
	router.Get("/api/employees/options", getemployees.GetEmployeeOptions(log, deps.storage, cfg.Report.RequestTimeout))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(log, cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/push/sales", push.PushSales(log, deps.loader, cfg.Loader.MaxBytes, cfg.Loader.Timeout))
	adminRouter.Post("/push/employees", push.PushEmployees(log, deps.loader, cfg.Loader.MaxBytes, cfg.Loader.Timeout))

	router.Mount("/api/admin", adminRouter)

	frontend(router, log, cfg.FrontendDir)

	return router
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthz(log *slog.Logger, db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Error("health check failed", slog.String("error", err.Error()))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// frontend serves the built dashboard with an index.html fallback for client routes.
func frontend(router chi.Router, log *slog.Logger, dir string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warn("frontend directory not found, serving API only", slog.String("path", dir))
		return
	}

	index := filepath.Join(dir, "index.html")

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, index)
	})
}
