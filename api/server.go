/*
server.go - HTTP router configuration

PURPOSE:
  Wires the chi router: middleware, CORS for the local UI origin, and
  the route tree. Route registration lives here so handlers.go stays
  free of wiring concerns.

SEE ALSO:
  - handlers.go: the handlers mounted here
  - cmd/server: constructs the handler and serves this router
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the API router for the given handler.
func NewRouter(h *Handler, allowedOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Post("/{id}/archive", h.ArchiveEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/notes", h.ListEmployeeNotes)
			r.Post("/{id}/notes", h.AddEmployeeNote)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/{id}", h.GetMonthCells)
			r.Put("/{id}/{date}", h.SetCell)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.ListHolidays)
				r.Post("/", h.AddHoliday)
				r.Delete("/{date}", h.RemoveHoliday)
			})
			r.Route("/overrides", func(r chi.Router) {
				r.Get("/", h.ListOverrides)
				r.Put("/{date}", h.SetOverride)
				r.Delete("/{date}", h.ClearOverride)
			})
			r.Route("/codes", func(r chi.Router) {
				r.Get("/", h.ListCodes)
				r.Post("/", h.SaveCode)
				r.Delete("/{char}", h.DeleteCode)
			})
			r.Route("/base-days", func(r chi.Router) {
				r.Get("/", h.GetBaseDays)
				r.Put("/", h.SetBaseDays)
			})
		})

		r.Route("/financials", func(r chi.Router) {
			r.Get("/{id}/{year}/{month}", h.GetAdjustments)
			r.Put("/{id}/{year}/{month}", h.SetAdjustments)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/attendance", h.AttendanceReport)
			r.Get("/payroll", h.PayrollReport)
			r.Get("/payroll.csv", h.PayrollCSV)
			r.Get("/payslips.pdf", h.PayslipsPDF)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/today", h.DashboardToday)
			r.Get("/totals", h.DashboardTotals)
			r.Get("/trend", h.DashboardTrend)
			r.Get("/distribution", h.DashboardDistribution)
		})
	})

	return r
}
