package api

import (
	"database/sql"
	"net/http"

	"github.com/mlakar/hlev/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	animalsHandler := &AnimalsHandler{DB: db}
	transfersHandler := &TransfersHandler{DB: db}
	samplesHandler := &SamplesHandler{DB: db}
	salesHandler := &SalesHandler{DB: db}
	settingsHandler := &SettingsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", MetricsHandler())

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Locations: read (all roles), write (manager+).
	mux.Handle("GET /api/locations", authMW(http.HandlerFunc(locationsHandler.List)))
	mux.Handle("GET /api/locations/available", authMW(http.HandlerFunc(locationsHandler.ListAvailable)))
	mux.Handle("POST /api/locations", authMW(requireManager(http.HandlerFunc(locationsHandler.Create))))
	mux.Handle("GET /api/locations/{id}", authMW(http.HandlerFunc(locationsHandler.Get)))
	mux.Handle("PUT /api/locations/{id}", authMW(requireManager(http.HandlerFunc(locationsHandler.Update))))
	mux.Handle("DELETE /api/locations/{id}", authMW(requireManager(http.HandlerFunc(locationsHandler.Delete))))
	mux.Handle("GET /api/locations/{id}/occupancy", authMW(http.HandlerFunc(locationsHandler.GetOccupancy)))
	mux.Handle("GET /api/locations/{id}/animals", authMW(http.HandlerFunc(locationsHandler.GetAnimals)))
	mux.Handle("POST /api/locations/{id}/transfer", authMW(requireManager(http.HandlerFunc(locationsHandler.Transfer))))

	// Animals: read (all roles), write (manager+).
	mux.Handle("GET /api/animals", authMW(http.HandlerFunc(animalsHandler.List)))
	mux.Handle("POST /api/animals", authMW(requireManager(http.HandlerFunc(animalsHandler.Create))))
	mux.Handle("GET /api/animals/{id}", authMW(http.HandlerFunc(animalsHandler.Get)))
	mux.Handle("PUT /api/animals/{id}", authMW(requireManager(http.HandlerFunc(animalsHandler.Update))))
	mux.Handle("DELETE /api/animals/{id}", authMW(requireManager(http.HandlerFunc(animalsHandler.Delete))))
	mux.Handle("PUT /api/animals/{id}/photo", authMW(requireManager(http.HandlerFunc(animalsHandler.UploadPhoto))))
	mux.Handle("GET /api/animals/{id}/photo", authMW(http.HandlerFunc(animalsHandler.GetPhoto)))
	mux.Handle("GET /api/animals/{id}/history", authMW(http.HandlerFunc(animalsHandler.GetHistory)))

	// Transfers (read only; writes go through the location endpoint).
	mux.Handle("GET /api/transfers", authMW(http.HandlerFunc(transfersHandler.List)))

	// Blood samples: read (all roles), write (manager+).
	mux.Handle("GET /api/samples", authMW(http.HandlerFunc(samplesHandler.List)))
	mux.Handle("POST /api/samples", authMW(requireManager(http.HandlerFunc(samplesHandler.Create))))
	mux.Handle("GET /api/samples/{id}", authMW(http.HandlerFunc(samplesHandler.Get)))
	mux.Handle("PUT /api/samples/{id}/result", authMW(requireManager(http.HandlerFunc(samplesHandler.RecordResult))))

	// Sales: read (all roles), write (manager+).
	mux.Handle("GET /api/sales", authMW(http.HandlerFunc(salesHandler.List)))
	mux.Handle("GET /api/sales/summary", authMW(http.HandlerFunc(salesHandler.Summary)))
	mux.Handle("POST /api/sales", authMW(requireManager(http.HandlerFunc(salesHandler.Create))))
	mux.Handle("GET /api/sales/{id}", authMW(http.HandlerFunc(salesHandler.Get)))

	// Settings (admin only).
	mux.Handle("GET /api/settings/{key}", authMW(requireAdmin(http.HandlerFunc(settingsHandler.Get))))
	mux.Handle("PUT /api/settings/{key}", authMW(requireAdmin(http.HandlerFunc(settingsHandler.Update))))

	return MetricsMiddleware(mux)
}
