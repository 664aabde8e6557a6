package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/teampulse/pulsebot/app"
	"github.com/teampulse/pulsebot/httpx"
)

// Wire builds the health-check surface. There is deliberately no
// browser-facing API: every operator action goes through the chat
// commands.
func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/healthz", Health(app))

	return root
}

// Health reports liveness plus a summary of the active period.
func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.PingContext(r.Context()); err != nil {
			httpx.LogInternalError(w, "health.db_ping", err)
			return
		}

		body := map[string]any{
			"status":    "ok",
			"questions": app.Catalog.Len(),
		}
		if p, ok := app.Periods.Current(); ok {
			body["week"] = p.Number
			body["sheet_id"] = p.SheetID
		}
		render.JSON(w, r, body)
	}
}
