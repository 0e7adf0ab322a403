package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/room-status/internal/view"
	"github.com/DoyleJ11/room-status/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Prefix is where the room page is mounted; "/" redirects there.
const Prefix = "/room"

func SetupRoutes(c *view.Container, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, Prefix+"/", http.StatusFound)
	})
	r.Get("/healthz", Healthz)
	r.Mount(Prefix, roomRoutes(c, log))
	return r
}

// Page paths are relative, so the page, its stylesheet and its actions all live under Prefix.
func roomRoutes(c *view.Container, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", Index(c, log))
	r.Handle("/static/*", staticHandler(Prefix + "/static/"))
	r.Get("/layout", Layout(c))
	r.Post("/actions/{id}", Activate(c, log))
	r.Get("/ws", ws.Handler(c, log))
	return r
}
