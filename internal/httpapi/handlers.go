package httpapi

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/DoyleJ11/room-status/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var page = template.Must(template.New("room").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Room</title>
<link rel="stylesheet" href="static/room.css">
</head>
<body>
<div id="layout" data-version="{{.Version}}">{{.Layout}}</div>
<script>
const layout = document.getElementById('layout');
layout.addEventListener('click', async (ev) => {
    const el = ev.target.closest('[data-action]');
    if (!el) return;
    await fetch('actions/' + encodeURIComponent(el.dataset.action), {method: 'POST'});
});
const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
const sock = new WebSocket(proto + location.host + location.pathname.replace(/\/?$/, '/') + 'ws');
sock.onmessage = (ev) => {
    const msg = JSON.parse(ev.data);
    if (msg.type === 'Layout' && msg.version >= Number(layout.dataset.version)) {
        layout.dataset.version = msg.version;
        layout.innerHTML = msg.html;
    }
};
</script>
</body>
</html>
`))

func Index(c *view.Container, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the page links its assets relatively
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}

		st, err := c.State(r.Context())
		if err != nil {
			http.Error(w, "layout unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = page.Execute(w, struct {
			Version int
			Layout  template.HTML
		}{Version: st.Version, Layout: template.HTML(st.HTML)})
		if err != nil {
			log.Error("failed to write page", zap.Error(err))
		}
	}
}

func Layout(c *view.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := c.State(r.Context())
		if err != nil {
			http.Error(w, "layout unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Layout-Version", strconv.Itoa(st.Version))
		_, _ = w.Write([]byte(st.HTML))
	}
}

func Activate(c *view.Container, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := c.Activate(r.Context(), id)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, view.ErrUnknownAction):
			http.Error(w, "unknown action", http.StatusNotFound)
		case errors.Is(err, view.ErrClosed):
			http.Error(w, "layout unavailable", http.StatusServiceUnavailable)
		default:
			log.Warn("activation failed", zap.String("action", id), zap.Error(err))
			http.Error(w, "room backend rejected the request", http.StatusBadGateway)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
