package handler

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	ws "postboard/internal/websocket"
)

// LiveHandler upgrades authenticated requests to the live feed socket.
type LiveHandler struct {
	hub      *ws.Hub
	upgrader *websocket.Upgrader
}

// NewLiveHandler accepts same-host origins, plus any of allowedOrigins.
func NewLiveHandler(hub *ws.Hub, allowedOrigins []string) *LiveHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}

	return &LiveHandler{hub: hub, upgrader: upgrader}
}

func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.ServeWS(h.upgrader, w, r, id.UserID)
}
