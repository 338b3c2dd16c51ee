package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades the request and runs it as a hub client.
// originPatterns are host patterns allowed besides the request's own host.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err, "remote", r.RemoteAddr)
			return
		}

		NewClient(hub, conn).Run(r.Context())
	}
}
