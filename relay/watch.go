package relay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"gblink/gbtext"
)

// The HTTP side of the relay: a JSON snapshot for scripts and a websocket
// feed for a live map page. Read-only; the game protocol stays on TCP.

type watchPlayer struct {
	ID    uint32 `json:"id"`
	Name  string `json:"name"`
	MapID byte   `json:"mapId"`
	MapX  byte   `json:"mapX"`
	MapY  byte   `json:"mapY"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) serveHTTP(ctx context.Context) {
	router := way.NewRouter()
	router.HandleFunc("GET", "/status", s.handleStatus)
	router.HandleFunc("GET", "/watch", s.handleWatch)

	httpSrv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: router}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("relay http: %v", err)
	}
}

func (s *Server) watchSnapshot() []watchPlayer {
	players := s.snapshot()
	out := make([]watchPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, watchPlayer{
			ID:    uint32(p.ID),
			Name:  gbtext.Decode(p.Name),
			MapID: p.Movement.MapID,
			MapX:  p.Movement.MapX,
			MapY:  p.Movement.MapY,
		})
	}
	return out
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.watchSnapshot())
}

// handleWatch streams the player snapshot twice a second until the peer
// goes away.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("relay watch upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteJSON(s.watchSnapshot()); err != nil {
			return
		}
	}
}
