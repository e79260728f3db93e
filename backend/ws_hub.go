package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type WSConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *WSConn) SafeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteJSON(v)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks scanner sessions: one websocket and at most one active round
// per session. Rounds are discarded the moment they resolve; the learning
// store is the only cross-round state.
type Hub struct {
	mu     sync.RWMutex
	rounds map[string]*Round
	conns  map[string]*WSConn
}

func NewHub() *Hub {
	return &Hub{
		rounds: make(map[string]*Round),
		conns:  make(map[string]*WSConn),
	}
}

func (h *Hub) Round(session string) *Round {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rounds[session]
}

func (h *Hub) SetRound(session string, r *Round) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds[session] = r
}

func (h *Hub) RemoveRound(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rounds, session)
}

func (h *Hub) Conn(session string) *WSConn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[session]
}

func (h *Hub) SetConn(session string, ws *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[session] = ws
}

// DelConn drops the session's connection only while ws is still the
// registered one; a reconnect may already have replaced it.
func (h *Hub) DelConn(session string, ws *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[session] == ws {
		delete(h.conns, session)
	}
}

func wsHandler(app *App, w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		http.Error(w, "session required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ws := &WSConn{Conn: conn}
	app.Hub.SetConn(session, ws)
	log.WithField("session", session).Info("scanner connected")

	go func() {
		defer func() {
			conn.Close()
			app.Hub.DelConn(session, ws)
			log.WithField("session", session).Info("scanner disconnected")
		}()
		for {
			var incoming WSMessage
			if err := conn.ReadJSON(&incoming); err != nil {
				return
			}

			switch incoming.Type {
			case "scan":
				snap, ok := decodePayload[SnapshotPayload](incoming.Data)
				if !ok {
					_ = ws.SafeWriteJSON(wsMessage("error", ErrorPayload{Error: "bad scan payload"}))
					continue
				}
				_ = ws.SafeWriteJSON(app.HandleScan(session, snap))

			case "result":
				res, ok := decodePayload[ResultPayload](incoming.Data)
				if !ok {
					_ = ws.SafeWriteJSON(wsMessage("error", ErrorPayload{Error: "bad result payload"}))
					continue
				}
				app.HandleResult(session, res)

			default:
				_ = ws.SafeWriteJSON(wsMessage("error", ErrorPayload{Error: "unknown message type"}))
			}
		}
	}()
}
