package itinerary

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	subMu       sync.Mutex
)

// GET /api/itinerary/:shareid/live
// Pushes every newly published snapshot for the trip to the socket until the
// client disconnects. Only the session owner may subscribe.
func (m *Manager) HandleLive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shareID := ps.ByName("shareid")

	userID := requestingUserID(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	session, err := m.Get(shareID, userID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	// Send the current snapshot before registering the conn so the client
	// does not wait for the next edit. The order matters: the broadcaster is
	// the only writer on a registered conn, and a second writer would trip
	// gorilla's single-writer requirement.
	if data, err := json.Marshal(session.Snapshot()); err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws initial write failed: %v", err)
			conn.Close()
			return
		}
	}

	subMu.Lock()
	subscribers[shareID] = append(subscribers[shareID], conn)
	subMu.Unlock()

	for {
		// Keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	subMu.Lock()
	conns := subscribers[shareID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[shareID] = newList
	subMu.Unlock()

	conn.Close()
}

func broadcastSnapshot(shareID string, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	subMu.Lock()
	defer subMu.Unlock()

	conns := subscribers[shareID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[shareID] = newList
}
