package calendar

import (
	"encoding/json"
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

// HandleSlotWS subscribes a client to live slot updates for one provider.
// The connection stays open until the client disconnects.
func HandleSlotWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	providerID := ps.ByName("providerId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	subMu.Lock()
	subscribers[providerID] = append(subscribers[providerID], conn)
	subMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	subMu.Lock()
	conns := subscribers[providerID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[providerID] = newList
	subMu.Unlock()

	conn.Close()
}

// BroadcastSlotUpdate pushes a slot state change to every subscriber of
// the provider. Dead connections are pruned as a side effect.
func BroadcastSlotUpdate(providerID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	subMu.Lock()
	defer subMu.Unlock()

	conns := subscribers[providerID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[providerID] = newList
}
