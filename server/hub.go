package server

import (
	"battlefeed/monitoring"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	EventEntryAdmitted  = "entry_admitted"
	EventEntryLiked     = "entry_liked"
	EventEntryCommented = "entry_commented"
)

// FeedEvent tells subscribed clients which entry changed, so they re-read
// just what they need instead of polling the whole feed after every mutation.
type FeedEvent struct {
	Type    string `json:"type"`
	AssetID string `json:"asset_id"`
}

// Hub fans feed events out to websocket subscribers. All client bookkeeping
// happens on the Run goroutine; Broadcast never blocks the mutation path.
type Hub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan FeedEvent
	clients    map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *websocket.Conn, 16),
		unregister: make(chan *websocket.Conn, 16),
		events:     make(chan FeedEvent, 256),
		clients:    make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			monitoring.SubscribedClients.Inc()

		case conn := <-h.unregister:
			h.dropClient(conn)

		case event := <-h.events:
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Infof("Dropping slow feed subscriber: %v", err)
					h.dropClient(conn)
				}
			}
		}
	}
}

func (h *Hub) Broadcast(eventType string, assetID string) {
	select {
	case h.events <- FeedEvent{Type: eventType, AssetID: assetID}:
	default:
		log.Warnf("Feed event buffer full, dropping %s for '%s'", eventType, assetID)
	}
}

func (h *Hub) dropClient(conn *websocket.Conn) {
	if h.clients[conn] {
		delete(h.clients, conn)
		monitoring.SubscribedClients.Dec()
	}
	conn.Close()
}
