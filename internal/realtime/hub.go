package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"scavenger-hunt-api/internal/game"
)

// AdminChannel receives every submission event; teams listen on TeamChannel(teamID).
const AdminChannel = "admins"

// TeamChannel names the channel of one team.
func TeamChannel(teamID string) string {
	return "team:" + teamID
}

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active connections per channel and broadcasts events to them.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[Client]struct{}
}

var _ game.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[Client]struct{})}
}

// Register adds a client to a channel.
func (h *Hub) Register(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[Client]struct{})
	}
	h.channels[channel][client] = struct{}{}
}

// Unregister removes a client; empty channels are dropped.
func (h *Hub) Unregister(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Count returns the number of clients on a channel.
func (h *Hub) Count(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Broadcast sends a message to all clients of a channel and returns how many got it.
// Failed clients are left for their handler to clean up.
func (h *Hub) Broadcast(channel string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.channels[channel] {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

func (h *Hub) NotifyTeam(teamID string, evt game.Event) {
	h.publish(TeamChannel(teamID), evt)
}

func (h *Hub) NotifyAdmins(evt game.Event) {
	h.publish(AdminChannel, evt)
}

func (h *Hub) publish(channel string, evt game.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		log.Printf("realtime: encode %s event: %v", evt.Type, err)
		return
	}
	h.Broadcast(channel, msg)
}
