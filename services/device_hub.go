package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type DeviceClient struct {
	DeviceID uint
	Conn     *websocket.Conn
}

// DeviceHub pushes survey-change pings to kiosks holding a websocket open.
type DeviceHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*DeviceClient]struct{}
}

func NewDeviceHub() *DeviceHub {
	return &DeviceHub{clients: make(map[uint]map[*DeviceClient]struct{})}
}

func (h *DeviceHub) Register(c *DeviceClient) {
	h.mu.Lock()
	if h.clients[c.DeviceID] == nil {
		h.clients[c.DeviceID] = make(map[*DeviceClient]struct{})
	}
	h.clients[c.DeviceID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *DeviceHub) Unregister(c *DeviceClient) {
	h.mu.Lock()
	if set := h.clients[c.DeviceID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.DeviceID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *DeviceHub) SurveyChanged(deviceID uint) {
	msg, _ := json.Marshal(map[string]any{
		"kind":     "survey.changed",
		"deviceId": deviceID,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[deviceID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
