package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Rooms map[string]map[*websocket.Conn]*Client // Theo từng videoID (kênh bình luận)
	Users map[string]map[*websocket.Conn]*Client // Theo từng userID (thông báo riêng)
	Mutex sync.RWMutex
}

var H = Hub{
	Rooms: make(map[string]map[*websocket.Conn]*Client),
	Users: make(map[string]map[*websocket.Conn]*Client),
}

// Register theo videoID: client đang mở trang xem video
func (h *Hub) Register(videoID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Rooms[videoID]; !ok {
		h.Rooms[videoID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Rooms[videoID][conn] = client

	// Vòng đọc nằm ở handler; hub chỉ lo ghi
	go h.writePump(client)
}

// RegisterUser: kênh thông báo riêng cho một user (badge, like, comment,...)
func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Users[userID]; !ok {
		h.Users[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Users[userID][conn] = client

	go h.writePump(client)
}

// Broadcast tới mọi client đang xem một video
func (h *Hub) Broadcast(videoID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Rooms[videoID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// BroadcastToUser gửi riêng cho mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Users[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// SendBadgeUpdate đẩy số thông báo chưa đọc cho user
func SendBadgeUpdate(userID string, unread int64) {
	data, err := json.Marshal(map[string]interface{}{
		"type":   "badge_update",
		"unread": unread,
	})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, data)
}

// GetStats trả số liệu kết nối hiện tại (dùng cho /health)
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	rooms := 0
	for _, clients := range h.Rooms {
		rooms += len(clients)
	}
	users := 0
	for _, clients := range h.Users {
		users += len(clients)
	}
	return map[string]int{
		"video_rooms":      len(h.Rooms),
		"room_clients":     rooms,
		"user_connections": users,
	}
}

func (h *Hub) Unregister(videoID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Rooms[videoID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Rooms, videoID)
		}
	}
}

func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Users[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Users, userID)
		}
	}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
