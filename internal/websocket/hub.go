package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans generation progress out to websocket clients. Connections
// are keyed by the video they watch; each watched video holds one Redis
// subscription shared by its watchers.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	cancelFuncs map[uuid.UUID]context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
	}
}

// HandleWebSocket upgrades the connection and subscribes it to the
// progress stream of one video, given as ?video_id=<uuid>.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	videoIDStr := r.URL.Query().Get("video_id")
	videoID, err := uuid.Parse(videoIDStr)
	if err != nil {
		http.Error(w, "invalid or missing video_id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(videoID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(videoID, conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(videoID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[videoID] = append(h.connections[videoID], conn)

	// First watcher of this video starts the pub/sub subscription
	if len(h.connections[videoID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[videoID] = cancel
		go h.subscribeToPubSub(ctx, videoID)
	}

	log.Printf("WebSocket connected: video %s (watchers: %d)", videoID, len(h.connections[videoID]))
}

func (h *Hub) unregisterConnection(videoID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[videoID]
	for i, c := range conns {
		if c == conn {
			h.connections[videoID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// Last watcher gone: cancel the subscription
	if len(h.connections[videoID]) == 0 {
		delete(h.connections, videoID)
		if cancel, ok := h.cancelFuncs[videoID]; ok {
			cancel()
			delete(h.cancelFuncs, videoID)
		}
	}

	log.Printf("WebSocket disconnected: video %s", videoID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, videoID uuid.UUID) {
	channel := "generation:" + videoID.String()
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(videoID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(videoID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[videoID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// SendToWatchers bypasses pub/sub for messages originating in-process.
func (h *Hub) SendToWatchers(videoID uuid.UUID, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(videoID, data)
}
