// Package events pushes order lifecycle transitions to connected admin
// dashboards over websocket.
package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

type OrderEvent struct {
	OrderID uint               `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	mu      sync.Mutex
	clients = make(map[*websocket.Conn]bool)
)

// OrdersFeedHandler upgrades the connection and keeps it registered until
// the peer goes away.
func OrdersFeedHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	mu.Lock()
	clients[conn] = true
	mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			mu.Lock()
			delete(clients, conn)
			mu.Unlock()
			break
		}
	}
}

// PublishOrderStatus fans an order transition out to all connected
// clients. Call it after the enclosing transaction has committed.
func PublishOrderStatus(orderID uint, status models.OrderStatus) {
	event := OrderEvent{OrderID: orderID, Status: status, At: time.Now()}

	mu.Lock()
	defer mu.Unlock()
	for conn := range clients {
		if err := conn.WriteJSON(event); err != nil {
			log.WithError(err).Debug("dropping stale order feed client")
			conn.Close()
			delete(clients, conn)
		}
	}
}
