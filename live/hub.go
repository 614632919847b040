package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cuentaclara/restaurant-pos/models"
)

// Event types pushed to the floor screens.
const (
	EventTableCreate   = "table_create"
	EventTableDelete   = "table_delete"
	EventAccountUpdate = "account_update"
	EventOrderCreate   = "order_create"
	EventFloorStats    = "floor_stats"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected floor screen. Delivery is best effort: a failed
// write drops the client.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableDelete(number int) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"number": number}})
}

func BroadcastAccountUpdate(account models.Account) {
	broadcast(Message{Event: EventAccountUpdate, Data: account})
}

func BroadcastOrderCreate(order models.Order) {
	broadcast(Message{Event: EventOrderCreate, Data: order})
}

// BroadcastFloorStats pushes aggregate numbers for the dashboard header.
func BroadcastFloorStats(stats map[string]interface{}) {
	broadcast(Message{Event: EventFloorStats, Data: stats})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	for conn := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(floorHub.clients, conn)
			conn.Close()
		}
	}
}
