package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sahrati/reservation-backend/models"
)

// Event types pushed to connected dashboard/calendar clients.
const (
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
	EventTableUpdate       = "table_update"
	EventDashboardUpdate   = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub keeps every connected operator client and fans broadcasts out to
// all of them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient removes and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastReservationCreate announces a freshly booked reservation.
func BroadcastReservationCreate(res models.Reservation) {
	broadcast(Message{
		Event: EventReservationCreate,
		Data:  res,
	})
}

// BroadcastReservationUpdate announces a status change (approve/cancel).
func BroadcastReservationUpdate(res models.Reservation) {
	broadcast(Message{
		Event: EventReservationUpdate,
		Data:  res,
	})
}

// BroadcastTableUpdate announces an operator table status change.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastDashboardUpdate signals connected dashboards to refetch their
// aggregates. Data carries a hint such as the affected date.
func BroadcastDashboardUpdate(hint interface{}) {
	broadcast(Message{
		Event: EventDashboardUpdate,
		Data:  hint,
	})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal event %s: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("dropping dead websocket client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
