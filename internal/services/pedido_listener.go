package services

import (
	"log"
	"sync"

	"gaspedidos/internal/models"
)

// Pedido event kinds delivered to listeners and published to the broker.
const (
	EventoPedidoCreado = "pedido.created"
	EventoPedidoEstado = "pedido.estado"
)

// PedidoEvent is one change notification for a pedido.
type PedidoEvent struct {
	Tipo   string        `json:"tipo"`
	Pedido models.Pedido `json:"pedido"`
}

// Subscription is a live feed of pedido changes for one identity. Consumers
// range over C() and call Unsubscribe when the consuming view goes away; after
// Unsubscribe returns, no further events are delivered and C() is closed.
type Subscription struct {
	id  int
	hub *pedidoHub
	ch  chan PedidoEvent
}

// C returns the event channel.
func (s *Subscription) C() <-chan PedidoEvent {
	return s.ch
}

// Unsubscribe detaches the subscription from the hub. Safe to call more than
// once.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s.id)
}

type pedidoSubscriber struct {
	identityID string
	rol        string
	ch         chan PedidoEvent
}

func (s *pedidoSubscriber) matches(p models.Pedido) bool {
	switch s.rol {
	case models.RolProveedor:
		return p.ConductorID == s.identityID
	default:
		return p.ClienteID == s.identityID
	}
}

// pedidoHub fans pedido events out to the subscriptions interested in them.
// Publish and remove share one lock, so an unsubscribed channel can never
// receive another send.
type pedidoHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*pedidoSubscriber
}

func newPedidoHub() *pedidoHub {
	return &pedidoHub{
		subs: make(map[int]*pedidoSubscriber),
	}
}

func (h *pedidoHub) subscribe(identityID string, rol string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &pedidoSubscriber{
		identityID: identityID,
		rol:        rol,
		ch:         make(chan PedidoEvent, 16),
	}
	h.subs[h.nextID] = sub
	return &Subscription{id: h.nextID, hub: h, ch: sub.ch}
}

func (h *pedidoHub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)
}

func (h *pedidoHub) publish(event PedidoEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !sub.matches(event.Pedido) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// A consumer that stopped draining loses events rather than
			// blocking every other subscriber.
			log.Printf("Warning: dropping pedido event for slow listener (identity %s)", sub.identityID)
		}
	}
}
