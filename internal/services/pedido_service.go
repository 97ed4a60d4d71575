package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
	"gaspedidos/pkg/push"

	"github.com/google/uuid"
)

// Checkout rejections surfaced as user-facing notices.
var (
	ErrCarroVacio   = errors.New("el carro está vacío")
	ErrSinProveedor = errors.New("no hay proveedor seleccionado")
)

// EventPublisher sends pedido events to the message broker. The RabbitMQ
// client satisfies it; tests substitute a recorder.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CrearPedidoRequest is the checkout payload that, together with the current
// cart and the selected provider, seeds a new pedido.
type CrearPedidoRequest struct {
	NombreCliente    string           `json:"nombreCliente" validate:"required,min=2,max=100"`
	UbicacionCliente models.Ubicacion `json:"ubicacionCliente"`
}

// PedidoService owns the authoritative view of pedidos: creation from the
// cart, the estado state machine, the per-identity "current pedido", and the
// live subscription feed.
type PedidoService struct {
	pedidoRepo  repositories.PedidoRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	location    *LocationService
	cart        *CartService
	notifier    push.Notifier
	publisher   EventPublisher
	hub         *pedidoHub

	mu       sync.RWMutex
	actuales map[string]models.Pedido // identityID -> pedido being viewed/acted on
}

// NewPedidoService creates a new PedidoService. notifier and publisher may be
// nil; both are best-effort side channels.
func NewPedidoService(
	pedidoRepo repositories.PedidoRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	location *LocationService,
	cart *CartService,
	notifier push.Notifier,
	publisher EventPublisher,
) *PedidoService {
	return &PedidoService{
		pedidoRepo:  pedidoRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		location:    location,
		cart:        cart,
		notifier:    notifier,
		publisher:   publisher,
		hub:         newPedidoHub(),
		actuales:    make(map[string]models.Pedido),
	}
}

// CrearNuevoPedido snapshots the user's cart into a new pedido with estado
// Pendiente, assigned to the selected provider. On success the new pedido
// becomes the user's pedido actual and the cart is cleared; on any error the
// cart is left untouched.
func (s *PedidoService) CrearNuevoPedido(userID string, req CrearPedidoRequest) (*models.Pedido, error) {
	items := s.cart.Items(userID)
	if len(items) == 0 {
		return nil, ErrCarroVacio
	}

	conductorID, ok := s.location.SelectedProveedor(userID)
	if !ok {
		return nil, ErrSinProveedor
	}

	var ubicacionProveedor models.Ubicacion
	if loc, err := s.location.Location(conductorID); err == nil {
		ubicacionProveedor = loc.Ubicacion()
	} else {
		log.Printf("Warning: no location for proveedor %s: %v", conductorID, err)
	}

	producto := models.LineItems(items)
	pedido := &models.Pedido{
		ID:                 uuid.New().String(),
		ClienteID:          userID,
		ConductorID:        conductorID,
		NombreCliente:      req.NombreCliente,
		UbicacionCliente:   req.UbicacionCliente,
		UbicacionProveedor: ubicacionProveedor,
		Producto:           producto,
		Precio:             producto.Total(),
		Estado:             models.EstadoPendiente,
		Timestamp:          time.Now(),
	}

	if err := s.pedidoRepo.Create(pedido); err != nil {
		log.Printf("Error creating pedido for cliente %s: %v", userID, err)
		return nil, fmt.Errorf("failed to create pedido: %w", err)
	}

	s.SetPedidoActual(userID, *pedido)
	s.cart.ClearCart(userID)
	s.emit(EventoPedidoCreado, *pedido)
	return pedido, nil
}

// InitializePedidosListener establishes a live subscription to every change of
// the identity's pedidos, as client or as provider depending on the role. The
// caller owns the returned handle and must Unsubscribe on identity change or
// view teardown; re-invoking does not detach earlier subscriptions.
func (s *PedidoService) InitializePedidosListener(identityID string, rol string) *Subscription {
	return s.hub.subscribe(identityID, rol)
}

// ListPedidos returns the identity's historical pedidos, newest first.
func (s *PedidoService) ListPedidos(identityID string, rol string) ([]models.Pedido, error) {
	if rol == models.RolProveedor {
		return s.pedidoRepo.GetByConductor(identityID)
	}
	return s.pedidoRepo.GetByCliente(identityID)
}

// GetPedido returns one pedido by ID.
func (s *PedidoService) GetPedido(id string) (*models.Pedido, error) {
	return s.pedidoRepo.GetByID(id)
}

// SetPedidoActual records the pedido an identity is currently viewing or
// acting on, decoupled from the full list.
func (s *PedidoService) SetPedidoActual(identityID string, pedido models.Pedido) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actuales[identityID] = pedido
}

// PedidoActual returns the identity's focused pedido, if any.
func (s *PedidoService) PedidoActual(identityID string) (*models.Pedido, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pedido, ok := s.actuales[identityID]
	if !ok {
		return nil, false
	}
	return &pedido, true
}

// ClearPedidoActual drops the identity's focused pedido.
func (s *PedidoService) ClearPedidoActual(identityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actuales, identityID)
}

// AceptarPedido moves a pedido from Pendiente to Aceptado, decrementing stock
// for every line item all-or-nothing first. If the stock decrement fails the
// pedido stays Pendiente; if the estado swap loses a race after the decrement,
// the stock is put back explicitly.
func (s *PedidoService) AceptarPedido(pedidoID string) (*models.Pedido, error) {
	pedido, err := s.pedidoRepo.GetByID(pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != models.EstadoPendiente {
		return nil, repositories.ErrTransicionInvalida
	}

	if err := s.productRepo.DecrementStock(pedido.Producto); err != nil {
		return nil, err
	}

	if err := s.pedidoRepo.UpdateEstado(pedidoID, models.EstadoPendiente, models.EstadoAceptado); err != nil {
		// Another transition won the race; undo the reservation.
		if compErr := s.productRepo.IncrementStock(pedido.Producto); compErr != nil {
			log.Printf("Error restoring stock for pedido %s: %v", pedidoID, compErr)
		}
		return nil, err
	}

	return s.afterTransition(pedidoID, "Tu pedido fue aceptado")
}

// RechazarPedido moves a pedido from Pendiente to the terminal Rechazado and
// notifies the client.
func (s *PedidoService) RechazarPedido(pedidoID string) (*models.Pedido, error) {
	if err := s.pedidoRepo.UpdateEstado(pedidoID, models.EstadoPendiente, models.EstadoRechazado); err != nil {
		return nil, err
	}
	return s.afterTransition(pedidoID, "Tu pedido fue rechazado")
}

// MarcarLlegada moves a pedido from Aceptado to the terminal Llegado,
// recording the arrival timestamp.
func (s *PedidoService) MarcarLlegada(pedidoID string) (*models.Pedido, error) {
	if err := s.pedidoRepo.UpdateEstado(pedidoID, models.EstadoAceptado, models.EstadoLlegado); err != nil {
		return nil, err
	}
	return s.afterTransition(pedidoID, "Tu pedido ha llegado")
}

// CancelarPedido moves a pedido from Pendiente to the terminal Cancelado.
func (s *PedidoService) CancelarPedido(pedidoID string) (*models.Pedido, error) {
	if err := s.pedidoRepo.UpdateEstado(pedidoID, models.EstadoPendiente, models.EstadoCancelado); err != nil {
		return nil, err
	}
	return s.afterTransition(pedidoID, "")
}

// afterTransition reloads the pedido, fans the change out to listeners and the
// broker, and pushes a notification to the client when a message is given.
func (s *PedidoService) afterTransition(pedidoID string, mensajeCliente string) (*models.Pedido, error) {
	pedido, err := s.pedidoRepo.GetByID(pedidoID)
	if err != nil {
		return nil, err
	}

	s.emit(EventoPedidoEstado, *pedido)

	if mensajeCliente != "" {
		s.notifyCliente(*pedido, mensajeCliente)
	}
	return pedido, nil
}

// emit fans one event out to in-process listeners and the message broker.
// Broker failures are logged, never surfaced: the pedido itself is already
// durable.
func (s *PedidoService) emit(tipo string, pedido models.Pedido) {
	event := PedidoEvent{Tipo: tipo, Pedido: pedido}
	s.hub.publish(event)

	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal pedido event: %v", err)
		return
	}
	if err := s.publisher.Publish(tipo, body); err != nil {
		log.Printf("Warning: failed to publish %s event for pedido %s: %v", tipo, pedido.ID, err)
	}
}

func (s *PedidoService) notifyCliente(pedido models.Pedido, mensaje string) {
	if s.notifier == nil {
		return
	}
	cliente, err := s.userRepo.GetByID(pedido.ClienteID)
	if err != nil {
		log.Printf("Warning: cannot notify cliente %s: %v", pedido.ClienteID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = s.notifier.Send(ctx, push.Notification{
		Token:      cliente.PushToken,
		Message:    mensaje,
		SenderID:   pedido.ConductorID,
		SenderName: "Pedido " + pedido.ID,
	})
	if err != nil {
		log.Printf("Warning: failed to send notification for pedido %s: %v", pedido.ID, err)
	}
}
