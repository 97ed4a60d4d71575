package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
)

// Business-rule rejections of the cart. These are user-facing notices, not
// failures: the cart state is unchanged when they are returned.
var (
	ErrCantidadMaxima   = errors.New("la cantidad máxima por producto es 5")
	ErrCantidadInvalida = errors.New("la cantidad debe estar entre 1 y 5")
	ErrNoEnCarro        = errors.New("el producto no está en el carro")
)

// proveedorSelection is the slice of the Location store the cart needs for its
// one cross-store side effect: emptying the cart drops the selected provider
// so checkout cannot proceed against a stale selection.
type proveedorSelection interface {
	ClearSelectedProveedor(userID string)
}

// CartService holds one cart per signed-in identity. The in-memory cart is the
// source of truth for the running session; every mutation is followed by a
// best-effort asynchronous persistence write whose failure is logged only.
type CartService struct {
	repo      repositories.CartRepository
	seleccion proveedorSelection

	mu    sync.Mutex
	carts map[string][]models.CartItem
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, seleccion proveedorSelection) *CartService {
	return &CartService{
		repo:      repo,
		seleccion: seleccion,
		carts:     make(map[string][]models.CartItem),
	}
}

// LoadCart hydrates the in-memory cart from the persistence adapter, typically
// on session start. An already loaded cart is left alone.
func (s *CartService) LoadCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[userID]; ok {
		return nil
	}
	items, err := s.repo.LoadCart(ctx, userID)
	if err != nil {
		return err
	}
	s.carts[userID] = items
	return nil
}

// AddItem inserts the product with quantity 1, or increments an existing line
// by 1 up to the cap. At the cap the call is rejected and nothing changes.
func (s *CartService) AddItem(userID string, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	for i, item := range cart {
		if item.Product.ID == product.ID {
			if item.Cantidad >= models.MaxCantidad {
				return ErrCantidadMaxima
			}
			cart[i].Cantidad++
			s.carts[userID] = cart
			s.persist(userID, cart)
			return nil
		}
	}

	cart = append(cart, models.CartItem{Product: product, Cantidad: 1})
	s.carts[userID] = cart
	s.persist(userID, cart)
	return nil
}

// RemoveItem deletes the matching line. When the cart becomes empty the
// selected provider is cleared as well.
func (s *CartService) RemoveItem(userID string, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	for i, item := range cart {
		if item.Product.ID == productID {
			cart = append(cart[:i], cart[i+1:]...)
			s.carts[userID] = cart
			s.persist(userID, cart)
			if len(cart) == 0 && s.seleccion != nil {
				s.seleccion.ClearSelectedProveedor(userID)
			}
			return nil
		}
	}
	return ErrNoEnCarro
}

// UpdateQuantity sets the quantity of the matching line. An out-of-range
// quantity is rejected without touching the stored value.
func (s *CartService) UpdateQuantity(userID string, productID string, cantidad int) error {
	if cantidad < models.MinCantidad || cantidad > models.MaxCantidad {
		return ErrCantidadInvalida
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	for i, item := range cart {
		if item.Product.ID == productID {
			cart[i].Cantidad = cantidad
			s.carts[userID] = cart
			s.persist(userID, cart)
			return nil
		}
	}
	return ErrNoEnCarro
}

// ClearCart empties the cart and persists the empty state.
func (s *CartService) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[userID] = nil
	s.persist(userID, nil)
}

// Items returns a copy of the cart's current line items in insertion order.
func (s *CartService) Items(userID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	snapshot := make([]models.CartItem, len(cart))
	copy(snapshot, cart)
	return snapshot
}

// Total returns the cart total in integer pesos.
func (s *CartService) Total(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.carts[userID] {
		total += item.Subtotal()
	}
	return total
}

// persist writes the snapshot in the background. Failures are logged, never
// surfaced, and never roll the in-memory cart back.
func (s *CartService) persist(userID string, items []models.CartItem) {
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveCart(ctx, userID, snapshot); err != nil {
			log.Printf("Warning: failed to persist cart for user %s: %v", userID, err)
		}
	}()
}
