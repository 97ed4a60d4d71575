package services

import (
	"errors"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
)

// Chat business-rule rejections.
var (
	ErrChatDeshabilitado = errors.New("el chat solo está disponible para pedidos aceptados")
	ErrNoParticipante    = errors.New("solo el cliente y el proveedor del pedido pueden chatear")
)

// ChatService handles the in-pedido chat between a client and the assigned
// provider. The chat opens when the pedido is accepted; history stays readable
// afterwards but nothing new can be sent once the pedido leaves Aceptado.
type ChatService struct {
	mensajeRepo repositories.MensajeRepository
	pedidoRepo  repositories.PedidoRepository
}

// NewChatService creates a new ChatService.
func NewChatService(mensajeRepo repositories.MensajeRepository, pedidoRepo repositories.PedidoRepository) *ChatService {
	return &ChatService{
		mensajeRepo: mensajeRepo,
		pedidoRepo:  pedidoRepo,
	}
}

// EnviarMensaje appends a message to a pedido's chat.
func (s *ChatService) EnviarMensaje(pedidoID string, senderID string, senderNombre string, texto string) (*models.Mensaje, error) {
	pedido, err := s.pedidoRepo.GetByID(pedidoID)
	if err != nil {
		return nil, err
	}
	if senderID != pedido.ClienteID && senderID != pedido.ConductorID {
		return nil, ErrNoParticipante
	}
	if pedido.Estado != models.EstadoAceptado {
		return nil, ErrChatDeshabilitado
	}

	mensaje := &models.Mensaje{
		PedidoID:     pedidoID,
		SenderID:     senderID,
		SenderNombre: senderNombre,
		Texto:        texto,
	}
	if err := s.mensajeRepo.Create(mensaje); err != nil {
		return nil, err
	}
	return mensaje, nil
}

// Mensajes returns a pedido's chat history, oldest first. Participants may
// read history in any estado.
func (s *ChatService) Mensajes(pedidoID string, solicitanteID string) ([]models.Mensaje, error) {
	pedido, err := s.pedidoRepo.GetByID(pedidoID)
	if err != nil {
		return nil, err
	}
	if solicitanteID != pedido.ClienteID && solicitanteID != pedido.ConductorID {
		return nil, ErrNoParticipante
	}
	return s.mensajeRepo.GetByPedido(pedidoID)
}
