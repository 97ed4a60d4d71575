package models

import "time"

// Estado values of a pedido. The set is closed; these exact strings travel
// between clients and backend.
const (
	EstadoPendiente = "Pendiente"
	EstadoAceptado  = "Aceptado"
	EstadoRechazado = "Rechazado"
	EstadoLlegado   = "Llegado"
	EstadoCancelado = "Cancelado"
)

// transiciones maps each estado to the estados reachable from it. Terminal
// estados (Rechazado, Llegado, Cancelado) map to nothing.
var transiciones = map[string][]string{
	EstadoPendiente: {EstadoAceptado, EstadoRechazado, EstadoCancelado},
	EstadoAceptado:  {EstadoLlegado},
}

// EstadoValido reports whether s is a member of the estado enum.
func EstadoValido(s string) bool {
	switch s {
	case EstadoPendiente, EstadoAceptado, EstadoRechazado, EstadoLlegado, EstadoCancelado:
		return true
	}
	return false
}

// TransicionValida reports whether a pedido may move from estado `from` to
// estado `to`.
func TransicionValida(from, to string) bool {
	for _, next := range transiciones[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EstadoTerminal reports whether no further transition is allowed from s.
func EstadoTerminal(s string) bool {
	return EstadoValido(s) && len(transiciones[s]) == 0
}

// Ubicacion is a resolved geocoded address.
type Ubicacion struct {
	Direccion string  `json:"direccion"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Pedido is an order placed by a cliente against a proveedor's catalog.
// Line items are frozen at creation time; after that only the estado field
// (and its companion timestamps) ever changes.
type Pedido struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClienteID          string     `json:"clienteId" gorm:"index;type:varchar(36)"`
	ConductorID        string     `json:"conductorId" gorm:"index;type:varchar(36)"`
	NombreCliente      string     `json:"nombreCliente"`
	UbicacionCliente   Ubicacion  `json:"ubicacionCliente" gorm:"embedded;embeddedPrefix:cliente_"`
	UbicacionProveedor Ubicacion  `json:"ubicacionProveedor" gorm:"embedded;embeddedPrefix:proveedor_"`
	Producto           LineItems  `json:"producto" gorm:"type:text"`
	Precio             int        `json:"precio"`
	Estado             string     `json:"estado" gorm:"index;type:varchar(20)"`
	Timestamp          time.Time  `json:"timestamp"`
	TimestampAceptado  *time.Time `json:"timestampAceptado,omitempty"`
	TimestampLlegada   *time.Time `json:"timestampLlegada,omitempty"`
}
