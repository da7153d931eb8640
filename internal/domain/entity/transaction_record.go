package entity

import "time"

// TransactionType tipo de movimiento registrado.
type TransactionType string

// Tipos de movimiento de inventario.
const (
	TransactionIn  TransactionType = "in"  // entrada
	TransactionOut TransactionType = "out" // salida
)

// Valid indica si el tipo es uno de los soportados.
func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// TransactionRecord es el registro inmutable de una entrada o salida de stock.
// Solo se agrega; se elimina únicamente por borrado en cascada del producto o ubicación.
type TransactionRecord struct {
	ID         string          `json:"id"`
	Type       TransactionType `json:"type"`
	ProductID  string          `json:"productId"`
	LocationID string          `json:"locationId"`
	Quantity   int             `json:"quantity"`
	Operator   string          `json:"operator"`
	Timestamp  time.Time       `json:"timestamp"`
	Note       string          `json:"note"`
}
