package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// ClassifyStock implementa la clasificación de stock (servicio de dominio).
// Cantidad 0 => agotado; cantidad <= umbral => stock bajo (comparación inclusiva); resto => normal.
func ClassifyStock(quantity, threshold int) entity.StockStatus {
	switch {
	case quantity <= 0:
		return entity.StockOut
	case quantity <= threshold:
		return entity.StockLow
	default:
		return entity.StockNormal
	}
}

// NextQuantity calcula la cantidad resultante de aplicar un movimiento.
// Una salida que dejaría la cantidad por debajo de cero devuelve ErrInsufficientStock;
// una entrada que desbordaría el entero se rechaza como ErrInvalidInput.
func NextQuantity(current int, typ entity.TransactionType, quantity int) (int, error) {
	if quantity <= 0 {
		return current, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	switch typ {
	case entity.TransactionIn:
		if quantity > math.MaxInt-current {
			return current, fmt.Errorf("%w: la cantidad excede el máximo admitido", domain.ErrInvalidInput)
		}
		return current + quantity, nil
	case entity.TransactionOut:
		if current < quantity {
			return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, quantity)
		}
		return current - quantity, nil
	default:
		return current, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, typ)
	}
}
