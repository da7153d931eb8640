package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/domain"
	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/inventory"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		threshold int
		want      entity.StockStatus
	}{
		{"cero es agotado", 0, 5, entity.StockOut},
		{"igual al umbral es bajo", 5, 5, entity.StockLow},
		{"debajo del umbral", 3, 5, entity.StockLow},
		{"sobre el umbral", 6, 5, entity.StockNormal},
		{"umbral cero", 1, 0, entity.StockNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.ClassifyStock(tt.qty, tt.threshold))
		})
	}
}

func TestNextQuantity(t *testing.T) {
	got, err := inventory.NextQuantity(10, entity.TransactionIn, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, got)

	got, err = inventory.NextQuantity(10, entity.TransactionOut, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = inventory.NextQuantity(10, entity.TransactionOut, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, got)

	_, err = inventory.NextQuantity(10, entity.TransactionIn, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.NextQuantity(10, entity.TransactionType("x"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNextQuantity_Overflow(t *testing.T) {
	got, err := inventory.NextQuantity(math.MaxInt-1, entity.TransactionIn, 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	got, err = inventory.NextQuantity(math.MaxInt, entity.TransactionIn, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, math.MaxInt, got)

	_, err = inventory.NextQuantity(1, entity.TransactionIn, math.MaxInt)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
