package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientBalanceError(t *testing.T) {
	err := fmt.Errorf("montaje: %w", &InsufficientBalanceError{BatchID: 7, Product: "Camiseta", Requested: 71, Available: 70})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	var detail *InsufficientBalanceError
	require.True(t, errors.As(err, &detail))
	assert.EqualValues(t, 1, detail.Shortfall())
	assert.Contains(t, err.Error(), "lote 7")

	stock := &InsufficientBalanceError{Product: "Camiseta", Requested: 5, Available: 3}
	assert.Contains(t, stock.Error(), "Camiseta")
	assert.NotContains(t, stock.Error(), "lote")
}

func TestBatchNotFoundError(t *testing.T) {
	err := fmt.Errorf("recibir: %w", &BatchNotFoundError{BatchID: 3})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, "recibir: lote 3 no encontrado", err.Error())
}
