package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Piecework-api/internal/domain"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

func manual(product string, variant *string, kind string, qty int64) ManualMovementInput {
	return ManualMovementInput{Product: product, Variant: variant, Kind: kind, Quantity: qty, UserID: "u-1"}
}

func TestRecordManualMovement_EntradaYSalida(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)
	ctx := context.Background()

	res, err := uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindEntry, 10))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindManualEntry, res.Movement.Kind)
	assert.EqualValues(t, 10, res.Balance)

	res, err = uc.RecordManualMovement(ctx, manual("Camiseta", nil, "exit", 4))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindManualExit, res.Movement.Kind)
	assert.EqualValues(t, -4, res.Movement.Quantity, "las salidas se guardan con signo negativo")
	assert.EqualValues(t, 10, res.PreviousBalance)
	assert.EqualValues(t, 6, res.Balance)
}

func TestRecordManualMovement_SalidaSinSaldo(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)
	ctx := context.Background()
	_, err := uc.RecordManualMovement(ctx, manual("Camiseta", strPtr("Azul"), ManualKindEntry, 3))
	require.NoError(t, err)

	_, err = uc.RecordManualMovement(ctx, manual("Camiseta", strPtr("Azul"), ManualKindExit, 5))

	var insufficient *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Zero(t, insufficient.BatchID)
	assert.EqualValues(t, 3, insufficient.Available)
	assert.EqualValues(t, 2, insufficient.Shortfall())
	assert.Equal(t, 1, s.movementCount(), "la salida rechazada no se registra")
}

func TestRecordManualMovement_Balance(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)
	ctx := context.Background()

	res, err := uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindBalance, 0))
	require.NoError(t, err)
	assert.True(t, res.NoAdjustmentNeeded, "contar 0 sin movimientos previos no genera ajuste")
	assert.Nil(t, res.Movement)
	assert.Zero(t, s.movementCount())

	_, err = uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindEntry, 10))
	require.NoError(t, err)

	res, err = uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindBalance, 17))
	require.NoError(t, err)
	require.NotNil(t, res.Movement)
	assert.Equal(t, entity.MovementKindBalanceAdjustmentPos, res.Movement.Kind)
	assert.EqualValues(t, 7, res.Movement.Quantity)
	assert.EqualValues(t, 17, res.Balance)

	res, err = uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindBalance, 10))
	require.NoError(t, err)
	require.NotNil(t, res.Movement)
	assert.Equal(t, entity.MovementKindBalanceAdjustmentNeg, res.Movement.Kind)
	assert.EqualValues(t, -7, res.Movement.Quantity)
	assert.EqualValues(t, 10, res.Balance)

	res, err = uc.RecordManualMovement(ctx, manual("Camiseta", nil, ManualKindBalance, 10))
	require.NoError(t, err)
	assert.True(t, res.NoAdjustmentNeeded)
	assert.Equal(t, 3, s.movementCount())
}

func TestRecordManualMovement_LockAntesDeLeerSaldo(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)

	_, err := uc.RecordManualMovement(context.Background(), manual("Camiseta", strPtr("Azul"), ManualKindBalance, 5))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(s.opLog), 2)
	assert.Equal(t, "lockkey:Camiseta|Azul", s.opLog[0])
	assert.Equal(t, "balance", s.opLog[1])
}

func TestRecordManualMovement_PlaceholdersDeVarianteColapsan(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)
	ctx := context.Background()

	for _, v := range []*string{nil, strPtr(""), strPtr("  "), strPtr("null"), strPtr("N/A")} {
		_, err := uc.RecordManualMovement(ctx, manual("Camiseta", v, ManualKindEntry, 1))
		require.NoError(t, err)
	}

	balances, err := newTestReporting(s).GetBalances(ctx, BalanceQuery{})
	require.NoError(t, err)
	require.Len(t, balances, 1, "todas las formas de 'sin variante' son una sola clave")
	assert.Nil(t, balances[0].Variant)
	assert.EqualValues(t, 5, balances[0].Balance)
}

func TestRecordManualMovement_EntradaInvalida(t *testing.T) {
	s := newMemStore()
	uc := newTestManual(s)

	cases := map[string]ManualMovementInput{
		"tipo desconocido": manual("Camiseta", nil, "TRANSFER", 1),
		"entrada en cero":  manual("Camiseta", nil, ManualKindEntry, 0),
		"salida negativa":  manual("Camiseta", nil, ManualKindExit, -2),
		"balance negativo": manual("Camiseta", nil, ManualKindBalance, -1),
		"sin producto":     manual("  ", nil, ManualKindEntry, 1),
		"sin usuario":      {Product: "Camiseta", Kind: ManualKindEntry, Quantity: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RecordManualMovement(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, s.movementCount())
}
