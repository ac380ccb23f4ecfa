package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverano/inventario-core/internal/application/inventory"
	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
)

// TestAdjustStock_Escenario cubre el flujo de referencia: alta con stock
// inicial, una salida aceptada y una salida rechazada que no deja rastro.
func TestAdjustStock_Escenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		registry, ledger := newComponents(store)

		_, err := registry.Add(inventory.CreateProductInput{
			Code:     "P1",
			Name:     "Café molido",
			Price:    decimal.NewFromFloat(5.0),
			Quantity: 10,
		})
		require.NoError(t, err)

		p, err := registry.Get("P1")
		require.NoError(t, err)
		assert.Equal(t, 10, p.Quantity)

		movs, err := ledger.ByProduct("P1")
		require.NoError(t, err)
		require.Len(t, movs, 1)
		assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
		assert.Equal(t, 10, movs[0].Quantity)
		assert.Equal(t, inventory.ReasonInitialStock, movs[0].Reason)

		// Salida aceptada
		p2, mov, err := ledger.AdjustStock("P1", -3, "venta", "")
		require.NoError(t, err)
		assert.Equal(t, 7, p2.Quantity)
		assert.Equal(t, entity.MovementTypeOut, mov.Type)
		assert.Equal(t, 3, mov.Quantity)
		assert.Equal(t, entity.SystemUser, mov.User)

		// Salida rechazada: sin mutación y sin movimiento nuevo
		_, _, err = ledger.AdjustStock("P1", -10, "venta", "")
		require.ErrorIs(t, err, domain.ErrInsufficientStock)

		p3, err := registry.Get("P1")
		require.NoError(t, err)
		assert.Equal(t, 7, p3.Quantity)

		movs, err = ledger.ByProduct("P1")
		require.NoError(t, err)
		assert.Len(t, movs, 2)
	})
}

// TestAdjustStock_AcumulaDeltas verifica que la cantidad final es la inicial
// más la suma de los deltas aceptados, nunca negativa.
func TestAdjustStock_AcumulaDeltas(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		registry, ledger := newComponents(store)

		_, err := registry.Add(inventory.CreateProductInput{
			Code: "P1", Name: "Arroz", Price: decimal.NewFromInt(2), Quantity: 5,
		})
		require.NoError(t, err)

		deltas := []int{+4, -2, -20, +10, -3} // -20 se rechaza: dejaría la cantidad negativa
		accepted := 5
		for _, d := range deltas {
			_, _, err := ledger.AdjustStock("P1", d, "ajuste", "tester")
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
				continue
			}
			accepted += d
		}

		p, err := registry.Get("P1")
		require.NoError(t, err)
		assert.Equal(t, accepted, p.Quantity)
		assert.GreaterOrEqual(t, p.Quantity, 0)

		// Un movimiento por delta aceptado más el inicial
		movs, err := ledger.All()
		require.NoError(t, err)
		total := 0
		for _, m := range movs {
			assert.Positive(t, m.Quantity)
			if m.Type == entity.MovementTypeIn {
				total += m.Quantity
			} else {
				total -= m.Quantity
			}
		}
		assert.Equal(t, p.Quantity, total)
	})
}

// TestRecord_IDsMonotonicos los IDs crecen estrictamente sin importar el producto.
func TestRecord_IDsMonotonicos(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		_, ledger := newComponents(store)

		codes := []string{"A", "B", "A", "C", "B"}
		var last int
		for _, code := range codes {
			mov, err := ledger.Record(entity.MovementTypeIn, code, 1, "carga", "tester")
			require.NoError(t, err)
			assert.Greater(t, mov.ID, last)
			last = mov.ID
		}
		assert.Equal(t, len(codes), last)
	})
}

func TestRecord_EntradaInvalida(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		_, ledger := newComponents(store)

		_, err := ledger.Record("ENTRADA", "P1", 1, "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = ledger.Record(entity.MovementTypeIn, "P1", 0, "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = ledger.Record(entity.MovementTypeOut, "", 1, "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		_, ledger := newComponents(store)

		_, _, err := ledger.AdjustStock("NO-EXISTE", 5, "carga", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		movs, err := ledger.All()
		require.NoError(t, err)
		assert.Empty(t, movs)
	})
}

func TestAdjustStock_DeltaCero(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		_, ledger := newComponents(store)
		_, _, err := ledger.AdjustStock("P1", 0, "nada", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// TestConsultas verifica los filtros del libro y el orden descendente por fecha.
func TestConsultas(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		_, ledger := newComponents(store)

		_, err := ledger.Record(entity.MovementTypeIn, "P1", 10, "carga", "")
		require.NoError(t, err)
		_, err = ledger.Record(entity.MovementTypeOut, "P1", 3, "venta", "")
		require.NoError(t, err)
		_, err = ledger.Record(entity.MovementTypeIn, "P2", 7, "carga", "")
		require.NoError(t, err)

		byProduct, err := ledger.ByProduct("P1")
		require.NoError(t, err)
		require.Len(t, byProduct, 2)
		// Más reciente primero; a misma fecha decide el ID
		assert.GreaterOrEqual(t, byProduct[0].ID, byProduct[1].ID)

		entries, err := ledger.ByType(entity.MovementTypeIn)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		exits, err := ledger.ByType(entity.MovementTypeOut)
		require.NoError(t, err)
		assert.Len(t, exits, 1)

		_, err = ledger.ByType("cualquiera")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		recent, err := ledger.Recent(2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "P2", recent[0].ProductCode)

		today := time.Now()
		inRange, err := ledger.ByDateRange(today, today)
		require.NoError(t, err)
		assert.Len(t, inRange, 3)

		yesterday := today.AddDate(0, 0, -1)
		empty, err := ledger.ByDateRange(yesterday, yesterday)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
