package inventory_test

import (
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dverano/inventario-core/internal/application/inventory"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/internal/infrastructure/gormstore"
	"github.com/dverano/inventario-core/internal/infrastructure/jsonstore"
	"github.com/dverano/inventario-core/pkg/logger"
)

// newComponents arma registro y libro sobre un mismo candado, como hace el
// motor en producción.
func newComponents(store repository.Store) (*inventory.ProductRegistry, *inventory.MovementLedger) {
	mu := &sync.Mutex{}
	ledger := inventory.NewMovementLedger(mu, store, logger.NewNop())
	registry := inventory.NewProductRegistry(mu, store, ledger, logger.NewNop())
	return registry, ledger
}

// newMemStore adaptador JSON sobre filesystem en memoria, para los tests que
// no necesitan correr contra ambos adaptadores.
func newMemStore() repository.Store {
	return jsonstore.New(afero.NewMemMapFs(), "data", logger.NewNop())
}

// forEachStore corre el mismo test contra el adaptador JSON y el relacional:
// la lógica de negocio no depende del formato de almacenamiento.
func forEachStore(t *testing.T, fn func(t *testing.T, store repository.Store)) {
	t.Run("json", func(t *testing.T) {
		fn(t, jsonstore.New(afero.NewMemMapFs(), "data", logger.NewNop()))
	})
	t.Run("sqlite", func(t *testing.T) {
		store, err := gormstore.Open(":memory:", logger.NewNop())
		require.NoError(t, err)
		fn(t, store)
	})
}
