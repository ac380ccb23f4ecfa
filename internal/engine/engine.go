// Package engine arma el motor de inventario completo: un objeto explícito
// que se construye una vez al arrancar el proceso y se pasa por referencia a
// cada consumidor. No hay estado global.
package engine

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/dverano/inventario-core/internal/application/analytics"
	"github.com/dverano/inventario-core/internal/application/backup"
	"github.com/dverano/inventario-core/internal/application/catalog"
	"github.com/dverano/inventario-core/internal/application/inventory"
	"github.com/dverano/inventario-core/internal/application/settings"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// Engine agrupa todos los componentes del motor sobre un único Store y un
// único mutex. El candado es uno solo para todo el estado: AdjustStock y
// Restore hacen escrituras dependientes que deben verse atómicas, y con la
// carga esperada no vale la pena afinar más.
type Engine struct {
	mu sync.Mutex

	Products   *inventory.ProductRegistry
	Ledger     *inventory.MovementLedger
	Suppliers  *catalog.SupplierRegistry
	Categories *catalog.CategoryRegistry
	Settings   *settings.Store
	Analytics  *analytics.AggregationEngine
	Backups    *backup.Manager
}

// Options parámetros opcionales de construcción.
type Options struct {
	Logger    *logger.Logger // nil → logger descartable
	BackupFs  afero.Fs       // nil → sistema de archivos real
	BackupDir string         // vacío → "backups"
}

// New construye el motor sobre el Store dado.
func New(store repository.Store, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	fs := opts.BackupFs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := opts.BackupDir
	if dir == "" {
		dir = "backups"
	}

	e := &Engine{}
	e.Ledger = inventory.NewMovementLedger(&e.mu, store, log)
	e.Products = inventory.NewProductRegistry(&e.mu, store, e.Ledger, log)
	e.Suppliers = catalog.NewSupplierRegistry(&e.mu, store, log)
	e.Categories = catalog.NewCategoryRegistry(&e.mu, store, log)
	e.Settings = settings.New(&e.mu, store, log)
	e.Analytics = analytics.NewAggregationEngine(&e.mu, store)
	e.Backups = backup.NewManager(&e.mu, store, fs, dir, log)
	return e
}
