// Binario de arranque del motor de inventario. Abre el store configurado,
// construye el motor y deja un resumen del estado en el log. Las capas de
// presentación (GUI) consumen el mismo motor como librería.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/internal/engine"
	"github.com/dverano/inventario-core/internal/infrastructure/gormstore"
	"github.com/dverano/inventario-core/internal/infrastructure/jsonstore"
	"github.com/dverano/inventario-core/pkg/config"
	"github.com/dverano/inventario-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuración inválida:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	log.Info().Str("app", cfg.App.Name).Str("driver", cfg.Store.Driver).Msg("iniciando motor de inventario")

	var store repository.Store
	var js *jsonstore.Store
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		store, err = gormstore.Open(cfg.Store.SQLitePath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("no se pudo abrir la base de datos")
		}
	default:
		js = jsonstore.New(afero.NewOsFs(), cfg.Store.DataDir, log)
		store = js
	}

	eng := engine.New(store, engine.Options{
		Logger:    log,
		BackupDir: cfg.Backup.Dir,
	})

	snap, err := eng.Analytics.DashboardSnapshot()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo leer el estado inicial")
	}

	// Las advertencias de carga (colecciones corruptas reemplazadas por su
	// valor por defecto) se reportan, no se ignoran.
	if js != nil {
		for _, w := range js.Warnings() {
			log.Warn().Str("detalle", w).Msg("advertencia de carga")
		}
	}

	log.Info().
		Int("productos", snap.TotalProducts).
		Int("unidades", snap.TotalItems).
		Str("valor_total", snap.TotalValue.String()).
		Int("stock_bajo", snap.LowStockCount).
		Int("sin_stock", snap.OutOfStockCount).
		Msg("motor de inventario listo")
}
