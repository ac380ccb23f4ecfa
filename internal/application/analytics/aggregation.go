// Package analytics contiene las consultas derivadas de solo lectura sobre
// productos y movimientos. Todo se recalcula bajo demanda: el volumen es
// pequeño y un caché desactualizado sería un riesgo de corrección.
package analytics

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
)

// UnassignedGroup cubeta para productos sin categoría o sin proveedor.
const UnassignedGroup = "sin asignar"

const dashboardRecentMovements = 10 // movimientos en el widget del dashboard

// GroupStats totales de un grupo (categoría o proveedor).
type GroupStats struct {
	Products int             // productos distintos
	Units    int             // unidades sumadas
	Value    decimal.Decimal // Σ precio × cantidad
}

// StockLevels conteo de productos por nivel de stock frente al umbral global.
type StockLevels struct {
	OutOfStock int
	LowStock   int
	Normal     int
}

// DashboardSnapshot resumen para la pantalla principal.
type DashboardSnapshot struct {
	TotalProducts   int
	TotalItems      int
	TotalValue      decimal.Decimal
	LowStockCount   int
	OutOfStockCount int
	TotalSuppliers  int
	TotalCategories int
	RecentMovements []entity.Movement
}

// AggregationEngine consultas agregadas; nunca muta estado.
type AggregationEngine struct {
	mu    *sync.Mutex
	store repository.Store
}

// NewAggregationEngine construye el motor de agregación sobre el candado compartido.
func NewAggregationEngine(mu *sync.Mutex, store repository.Store) *AggregationEngine {
	return &AggregationEngine{mu: mu, store: store}
}

// TotalInventoryValue devuelve Σ(precio × cantidad) sobre los productos
// actuales, redondeado a 2 decimales. Nunca se almacena, siempre se deriva.
func (a *AggregationEngine) TotalInventoryValue() (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	products, err := a.store.LoadProducts()
	if err != nil {
		return decimal.Zero, err
	}
	return totalValue(products), nil
}

// TotalItemsCount devuelve la suma de cantidades de todos los productos.
func (a *AggregationEngine) TotalItemsCount() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	products, err := a.store.LoadProducts()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, p := range products {
		total += p.Quantity
	}
	return total, nil
}

// LowStock devuelve los productos con cantidad ≤ threshold.
func (a *AggregationEngine) LowStock(threshold int) ([]entity.Product, error) {
	return a.filter(func(p entity.Product) bool { return p.Quantity <= threshold })
}

// LowStockByGlobalThreshold devuelve los productos con cantidad ≤ el umbral
// global de configuración. Consulta distinta de LowStockByMinStock: el umbral
// global alimenta reportes, el mínimo por producto alimenta alertas puntuales.
func (a *AggregationEngine) LowStockByGlobalThreshold() ([]entity.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, err := a.store.LoadSettings()
	if err != nil {
		return nil, err
	}
	products, err := a.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Quantity <= cfg.LowStockThreshold {
			out = append(out, p)
		}
	}
	return out, nil
}

// LowStockByMinStock devuelve los productos con cantidad ≤ su propio MinStock.
func (a *AggregationEngine) LowStockByMinStock() ([]entity.Product, error) {
	return a.filter(func(p entity.Product) bool { return p.Quantity <= p.MinStock })
}

// OutOfStock devuelve los productos con cantidad cero.
func (a *AggregationEngine) OutOfStock() ([]entity.Product, error) {
	return a.filter(func(p entity.Product) bool { return p.Quantity == 0 })
}

// GroupByCategory agrupa totales por categoría, con cubeta "sin asignar" para
// productos sin referencia.
func (a *AggregationEngine) GroupByCategory() (map[string]GroupStats, error) {
	return a.group(func(p entity.Product) string { return p.Category })
}

// GroupBySupplier agrupa totales por proveedor, con cubeta "sin asignar".
func (a *AggregationEngine) GroupBySupplier() (map[string]GroupStats, error) {
	return a.group(func(p entity.Product) string { return p.Supplier })
}

// StockLevelBreakdown clasifica cada producto en sin stock, stock bajo o
// normal según el umbral global.
func (a *AggregationEngine) StockLevelBreakdown() (StockLevels, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, err := a.store.LoadSettings()
	if err != nil {
		return StockLevels{}, err
	}
	products, err := a.store.LoadProducts()
	if err != nil {
		return StockLevels{}, err
	}
	var levels StockLevels
	for _, p := range products {
		switch {
		case p.Quantity == 0:
			levels.OutOfStock++
		case p.Quantity <= cfg.LowStockThreshold:
			levels.LowStock++
		default:
			levels.Normal++
		}
	}
	return levels, nil
}

// DashboardSnapshot arma el resumen completo del dashboard en una sola pasada
// bajo el candado, para que todos los números salgan del mismo estado.
func (a *AggregationEngine) DashboardSnapshot() (*DashboardSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	products, err := a.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	movements, err := a.store.LoadMovements()
	if err != nil {
		return nil, err
	}
	suppliers, err := a.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	categories, err := a.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	cfg, err := a.store.LoadSettings()
	if err != nil {
		return nil, err
	}

	snap := &DashboardSnapshot{
		TotalProducts:   len(products),
		TotalValue:      totalValue(products),
		TotalSuppliers:  len(suppliers),
		TotalCategories: len(categories),
	}
	for _, p := range products {
		snap.TotalItems += p.Quantity
		if p.Quantity == 0 {
			snap.OutOfStockCount++
		}
		if p.Quantity <= cfg.LowStockThreshold {
			snap.LowStockCount++
		}
	}

	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.After(movements[j].Date)
		}
		return movements[i].ID > movements[j].ID
	})
	if len(movements) > dashboardRecentMovements {
		movements = movements[:dashboardRecentMovements]
	}
	snap.RecentMovements = movements
	return snap, nil
}

func (a *AggregationEngine) filter(keep func(entity.Product) bool) ([]entity.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	products, err := a.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *AggregationEngine) group(key func(entity.Product) string) (map[string]GroupStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	products, err := a.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	groups := make(map[string]GroupStats)
	for _, p := range products {
		k := key(p)
		if k == "" {
			k = UnassignedGroup
		}
		g := groups[k]
		g.Products++
		g.Units += p.Quantity
		g.Value = g.Value.Add(p.Value())
		groups[k] = g
	}
	return groups, nil
}

func totalValue(products []entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Value())
	}
	return total.Round(2)
}
