// Package inventory contiene el registro de productos y el libro de
// movimientos de stock, que comparten el candado global del motor porque
// AdjustStock y Add (con stock inicial) mutan ambas colecciones.
package inventory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// MovementLedger es el libro de movimientos: append-only, ordenado por
// inserción, con IDs estrictamente crecientes (max+1, desde 1).
type MovementLedger struct {
	mu    *sync.Mutex
	store repository.Store
	log   *logger.Logger
}

// NewMovementLedger construye el libro sobre el candado compartido del motor.
func NewMovementLedger(mu *sync.Mutex, store repository.Store, log *logger.Logger) *MovementLedger {
	return &MovementLedger{mu: mu, store: store, log: log}
}

// Record agrega un movimiento al libro sin tocar el estado del producto.
// Para cambios de cantidad usar AdjustStock, que mantiene ambos en sincronía.
func (l *MovementLedger) Record(movType, productCode string, quantity int, reason, user string) (*entity.Movement, error) {
	if !entity.ValidMovementType(movType) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, movType)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad del movimiento debe ser positiva", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(productCode) == "" {
		return nil, fmt.Errorf("%w: el código de producto es obligatorio", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recordLocked(movType, productCode, quantity, reason, user)
}

// recordLocked hace el append con el candado ya tomado. Lo usan también
// ProductRegistry.Add (stock inicial) y AdjustStock dentro de su operación.
func (l *MovementLedger) recordLocked(movType, productCode string, quantity int, reason, user string) (*entity.Movement, error) {
	movements, err := l.store.LoadMovements()
	if err != nil {
		return nil, err
	}
	if user == "" {
		user = entity.SystemUser
	}
	mov := entity.Movement{
		ID:          nextMovementID(movements),
		Date:        time.Now(),
		Type:        movType,
		ProductCode: productCode,
		Quantity:    quantity,
		Reason:      reason,
		User:        user,
	}
	movements = append(movements, mov)
	if err := l.store.SaveMovements(movements); err != nil {
		return nil, err
	}
	l.log.Debug().
		Int("id", mov.ID).
		Str("tipo", mov.Type).
		Str("producto", mov.ProductCode).
		Int("cantidad", mov.Quantity).
		Msg("movimiento registrado")
	return &mov, nil
}

// AdjustStock aplica un delta con signo a la cantidad de un producto y registra
// exactamente un movimiento. Si el delta dejaría la cantidad negativa falla con
// ErrInsufficientStock sin mutar nada ni escribir en el libro.
//
// Orden de escrituras: primero el producto, luego el movimiento. Si la segunda
// escritura falla se devuelve ErrPersistence y el caller debe recargar.
func (l *MovementLedger) AdjustStock(code string, delta int, reason, user string) (*entity.Product, *entity.Movement, error) {
	if delta == 0 {
		return nil, nil, fmt.Errorf("%w: el delta no puede ser cero", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	products, err := l.store.LoadProducts()
	if err != nil {
		return nil, nil, err
	}
	idx := findProduct(products, code)
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, code)
	}

	newQuantity := products[idx].Quantity + delta
	if newQuantity < 0 {
		return nil, nil, fmt.Errorf("%w: producto %q tiene %d unidades, se pidieron %d",
			domain.ErrInsufficientStock, code, products[idx].Quantity, -delta)
	}

	products[idx].Quantity = newQuantity
	products[idx].UpdatedAt = time.Now()
	if err := l.store.SaveProducts(products); err != nil {
		return nil, nil, err
	}

	movType := entity.MovementTypeIn
	quantity := delta
	if delta < 0 {
		movType = entity.MovementTypeOut
		quantity = -delta
	}
	mov, err := l.recordLocked(movType, products[idx].Code, quantity, reason, user)
	if err != nil {
		// El producto ya quedó escrito: estado potencialmente inconsistente.
		return nil, nil, fmt.Errorf("%w: movimiento no registrado tras actualizar stock, recargue los datos: %v",
			domain.ErrPersistence, err)
	}

	product := products[idx]
	return &product, mov, nil
}

// ByProduct devuelve los movimientos de un producto, más recientes primero.
// Incluye movimientos de productos ya eliminados (referencias colgantes).
func (l *MovementLedger) ByProduct(code string) ([]entity.Movement, error) {
	return l.filtered(func(m entity.Movement) bool {
		return strings.EqualFold(m.ProductCode, code)
	})
}

// ByDateRange devuelve los movimientos entre from y to, ambos inclusive con
// granularidad de día, más recientes primero.
func (l *MovementLedger) ByDateRange(from, to time.Time) ([]entity.Movement, error) {
	start := startOfDay(from)
	end := startOfDay(to).Add(24 * time.Hour)
	return l.filtered(func(m entity.Movement) bool {
		return !m.Date.Before(start) && m.Date.Before(end)
	})
}

// ByType devuelve los movimientos de un tipo, más recientes primero.
func (l *MovementLedger) ByType(movType string) ([]entity.Movement, error) {
	if !entity.ValidMovementType(movType) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, movType)
	}
	return l.filtered(func(m entity.Movement) bool { return m.Type == movType })
}

// Recent devuelve los últimos n movimientos, más recientes primero.
func (l *MovementLedger) Recent(n int) ([]entity.Movement, error) {
	movements, err := l.filtered(func(entity.Movement) bool { return true })
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(movements) > n {
		movements = movements[:n]
	}
	return movements, nil
}

// All devuelve el libro completo, más recientes primero.
func (l *MovementLedger) All() ([]entity.Movement, error) {
	return l.filtered(func(entity.Movement) bool { return true })
}

func (l *MovementLedger) filtered(keep func(entity.Movement) bool) ([]entity.Movement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	movements, err := l.store.LoadMovements()
	if err != nil {
		return nil, err
	}
	out := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if keep(m) {
			out = append(out, m)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func nextMovementID(movements []entity.Movement) int {
	max := 0
	for _, m := range movements {
		if m.ID > max {
			max = m.ID
		}
	}
	return max + 1
}

func sortByDateDesc(movements []entity.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.After(movements[j].Date)
		}
		return movements[i].ID > movements[j].ID
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func findProduct(products []entity.Product, code string) int {
	for i := range products {
		if strings.EqualFold(products[i].Code, code) {
			return i
		}
	}
	return -1
}
