package inventory

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// ReasonInitialStock motivo del movimiento de entrada emitido al crear un
// producto con cantidad inicial positiva.
const ReasonInitialStock = "stock inicial"

// ProductRegistry casos de uso CRUD para productos. La cantidad solo se
// modifica vía MovementLedger.AdjustStock; Update no la toca.
type ProductRegistry struct {
	mu     *sync.Mutex
	store  repository.Store
	ledger *MovementLedger
	log    *logger.Logger
}

// NewProductRegistry construye el registro sobre el candado compartido.
func NewProductRegistry(mu *sync.Mutex, store repository.Store, ledger *MovementLedger, log *logger.Logger) *ProductRegistry {
	return &ProductRegistry{mu: mu, store: store, ledger: ledger, log: log}
}

// CreateProductInput entrada para Add. Quantity es el stock inicial.
type CreateProductInput struct {
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	MinStock    int
	Category    string
	Supplier    string
	Location    string
	Barcode     string
	Weight      float64
	Dimensions  string
}

// UpdateProductInput entrada para Update; solo los campos no nil se aplican.
// Code y Quantity no son modificables por esta vía.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	MinStock    *int
	Category    *string
	Supplier    *string
	Location    *string
	Barcode     *string
	Weight      *float64
	Dimensions  *string
}

// Add crea un producto. Valida antes de persistir; con código duplicado falla
// ErrDuplicate. Si la cantidad inicial es positiva registra un movimiento de
// entrada "stock inicial" — el libro solo anota, la cantidad ya quedó fijada
// en la creación (no se aplica el delta dos veces).
func (r *ProductRegistry) Add(in CreateProductInput) (*entity.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	if findProduct(products, in.Code) >= 0 {
		return nil, fmt.Errorf("%w: ya existe un producto con código %q", domain.ErrDuplicate, in.Code)
	}

	now := time.Now()
	product := entity.Product{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		Category:    in.Category,
		Supplier:    in.Supplier,
		Location:    in.Location,
		Barcode:     in.Barcode,
		Weight:      in.Weight,
		Dimensions:  in.Dimensions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	products = append(products, product)
	if err := r.store.SaveProducts(products); err != nil {
		return nil, err
	}

	if in.Quantity > 0 {
		if _, err := r.ledger.recordLocked(entity.MovementTypeIn, product.Code, in.Quantity, ReasonInitialStock, entity.SystemUser); err != nil {
			return nil, fmt.Errorf("%w: producto creado pero movimiento inicial no registrado, recargue los datos: %v",
				domain.ErrPersistence, err)
		}
	}

	r.log.Info().Str("codigo", product.Code).Int("cantidad", product.Quantity).Msg("producto creado")
	return &product, nil
}

// Update fusiona los campos presentes, refresca UpdatedAt y persiste.
func (r *ProductRegistry) Update(code string, in UpdateProductInput) (*entity.Product, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	idx := findProduct(products, code)
	if idx < 0 {
		return nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, code)
	}

	p := &products[idx]
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Barcode != nil {
		p.Barcode = *in.Barcode
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.Dimensions != nil {
		p.Dimensions = *in.Dimensions
	}
	p.UpdatedAt = time.Now()

	if err := r.store.SaveProducts(products); err != nil {
		return nil, err
	}
	product := *p
	return &product, nil
}

// Delete elimina el producto. El libro de movimientos no se toca: los
// movimientos que lo referencian siguen siendo consultables.
func (r *ProductRegistry) Delete(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.store.LoadProducts()
	if err != nil {
		return err
	}
	idx := findProduct(products, code)
	if idx < 0 {
		return fmt.Errorf("%w: producto %q", domain.ErrNotFound, code)
	}
	products = append(products[:idx], products[idx+1:]...)
	if err := r.store.SaveProducts(products); err != nil {
		return err
	}
	r.log.Info().Str("codigo", code).Msg("producto eliminado")
	return nil
}

// Get devuelve el producto por código.
func (r *ProductRegistry) Get(code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	idx := findProduct(products, code)
	if idx < 0 {
		return nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, code)
	}
	product := products[idx]
	return &product, nil
}

// List devuelve todos los productos.
func (r *ProductRegistry) List() ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.LoadProducts()
}

// Search busca por subcadena en nombre, código y descripción, sin distinguir
// mayúsculas ni acentos (los datos históricos mezclan grafías).
func (r *ProductRegistry) Search(query string) ([]entity.Product, error) {
	q := foldString(query)
	return r.filter(func(p entity.Product) bool {
		return strings.Contains(foldString(p.Name), q) ||
			strings.Contains(foldString(p.Code), q) ||
			strings.Contains(foldString(p.Description), q)
	})
}

// ByCategory devuelve los productos de una categoría (por nombre).
func (r *ProductRegistry) ByCategory(name string) ([]entity.Product, error) {
	return r.filter(func(p entity.Product) bool {
		return strings.EqualFold(p.Category, name)
	})
}

// BySupplier devuelve los productos de un proveedor (por nombre).
func (r *ProductRegistry) BySupplier(name string) ([]entity.Product, error) {
	return r.filter(func(p entity.Product) bool {
		return strings.EqualFold(p.Supplier, name)
	})
}

func (r *ProductRegistry) filter(keep func(entity.Product) bool) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.store.LoadProducts()
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

func validateProductInput(in CreateProductInput) error {
	switch {
	case in.Code == "":
		return fmt.Errorf("%w: el código es obligatorio", domain.ErrInvalidInput)
	case in.Name == "":
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	case in.Quantity < 0:
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	case in.MinStock < 0:
		return fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// foldString normaliza a minúsculas sin marcas diacríticas ("Açúcar" → "acucar").
func foldString(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
