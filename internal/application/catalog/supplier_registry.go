// Package catalog contiene los registros de proveedores y categorías. Ambos
// aplican la misma política de borrado: cascade-clear, la referencia se limpia
// en los productos afectados dentro de la misma operación.
package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// SupplierRegistry casos de uso CRUD para proveedores, con nombre único.
type SupplierRegistry struct {
	mu    *sync.Mutex
	store repository.Store
	log   *logger.Logger
}

// NewSupplierRegistry construye el registro sobre el candado compartido.
func NewSupplierRegistry(mu *sync.Mutex, store repository.Store, log *logger.Logger) *SupplierRegistry {
	return &SupplierRegistry{mu: mu, store: store, log: log}
}

// CreateSupplierInput entrada para Add.
type CreateSupplierInput struct {
	Name          string
	Phone         string
	Email         string
	Address       string
	ContactPerson string
}

// UpdateSupplierInput entrada para Update; solo los campos no nil se aplican.
type UpdateSupplierInput struct {
	Name          *string
	Phone         *string
	Email         *string
	Address       *string
	ContactPerson *string
	Active        *bool
}

// Add crea un proveedor activo con ID max+1. Nombre duplicado (sin distinguir
// mayúsculas) falla ErrDuplicate.
func (r *SupplierRegistry) Add(in CreateSupplierInput) (*entity.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	if findSupplier(suppliers, in.Name) >= 0 {
		return nil, fmt.Errorf("%w: ya existe un proveedor llamado %q", domain.ErrDuplicate, in.Name)
	}

	now := time.Now()
	supplier := entity.Supplier{
		ID:            nextSupplierID(suppliers),
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		ContactPerson: in.ContactPerson,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	suppliers = append(suppliers, supplier)
	if err := r.store.SaveSuppliers(suppliers); err != nil {
		return nil, err
	}
	r.log.Info().Str("proveedor", supplier.Name).Msg("proveedor creado")
	return &supplier, nil
}

// Update fusiona los campos presentes. Un cambio de nombre verifica duplicados
// y renombra la referencia en los productos afectados, para no dejarla colgante.
func (r *SupplierRegistry) Update(name string, in UpdateSupplierInput) (*entity.Supplier, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	idx := findSupplier(suppliers, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: proveedor %q", domain.ErrNotFound, name)
	}

	s := &suppliers[idx]
	oldName := s.Name
	if in.Name != nil {
		newName := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(newName, oldName) && findSupplier(suppliers, newName) >= 0 {
			return nil, fmt.Errorf("%w: ya existe un proveedor llamado %q", domain.ErrDuplicate, newName)
		}
		s.Name = newName
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.ContactPerson != nil {
		s.ContactPerson = *in.ContactPerson
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = time.Now()

	if err := r.store.SaveSuppliers(suppliers); err != nil {
		return nil, err
	}
	if s.Name != oldName {
		if err := r.retargetProducts(oldName, s.Name); err != nil {
			return nil, err
		}
	}
	supplier := *s
	return &supplier, nil
}

// Delete elimina el proveedor y limpia la referencia en los productos que lo
// usaban (política cascade-clear, uniforme con las categorías).
func (r *SupplierRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return err
	}
	idx := findSupplier(suppliers, name)
	if idx < 0 {
		return fmt.Errorf("%w: proveedor %q", domain.ErrNotFound, name)
	}
	removed := suppliers[idx].Name
	suppliers = append(suppliers[:idx], suppliers[idx+1:]...)
	if err := r.store.SaveSuppliers(suppliers); err != nil {
		return err
	}
	if err := r.retargetProducts(removed, ""); err != nil {
		return err
	}
	r.log.Info().Str("proveedor", removed).Msg("proveedor eliminado")
	return nil
}

// retargetProducts reapunta (o limpia, con newName vacío) la referencia de
// proveedor en los productos. Requiere el candado tomado.
func (r *SupplierRegistry) retargetProducts(oldName, newName string) error {
	products, err := r.store.LoadProducts()
	if err != nil {
		return err
	}
	changed := false
	now := time.Now()
	for i := range products {
		if strings.EqualFold(products[i].Supplier, oldName) {
			products[i].Supplier = newName
			products[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.SaveProducts(products)
}

// Get devuelve el proveedor por nombre.
func (r *SupplierRegistry) Get(name string) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	idx := findSupplier(suppliers, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: proveedor %q", domain.ErrNotFound, name)
	}
	supplier := suppliers[idx]
	return &supplier, nil
}

// GetByID devuelve el proveedor por ID.
func (r *SupplierRegistry) GetByID(id int) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	for _, s := range suppliers {
		if s.ID == id {
			supplier := s
			return &supplier, nil
		}
	}
	return nil, fmt.Errorf("%w: proveedor id %d", domain.ErrNotFound, id)
}

// List devuelve todos los proveedores.
func (r *SupplierRegistry) List() ([]entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.LoadSuppliers()
}

// Search busca por subcadena en nombre, email y teléfono.
func (r *SupplierRegistry) Search(query string) ([]entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suppliers, err := r.store.LoadSuppliers()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]entity.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Email), q) ||
			strings.Contains(strings.ToLower(s.Phone), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func findSupplier(suppliers []entity.Supplier, name string) int {
	for i := range suppliers {
		if strings.EqualFold(suppliers[i].Name, name) {
			return i
		}
	}
	return -1
}

func nextSupplierID(suppliers []entity.Supplier) int {
	max := 0
	for _, s := range suppliers {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}
