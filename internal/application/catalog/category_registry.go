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

// CategoryRegistry casos de uso CRUD para categorías, con nombre único.
type CategoryRegistry struct {
	mu    *sync.Mutex
	store repository.Store
	log   *logger.Logger
}

// NewCategoryRegistry construye el registro sobre el candado compartido.
func NewCategoryRegistry(mu *sync.Mutex, store repository.Store, log *logger.Logger) *CategoryRegistry {
	return &CategoryRegistry{mu: mu, store: store, log: log}
}

// CreateCategoryInput entrada para Add.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
}

// UpdateCategoryInput entrada para Update; solo los campos no nil se aplican.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Color       *string
	Active      *bool
}

// Add crea una categoría activa con ID max+1. Nombre duplicado falla ErrDuplicate.
func (r *CategoryRegistry) Add(in CreateCategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	if findCategory(categories, in.Name) >= 0 {
		return nil, fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, in.Name)
	}

	now := time.Now()
	category := entity.Category{
		ID:          nextCategoryID(categories),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	categories = append(categories, category)
	if err := r.store.SaveCategories(categories); err != nil {
		return nil, err
	}
	r.log.Info().Str("categoria", category.Name).Msg("categoría creada")
	return &category, nil
}

// Update fusiona los campos presentes. Un cambio de nombre verifica duplicados
// y renombra la referencia en los productos afectados.
func (r *CategoryRegistry) Update(name string, in UpdateCategoryInput) (*entity.Category, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	idx := findCategory(categories, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrNotFound, name)
	}

	c := &categories[idx]
	oldName := c.Name
	if in.Name != nil {
		newName := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(newName, oldName) && findCategory(categories, newName) >= 0 {
			return nil, fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, newName)
		}
		c.Name = newName
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	c.UpdatedAt = time.Now()

	if err := r.store.SaveCategories(categories); err != nil {
		return nil, err
	}
	if c.Name != oldName {
		if err := r.retargetProducts(oldName, c.Name); err != nil {
			return nil, err
		}
	}
	category := *c
	return &category, nil
}

// Delete elimina la categoría y limpia la referencia en los productos que la
// usaban (política cascade-clear, uniforme con los proveedores).
func (r *CategoryRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.store.LoadCategories()
	if err != nil {
		return err
	}
	idx := findCategory(categories, name)
	if idx < 0 {
		return fmt.Errorf("%w: categoría %q", domain.ErrNotFound, name)
	}
	removed := categories[idx].Name
	categories = append(categories[:idx], categories[idx+1:]...)
	if err := r.store.SaveCategories(categories); err != nil {
		return err
	}
	if err := r.retargetProducts(removed, ""); err != nil {
		return err
	}
	r.log.Info().Str("categoria", removed).Msg("categoría eliminada")
	return nil
}

func (r *CategoryRegistry) retargetProducts(oldName, newName string) error {
	products, err := r.store.LoadProducts()
	if err != nil {
		return err
	}
	changed := false
	now := time.Now()
	for i := range products {
		if strings.EqualFold(products[i].Category, oldName) {
			products[i].Category = newName
			products[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.SaveProducts(products)
}

// Get devuelve la categoría por nombre.
func (r *CategoryRegistry) Get(name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	idx := findCategory(categories, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrNotFound, name)
	}
	category := categories[idx]
	return &category, nil
}

// GetByID devuelve la categoría por ID.
func (r *CategoryRegistry) GetByID(id int) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories, err := r.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, fmt.Errorf("%w: categoría id %d", domain.ErrNotFound, id)
}

// List devuelve todas las categorías.
func (r *CategoryRegistry) List() ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.LoadCategories()
}

func findCategory(categories []entity.Category, name string) int {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return i
		}
	}
	return -1
}

func nextCategoryID(categories []entity.Category) int {
	max := 0
	for _, c := range categories {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}
