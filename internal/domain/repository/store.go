package repository

import "github.com/dverano/inventario-core/internal/domain/entity"

// Store define el puerto de persistencia por colección (DIP). Cada Load de una
// colección ausente devuelve el valor por defecto vacío y error nil; cada Save
// escribe la colección completa. Un fallo de escritura envuelve
// domain.ErrPersistence.
type Store interface {
	LoadProducts() ([]entity.Product, error)
	SaveProducts(products []entity.Product) error

	LoadMovements() ([]entity.Movement, error)
	SaveMovements(movements []entity.Movement) error

	LoadSuppliers() ([]entity.Supplier, error)
	SaveSuppliers(suppliers []entity.Supplier) error

	LoadCategories() ([]entity.Category, error)
	SaveCategories(categories []entity.Category) error

	// LoadSettings devuelve entity.DefaultSettings() si nunca se guardó.
	LoadSettings() (entity.Settings, error)
	SaveSettings(settings entity.Settings) error
}
