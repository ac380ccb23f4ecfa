// Package gormstore implementa el puerto repository.Store sobre SQLite
// embebido vía GORM: la variante de persistencia en tablas, para procesos que
// prefieren un único archivo de base de datos a un directorio de JSON.
//
// El contrato es el mismo que el de jsonstore: cada Save reemplaza la tabla
// completa en una transacción; cada Load devuelve la colección entera (los
// movimientos ordenados por id, preservando el orden de inserción).
package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/pkg/logger"
)

// Store adaptador de persistencia relacional embebida.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open abre (o crea) la base SQLite en dsn y migra el esquema.
// Usar ":memory:" para una base efímera en tests.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: abrir sqlite %s: %v", domain.ErrPersistence, dsn, err)
	}
	if err := db.AutoMigrate(&productRow{}, &movementRow{}, &supplierRow{}, &categoryRow{}, &settingsRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrar esquema: %v", domain.ErrPersistence, err)
	}
	return &Store{db: db, log: log}, nil
}

// LoadProducts carga la colección de productos.
func (s *Store) LoadProducts() ([]entity.Product, error) {
	var rows []productRow
	if err := s.db.Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: leer products: %v", domain.ErrPersistence, err)
	}
	out := make([]entity.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromProductRow(r))
	}
	return out, nil
}

// SaveProducts reemplaza la tabla de productos.
func (s *Store) SaveProducts(products []entity.Product) error {
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, toProductRow(p))
	}
	return s.replace("products", rows)
}

// LoadMovements carga el libro completo en orden de inserción.
func (s *Store) LoadMovements() ([]entity.Movement, error) {
	var rows []movementRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: leer movements: %v", domain.ErrPersistence, err)
	}
	out := make([]entity.Movement, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromMovementRow(r))
	}
	return out, nil
}

// SaveMovements reemplaza la tabla de movimientos.
func (s *Store) SaveMovements(movements []entity.Movement) error {
	rows := make([]movementRow, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, toMovementRow(m))
	}
	return s.replace("movements", rows)
}

// LoadSuppliers carga la colección de proveedores.
func (s *Store) LoadSuppliers() ([]entity.Supplier, error) {
	var rows []supplierRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: leer suppliers: %v", domain.ErrPersistence, err)
	}
	out := make([]entity.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromSupplierRow(r))
	}
	return out, nil
}

// SaveSuppliers reemplaza la tabla de proveedores.
func (s *Store) SaveSuppliers(suppliers []entity.Supplier) error {
	rows := make([]supplierRow, 0, len(suppliers))
	for _, sp := range suppliers {
		rows = append(rows, toSupplierRow(sp))
	}
	return s.replace("suppliers", rows)
}

// LoadCategories carga la colección de categorías.
func (s *Store) LoadCategories() ([]entity.Category, error) {
	var rows []categoryRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: leer categories: %v", domain.ErrPersistence, err)
	}
	out := make([]entity.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromCategoryRow(r))
	}
	return out, nil
}

// SaveCategories reemplaza la tabla de categorías.
func (s *Store) SaveCategories(categories []entity.Category) error {
	rows := make([]categoryRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, toCategoryRow(c))
	}
	return s.replace("categories", rows)
}

// LoadSettings carga la fila única de configuración, o los valores por
// defecto si todavía no existe.
func (s *Store) LoadSettings() (entity.Settings, error) {
	var row settingsRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.DefaultSettings(), nil
	}
	if err != nil {
		return entity.Settings{}, fmt.Errorf("%w: leer settings: %v", domain.ErrPersistence, err)
	}
	return fromSettingsRow(row), nil
}

// SaveSettings reemplaza la fila única de configuración.
func (s *Store) SaveSettings(cfg entity.Settings) error {
	return s.replace("settings", []settingsRow{toSettingsRow(cfg)})
}

// replace vacía la tabla y escribe las filas nuevas en una transacción.
func (s *Store) replace(table string, rows any) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
		if isEmptySlice(rows) {
			return nil
		}
		return tx.Create(rows).Error
	})
	if err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, table, err)
	}
	return nil
}

func isEmptySlice(rows any) bool {
	switch v := rows.(type) {
	case []productRow:
		return len(v) == 0
	case []movementRow:
		return len(v) == 0
	case []supplierRow:
		return len(v) == 0
	case []categoryRow:
		return len(v) == 0
	case []settingsRow:
		return len(v) == 0
	}
	return false
}
