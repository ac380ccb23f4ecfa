// Package jsonstore implementa el puerto repository.Store sobre un documento
// JSON por colección (products.json, movements.json, suppliers.json,
// categories.json, settings.json) dentro de un directorio de datos.
//
// Cada guardado escribe la colección completa; el directorio se crea en la
// primera escritura. Un documento corrupto al cargar no tumba el arranque:
// se devuelve el valor por defecto y el incidente queda en Warnings() para
// que la capa de presentación pueda avisar.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/pkg/logger"
)

// Archivos de datos, uno por colección.
const (
	productsFile   = "products.json"
	movementsFile  = "movements.json"
	suppliersFile  = "suppliers.json"
	categoriesFile = "categories.json"
	settingsFile   = "settings.json"
)

// Store adaptador de persistencia en archivos JSON (vía afero, para poder
// correr los tests sobre un filesystem en memoria).
type Store struct {
	fs  afero.Fs
	dir string
	log *logger.Logger

	warnMu   sync.Mutex
	warnings []string
}

// New construye el adaptador sobre el filesystem y directorio dados.
func New(fs afero.Fs, dir string, log *logger.Logger) *Store {
	return &Store{fs: fs, dir: dir, log: log}
}

// LoadProducts carga la colección de productos.
func (s *Store) LoadProducts() ([]entity.Product, error) {
	return loadCollection[entity.Product](s, productsFile)
}

// SaveProducts escribe la colección completa de productos.
func (s *Store) SaveProducts(products []entity.Product) error {
	return s.save(productsFile, products)
}

// LoadMovements carga el libro de movimientos en orden de inserción.
func (s *Store) LoadMovements() ([]entity.Movement, error) {
	return loadCollection[entity.Movement](s, movementsFile)
}

// SaveMovements escribe el libro completo de movimientos.
func (s *Store) SaveMovements(movements []entity.Movement) error {
	return s.save(movementsFile, movements)
}

// LoadSuppliers carga la colección de proveedores.
func (s *Store) LoadSuppliers() ([]entity.Supplier, error) {
	return loadCollection[entity.Supplier](s, suppliersFile)
}

// SaveSuppliers escribe la colección completa de proveedores.
func (s *Store) SaveSuppliers(suppliers []entity.Supplier) error {
	return s.save(suppliersFile, suppliers)
}

// LoadCategories carga la colección de categorías.
func (s *Store) LoadCategories() ([]entity.Category, error) {
	return loadCollection[entity.Category](s, categoriesFile)
}

// SaveCategories escribe la colección completa de categorías.
func (s *Store) SaveCategories(categories []entity.Category) error {
	return s.save(categoriesFile, categories)
}

// LoadSettings carga la configuración; si nunca se guardó (o el archivo está
// corrupto) devuelve los valores por defecto.
func (s *Store) LoadSettings() (entity.Settings, error) {
	path := filepath.Join(s.dir, settingsFile)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("%w: consultar %s: %v", domain.ErrPersistence, settingsFile, err)
	}
	if !exists {
		return entity.DefaultSettings(), nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, settingsFile, err)
	}
	var cfg entity.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.warn(settingsFile, err)
		return entity.DefaultSettings(), nil
	}
	return cfg, nil
}

// SaveSettings escribe el registro de configuración.
func (s *Store) SaveSettings(cfg entity.Settings) error {
	return s.save(settingsFile, cfg)
}

// Warnings devuelve los incidentes de carga acumulados (colecciones corruptas
// reemplazadas por su valor por defecto), para mostrarlos al usuario.
func (s *Store) Warnings() []string {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

func loadCollection[T any](s *Store, name string) ([]T, error) {
	path := filepath.Join(s.dir, name)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar %s: %v", domain.ErrPersistence, name, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, name, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		s.warn(name, err)
		return nil, nil
	}
	return out, nil
}

func (s *Store) save(name string, v any) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: crear directorio de datos: %v", domain.ErrPersistence, err)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: serializar %s: %v", domain.ErrPersistence, name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, name, err)
	}
	return nil
}

func (s *Store) warn(name string, cause error) {
	msg := fmt.Sprintf("%v: %s: %v", domain.ErrCorruptData, name, cause)
	s.warnMu.Lock()
	s.warnings = append(s.warnings, msg)
	s.warnMu.Unlock()
	s.log.Warn().Str("archivo", name).Err(cause).Msg("colección corrupta, se usa el valor por defecto")
}
