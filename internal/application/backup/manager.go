// Package backup crea y restaura snapshots del estado completo del sistema.
// La restauración valida todo antes de tocar nada: una restauración parcial
// está prohibida.
package backup

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// Manager crea snapshots full/quick y los restaura reemplazando cada colección
// cubierta por completo (nunca fusiona).
type Manager struct {
	mu   *sync.Mutex
	repo repository.Store
	fs   afero.Fs
	dir  string // directorio de archivos de backup
	log  *logger.Logger
}

// NewManager construye el manager sobre el candado compartido del motor.
func NewManager(mu *sync.Mutex, repo repository.Store, fs afero.Fs, dir string, log *logger.Logger) *Manager {
	return &Manager{mu: mu, repo: repo, fs: fs, dir: dir, log: log}
}

// Create arma un snapshot del tipo indicado. Full cubre productos,
// movimientos, proveedores, categorías y configuración; quick solo productos
// y movimientos.
func (m *Manager) Create(kind string) (*entity.Backup, error) {
	if !entity.ValidBackupType(kind) {
		return nil, fmt.Errorf("%w: tipo de backup desconocido %q", domain.ErrInvalidInput, kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	products, err := m.repo.LoadProducts()
	if err != nil {
		return nil, err
	}
	movements, err := m.repo.LoadMovements()
	if err != nil {
		return nil, err
	}

	doc := &entity.Backup{
		Info: entity.BackupInfo{
			ID:        uuid.New().String(),
			Type:      kind,
			CreatedAt: time.Now(),
			Version:   entity.BackupVersion,
		},
		Products:  emptyIfNil(products),
		Movements: emptyIfNilMov(movements),
	}

	switch kind {
	case entity.BackupTypeQuick:
		doc.Info.Description = "Backup rápido (productos y movimientos)"
	case entity.BackupTypeFull:
		doc.Info.Description = "Backup completo del sistema"
		suppliers, err := m.repo.LoadSuppliers()
		if err != nil {
			return nil, err
		}
		categories, err := m.repo.LoadCategories()
		if err != nil {
			return nil, err
		}
		cfg, err := m.repo.LoadSettings()
		if err != nil {
			return nil, err
		}
		if suppliers == nil {
			suppliers = []entity.Supplier{}
		}
		if categories == nil {
			categories = []entity.Category{}
		}
		doc.Suppliers = suppliers
		doc.Categories = categories
		doc.Settings = &cfg
	}

	m.log.Info().Str("tipo", kind).Str("id", doc.Info.ID).Msg("backup creado")
	return doc, nil
}

// requiredKeys colecciones que el payload debe traer según su tipo declarado.
var requiredKeys = map[string][]string{
	entity.BackupTypeFull:  {"products", "movements", "suppliers", "categories", "settings"},
	entity.BackupTypeQuick: {"products", "movements"},
}

// Restore valida el payload y, solo si es válido, reemplaza cada colección
// cubierta y la persiste. Ante cualquier fallo de validación devuelve
// ErrBackupFormat y el estado actual queda intacto.
func (m *Manager) Restore(raw []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackupFormat, err)
	}
	if _, ok := keys["backup_info"]; !ok {
		return fmt.Errorf("%w: falta backup_info", domain.ErrBackupFormat)
	}

	var doc entity.Backup
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackupFormat, err)
	}
	required, ok := requiredKeys[doc.Info.Type]
	if !ok {
		return fmt.Errorf("%w: tipo de backup desconocido %q", domain.ErrBackupFormat, doc.Info.Type)
	}
	for _, key := range required {
		if _, present := keys[key]; !present {
			return fmt.Errorf("%w: falta la clave %q para un backup %s", domain.ErrBackupFormat, key, doc.Info.Type)
		}
	}
	if doc.Info.Type == entity.BackupTypeFull && doc.Settings == nil {
		return fmt.Errorf("%w: settings vacío en un backup full", domain.ErrBackupFormat)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.SaveProducts(doc.Products); err != nil {
		return err
	}
	if err := m.repo.SaveMovements(doc.Movements); err != nil {
		return err
	}
	if doc.Info.Type == entity.BackupTypeFull {
		if err := m.repo.SaveSuppliers(doc.Suppliers); err != nil {
			return err
		}
		if err := m.repo.SaveCategories(doc.Categories); err != nil {
			return err
		}
		if err := m.repo.SaveSettings(*doc.Settings); err != nil {
			return err
		}
	}

	m.log.Info().Str("tipo", doc.Info.Type).Msg("backup restaurado")
	return nil
}

// WriteFile crea un snapshot y lo escribe en el directorio de backups con
// nombre con marca de tiempo (backup_completo_* / backup_rapido_*). Devuelve
// la ruta escrita.
func (m *Manager) WriteFile(kind string) (string, error) {
	doc, err := m.Create(kind)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: serializar backup: %v", domain.ErrPersistence, err)
	}

	prefix := "backup_completo_"
	if kind == entity.BackupTypeQuick {
		prefix = "backup_rapido_"
	}
	name := prefix + doc.Info.CreatedAt.Format("20060102_150405") + ".json"
	path := filepath.Join(m.dir, name)

	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: crear directorio de backups: %v", domain.ErrPersistence, err)
	}
	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: escribir %s: %v", domain.ErrPersistence, name, err)
	}
	m.log.Info().Str("archivo", path).Msg("archivo de backup escrito")
	return path, nil
}

// RestoreFile lee un archivo de backup y lo restaura.
func (m *Manager) RestoreFile(path string) error {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, path, err)
	}
	return m.Restore(data)
}

func emptyIfNil(products []entity.Product) []entity.Product {
	if products == nil {
		return []entity.Product{}
	}
	return products
}

func emptyIfNilMov(movements []entity.Movement) []entity.Movement {
	if movements == nil {
		return []entity.Movement{}
	}
	return movements
}
