// Package settings administra el registro único de configuración del sistema.
package settings

import (
	"fmt"
	"sync"

	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/pkg/logger"
)

// Store caso de uso get/update sobre el singleton de configuración.
type Store struct {
	mu   *sync.Mutex
	repo repository.Store
	log  *logger.Logger
}

// New construye el acceso a configuración sobre el candado compartido.
func New(mu *sync.Mutex, repo repository.Store, log *logger.Logger) *Store {
	return &Store{mu: mu, repo: repo, log: log}
}

// UpdateInput entrada para Update; solo los campos no nil se aplican.
type UpdateInput struct {
	LowStockThreshold *int
	Currency          *string
	Language          *string
	BackupEnabled     *bool
	AutoBackup        *bool
	AutoBackupDays    *int
	DefaultCategory   *string
	ThemeMode         *string
	ColorTheme        *string
}

// Get devuelve la configuración vigente (los valores por defecto si nunca se guardó).
func (s *Store) Get() (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.LoadSettings()
}

// Update fusiona los campos presentes y persiste el registro completo.
func (s *Store) Update(in UpdateInput) (entity.Settings, error) {
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return entity.Settings{}, fmt.Errorf("%w: el umbral de stock bajo no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.AutoBackupDays != nil && *in.AutoBackupDays < 1 {
		return entity.Settings{}, fmt.Errorf("%w: los días de backup automático deben ser al menos 1", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.LoadSettings()
	if err != nil {
		return entity.Settings{}, err
	}
	if in.LowStockThreshold != nil {
		current.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Currency != nil {
		current.Currency = *in.Currency
	}
	if in.Language != nil {
		current.Language = *in.Language
	}
	if in.BackupEnabled != nil {
		current.BackupEnabled = *in.BackupEnabled
	}
	if in.AutoBackup != nil {
		current.AutoBackup = *in.AutoBackup
	}
	if in.AutoBackupDays != nil {
		current.AutoBackupDays = *in.AutoBackupDays
	}
	if in.DefaultCategory != nil {
		current.DefaultCategory = *in.DefaultCategory
	}
	if in.ThemeMode != nil {
		current.ThemeMode = *in.ThemeMode
	}
	if in.ColorTheme != nil {
		current.ColorTheme = *in.ColorTheme
	}

	if err := s.repo.SaveSettings(current); err != nil {
		return entity.Settings{}, err
	}
	s.log.Debug().Msg("configuración actualizada")
	return current, nil
}
