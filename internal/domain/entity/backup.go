package entity

import "time"

// Tipos de snapshot de backup.
const (
	BackupTypeFull  = "full"  // todas las colecciones + configuración
	BackupTypeQuick = "quick" // solo productos y movimientos

	BackupVersion = "1.0"
)

// BackupInfo encabezado de un snapshot.
type BackupInfo struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
}

// Backup es un snapshot serializable del estado completo (full) o esencial
// (quick). Un full siempre trae las cinco claves, con arreglos vacíos si hace
// falta; en un quick la configuración se omite y los catálogos quedan en null.
type Backup struct {
	Info       BackupInfo `json:"backup_info"`
	Products   []Product  `json:"products"`
	Movements  []Movement `json:"movements"`
	Suppliers  []Supplier `json:"suppliers"`
	Categories []Category `json:"categories"`
	Settings   *Settings  `json:"settings,omitempty"`
}

// ValidBackupType indica si t es un tipo de snapshot conocido.
func ValidBackupType(t string) bool {
	return t == BackupTypeFull || t == BackupTypeQuick
}
