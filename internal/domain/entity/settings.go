package entity

// Settings es el registro único de configuración del sistema. Los campos de
// tema se conservan para la capa de presentación pero el motor no los usa.
type Settings struct {
	LowStockThreshold int    `json:"low_stock_threshold"` // umbral global de stock bajo
	Currency          string `json:"currency"`
	Language          string `json:"language"`
	BackupEnabled     bool   `json:"backup_enabled"`
	AutoBackup        bool   `json:"auto_backup"`
	AutoBackupDays    int    `json:"auto_backup_days"`
	DefaultCategory   string `json:"default_category"`
	ThemeMode         string `json:"theme_mode"`
	ColorTheme        string `json:"color_theme"`
}

// DefaultSettings devuelve la configuración inicial del sistema.
func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold: 5,
		Currency:          "COP",
		Language:          "es-CO",
		BackupEnabled:     true,
		AutoBackup:        true,
		AutoBackupDays:    7,
		ThemeMode:         "dark",
		ColorTheme:        "blue",
	}
}
