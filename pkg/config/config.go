package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de persistencia soportados.
const (
	StoreDriverJSON   = "json"   // un documento JSON por colección
	StoreDriverSQLite = "sqlite" // base SQLite embebida vía GORM
)

// Config agrupa la configuración del proceso (lectura vía Viper desde env y
// opcionalmente archivo). La configuración de negocio (umbral de stock bajo,
// moneda, etc.) no vive aquí: es el registro Settings del propio motor.
type Config struct {
	App    AppConfig
	Log    LogConfig
	Store  StoreConfig
	Backup BackupConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig configuración del logger.
type LogConfig struct {
	Level string
}

// StoreConfig configuración de persistencia.
type StoreConfig struct {
	Driver     string // json | sqlite
	DataDir    string // directorio de los documentos JSON
	SQLitePath string // archivo de la base SQLite
}

// BackupConfig configuración de archivos de backup.
type BackupConfig struct {
	Dir string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env). Nombres esperados: APP_ENV, LOG_LEVEL, STORE_DRIVER,
// DATA_DIR, SQLITE_PATH, BACKUPS_DIR.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "inventario-core"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:     getString(v, "STORE_DRIVER", StoreDriverJSON),
			DataDir:    getString(v, "DATA_DIR", "data"),
			SQLitePath: getString(v, "SQLITE_PATH", "data/inventario.db"),
		},
		Backup: BackupConfig{
			Dir: getString(v, "BACKUPS_DIR", "backups"),
		},
	}

	if cfg.Store.Driver != StoreDriverJSON && cfg.Store.Driver != StoreDriverSQLite {
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}
