package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dverano/inventario-core/internal/domain/entity"
)

// Filas GORM espejo de las entidades del dominio. Se mantienen separadas para
// que los tags de persistencia no contaminen internal/domain/entity.

type productRow struct {
	Code        string          `gorm:"primaryKey;type:varchar(50)"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:numeric"`
	Quantity    int
	MinStock    int
	Category    string `gorm:"type:varchar(100)"`
	Supplier    string `gorm:"type:varchar(100)"`
	Location    string
	Barcode     string `gorm:"type:varchar(100)"`
	Weight      float64
	Dimensions  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

type movementRow struct {
	ID          int `gorm:"primaryKey;autoIncrement:false"`
	Date        time.Time
	Type        string `gorm:"type:varchar(10);not null"`
	ProductCode string `gorm:"type:varchar(50);index"`
	Quantity    int
	Reason      string
	User        string `gorm:"column:user_name;type:varchar(100)"`
}

func (movementRow) TableName() string { return "movements" }

type supplierRow struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false"`
	Name          string `gorm:"type:varchar(100);not null;unique"`
	Phone         string `gorm:"type:varchar(50)"`
	Email         string `gorm:"type:varchar(200)"`
	Address       string
	ContactPerson string `gorm:"type:varchar(100)"`
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (supplierRow) TableName() string { return "suppliers" }

type categoryRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Name        string `gorm:"type:varchar(100);not null;unique"`
	Description string
	Color       string `gorm:"type:varchar(20)"`
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (categoryRow) TableName() string { return "categories" }

// settingsRow fila única (id fijo 1).
type settingsRow struct {
	ID                int `gorm:"primaryKey;autoIncrement:false"`
	LowStockThreshold int
	Currency          string `gorm:"type:varchar(10)"`
	Language          string `gorm:"type:varchar(10)"`
	BackupEnabled     bool
	AutoBackup        bool
	AutoBackupDays    int
	DefaultCategory   string `gorm:"type:varchar(100)"`
	ThemeMode         string `gorm:"type:varchar(20)"`
	ColorTheme        string `gorm:"type:varchar(20)"`
}

func (settingsRow) TableName() string { return "settings" }

func toProductRow(p entity.Product) productRow {
	return productRow(p)
}

func fromProductRow(r productRow) entity.Product {
	return entity.Product(r)
}

func toMovementRow(m entity.Movement) movementRow {
	return movementRow(m)
}

func fromMovementRow(r movementRow) entity.Movement {
	return entity.Movement(r)
}

func toSupplierRow(s entity.Supplier) supplierRow {
	return supplierRow(s)
}

func fromSupplierRow(r supplierRow) entity.Supplier {
	return entity.Supplier(r)
}

func toCategoryRow(c entity.Category) categoryRow {
	return categoryRow(c)
}

func fromCategoryRow(r categoryRow) entity.Category {
	return entity.Category(r)
}

func toSettingsRow(s entity.Settings) settingsRow {
	return settingsRow{
		ID:                1,
		LowStockThreshold: s.LowStockThreshold,
		Currency:          s.Currency,
		Language:          s.Language,
		BackupEnabled:     s.BackupEnabled,
		AutoBackup:        s.AutoBackup,
		AutoBackupDays:    s.AutoBackupDays,
		DefaultCategory:   s.DefaultCategory,
		ThemeMode:         s.ThemeMode,
		ColorTheme:        s.ColorTheme,
	}
}

func fromSettingsRow(r settingsRow) entity.Settings {
	return entity.Settings{
		LowStockThreshold: r.LowStockThreshold,
		Currency:          r.Currency,
		Language:          r.Language,
		BackupEnabled:     r.BackupEnabled,
		AutoBackup:        r.AutoBackup,
		AutoBackupDays:    r.AutoBackupDays,
		DefaultCategory:   r.DefaultCategory,
		ThemeMode:         r.ThemeMode,
		ColorTheme:        r.ColorTheme,
	}
}
