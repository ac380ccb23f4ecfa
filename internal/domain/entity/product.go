package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario, identificado por su código único.
// Quantity nunca es negativo; cada cambio de cantidad genera exactamente un Movement.
type Product struct {
	Code        string          `json:"code"` // código único, inmutable
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"` // umbral de alerta por producto
	Category    string          `json:"category"`  // referencia por nombre, puede estar vacía
	Supplier    string          `json:"supplier"`  // referencia por nombre, puede estar vacía
	Location    string          `json:"location"`
	Barcode     string          `json:"barcode"`
	Weight      float64         `json:"weight"`
	Dimensions  string          `json:"dimensions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Value devuelve el valor en inventario del producto (precio × cantidad).
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
