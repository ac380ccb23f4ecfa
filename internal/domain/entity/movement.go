package entity

import "time"

// Tipos de movimiento de stock. Enum normalizado a dos valores; cualquier
// etiqueta localizada vive en la capa de presentación.
const (
	MovementTypeIn  = "IN"  // entrada
	MovementTypeOut = "OUT" // salida
)

// SystemUser identidad por defecto cuando el caller no indica usuario.
const SystemUser = "admin"

// Movement es un registro inmutable del libro de movimientos. Nunca se edita
// ni se borra; ProductCode puede quedar colgante si el producto se elimina.
type Movement struct {
	ID          int       `json:"id"` // único, estrictamente creciente
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	ProductCode string    `json:"product_code"`
	Quantity    int       `json:"quantity"` // magnitud, siempre > 0
	Reason      string    `json:"reason"`
	User        string    `json:"user"`
}

// ValidMovementType indica si t es uno de los dos tipos del enum.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}
