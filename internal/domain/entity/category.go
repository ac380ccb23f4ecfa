package entity

import "time"

// Category representa una categoría de productos, identificada por nombre único.
// Color es solo una pista de presentación; el motor no lo interpreta.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
