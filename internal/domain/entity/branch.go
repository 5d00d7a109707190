package entity

import "time"

// Branch representa una sucursal o bodega donde se almacena inventario (multi-sucursal).
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
