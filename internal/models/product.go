package models

import "time"

type Product struct {
	ID        string
	Name      string
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductUpdate carries the only mutable product fields. The name is fixed at creation.
type ProductUpdate struct {
	Price float64
	Stock int
}
