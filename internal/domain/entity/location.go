package entity

import "time"

// Location representa una ubicación física fija (estante/casilla) donde se guardan lotes.
type Location struct {
	ID        string
	Code      string // ej. "E03-C12"
	Shelf     string
	Slot      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
