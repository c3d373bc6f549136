package entity

import "time"

// Company empresa (tenant). Todos los recursos del motor están ligados a una.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
