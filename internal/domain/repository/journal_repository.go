package repository

import "github.com/jhoicas/Costeo-api/internal/domain/entity"

// JournalRepository define el puerto de persistencia para asientos contables (DIP).
type JournalRepository interface {
	// CreateEntry persiste el asiento y todas sus líneas. Asigna IDs si vienen vacíos.
	CreateEntry(entry *entity.JournalEntry) error
	GetBySource(sourceType, sourceID string) (*entity.JournalEntry, error)
}
