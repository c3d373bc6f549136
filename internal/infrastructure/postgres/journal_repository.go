package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación de JournalRepository sobre PostgreSQL (usable con pool o tx).
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// CreateEntry persiste el asiento y sus líneas. Asigna IDs si vienen vacíos.
// Debe llamarse dentro de la transacción de contabilización.
func (r *JournalRepo) CreateEntry(entry *entity.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO journal_entries (id, company_id, date, description, source_type, source_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.Date, entry.Description,
		entry.SourceType, entry.SourceID, entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, account_id, description, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range entry.Lines {
		l := &entry.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.EntryID = entry.ID
		if _, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.EntryID, l.AccountID, l.Description, l.Debit, l.Credit); err != nil {
			return fmt.Errorf("create journal line: %w", err)
		}
	}
	return nil
}

// GetBySource obtiene el asiento creado por un origen dado (ej. un comprobante).
func (r *JournalRepo) GetBySource(sourceType, sourceID string) (*entity.JournalEntry, error) {
	query := `
		SELECT id, company_id, date, description, source_type, source_id, created_by, created_at
		FROM journal_entries WHERE source_type = $1 AND source_id = $2`
	var e entity.JournalEntry
	err := r.q.QueryRow(context.Background(), query, sourceType, sourceID).Scan(
		&e.ID, &e.CompanyID, &e.Date, &e.Description, &e.SourceType, &e.SourceID, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	lineQuery := `
		SELECT id, entry_id, account_id, description, debit, credit
		FROM journal_lines WHERE entry_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), lineQuery, e.ID)
	if err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Description, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}
		e.Lines = append(e.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &e, nil
}
