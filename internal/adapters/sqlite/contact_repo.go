// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/example/contacts/internal/ports/secondary"
)

var contactColumns = []string{
	"id", "given_name", "paternal_surname", "maternal_surname",
	"phone", "email", "photo_path", "created_at", "updated_at",
}

// ContactRepository implements secondary.ContactRepository with SQLite.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new SQLite contact repository.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Insert persists a new contact and returns its ID.
func (r *ContactRepository) Insert(ctx context.Context, contact *secondary.ContactRecord) (int64, error) {
	columns := []string{"given_name", "paternal_surname", "maternal_surname", "phone", "email", "photo_path"}
	values := []any{
		contact.GivenName, contact.PaternalSurname, contact.MaternalSurname,
		contact.Phone, contact.Email, nullString(contact.PhotoPath),
	}
	if contact.ID != 0 {
		columns = append([]string{"id"}, columns...)
		values = append([]any{contact.ID}, values...)
	}

	query, args, err := sq.Insert("contacts").Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build contact insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isPrimaryKeyConflict(err) {
			return 0, fmt.Errorf("contact %d: %w", contact.ID, secondary.ErrContactExists)
		}
		return 0, fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read contact id: %w", err)
	}

	return id, nil
}

// Update replaces every field of the stored contact with the same ID.
func (r *ContactRepository) Update(ctx context.Context, contact *secondary.ContactRecord) (bool, error) {
	query, args, err := sq.Update("contacts").
		SetMap(map[string]any{
			"given_name":       contact.GivenName,
			"paternal_surname": contact.PaternalSurname,
			"maternal_surname": contact.MaternalSurname,
			"phone":            contact.Phone,
			"email":            contact.Email,
			"photo_path":       nullString(contact.PhotoPath),
			"updated_at":       sq.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(sq.Eq{"id": contact.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build contact update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update contact: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes a contact from persistence.
func (r *ContactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := sq.Delete("contacts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build contact delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetByID retrieves a contact by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*secondary.ContactRecord, error) {
	query, args, err := sq.Select(contactColumns...).From("contacts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	record, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %d: %w", id, secondary.ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return record, nil
}

// List retrieves all contacts ordered by ID, which is insertion order.
func (r *ContactRepository) List(ctx context.Context) ([]*secondary.ContactRecord, error) {
	query, args, err := sq.Select(contactColumns...).From("contacts").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*secondary.ContactRecord{}
	for rows.Next() {
		record, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

// DataVersion returns SQLite's data_version for the pooled connection.
// It changes when another connection, in any process, commits.
func (r *ContactRepository) DataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data version: %w", err)
	}
	return version, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*secondary.ContactRecord, error) {
	var (
		photo     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.ContactRecord{}
	err := row.Scan(
		&record.ID, &record.GivenName, &record.PaternalSurname, &record.MaternalSurname,
		&record.Phone, &record.Email, &photo, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.PhotoPath = photo.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isPrimaryKeyConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Ensure ContactRepository implements the interfaces.
var (
	_ secondary.ContactRepository = (*ContactRepository)(nil)
	_ secondary.ChangeDetector    = (*ContactRepository)(nil)
)
