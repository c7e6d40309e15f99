package db

import (
	"database/sql"
	"time"
)

// Unit represents a record in the units table. A row exists for every
// file timer-ops has written, unit files and tmpfiles drop-ins alike.
type Unit struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	SHA1Hash  string    `db:"sha1_hash"`
	UserMode  bool      `db:"user_mode"`
	CreatedAt time.Time `db:"created_at"`
}

// UnitRepository defines the interface for unit data access operations.
type UnitRepository interface {
	FindAll() ([]Unit, error)
	FindByName(name, kind string) (Unit, error)
	Upsert(unit *Unit) (int64, error)
	Delete(name, kind string) error
}

// SQLUnitRepository implements UnitRepository interface with SQL database.
type SQLUnitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new SQL-based unit repository.
func NewUnitRepository(db *sql.DB) UnitRepository {
	return &SQLUnitRepository{db: db}
}

// FindAll retrieves all tracked units from the database.
func (r *SQLUnitRepository) FindAll() ([]Unit, error) {
	rows, err := r.db.Query("SELECT id, name, kind, sha1_hash, user_mode, created_at FROM units")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var units []Unit
	for rows.Next() {
		var unit Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Kind, &unit.SHA1Hash, &unit.UserMode, &unit.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

// FindByName retrieves a tracked unit by name and kind.
func (r *SQLUnitRepository) FindByName(name, kind string) (Unit, error) {
	row := r.db.QueryRow("SELECT id, name, kind, sha1_hash, user_mode, created_at FROM units WHERE name = ? AND kind = ?", name, kind)

	var unit Unit
	err := row.Scan(&unit.ID, &unit.Name, &unit.Kind, &unit.SHA1Hash, &unit.UserMode, &unit.CreatedAt)
	return unit, err
}

// Upsert inserts a unit or refreshes its content hash if it already exists.
func (r *SQLUnitRepository) Upsert(unit *Unit) (int64, error) {
	result, err := r.db.Exec(
		"INSERT INTO units (name, kind, sha1_hash, user_mode) VALUES (?, ?, ?, ?) ON CONFLICT(name, kind) DO UPDATE SET sha1_hash = excluded.sha1_hash, user_mode = excluded.user_mode",
		unit.Name, unit.Kind, unit.SHA1Hash, unit.UserMode,
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Delete removes a tracked unit from the database.
func (r *SQLUnitRepository) Delete(name, kind string) error {
	_, err := r.db.Exec("DELETE FROM units WHERE name = ? AND kind = ?", name, kind)
	return err
}
