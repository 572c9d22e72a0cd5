package campground

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a campground lookup matches nothing.
var ErrNotFound = errors.New("campground not found")

// Repository provides CRUD operations for campgrounds.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a campground repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `c.id, c.name, c.description, c.image_url, c.location,
	c.latitude, c.longitude, c.user_id, u.username, c.created_at, c.updated_at`

const selectBase = "SELECT " + selectColumns + " FROM campgrounds c JOIN users u ON u.id = c.user_id"

func scanCampground(row interface{ Scan(...interface{}) error }) (*Campground, error) {
	var c Campground
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.Location,
		&c.Latitude, &c.Longitude, &c.UserID, &c.Author, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert adds a new campground and returns it with its generated ID.
func (r *Repository) Insert(c *Campground) (*Campground, error) {
	result, err := r.db.Exec(
		`INSERT INTO campgrounds (name, description, image_url, location, latitude, longitude, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.ImageURL, c.Location, c.Latitude, c.Longitude, c.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting campground: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a campground by its ID.
func (r *Repository) GetByID(id int64) (*Campground, error) {
	row := r.db.QueryRow(selectBase+" WHERE c.id = ?", id)

	c, err := scanCampground(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying campground %d: %w", id, err)
	}

	return c, nil
}

// List returns all campgrounds, newest first.
func (r *Repository) List() ([]*Campground, error) {
	return r.query(selectBase + " ORDER BY c.created_at DESC, c.id DESC")
}

// Search returns campgrounds whose name contains the query,
// case-insensitively, newest first. An empty result is not an error.
func (r *Repository) Search(query string) ([]*Campground, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.query(
		selectBase+` WHERE c.name LIKE ? ESCAPE '\' COLLATE NOCASE ORDER BY c.created_at DESC, c.id DESC`,
		pattern,
	)
}

func (r *Repository) query(q string, args ...interface{}) ([]*Campground, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing campgrounds: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var campgrounds []*Campground
	for rows.Next() {
		c, err := scanCampground(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning campground: %w", err)
		}
		campgrounds = append(campgrounds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campgrounds: %w", err)
	}

	return campgrounds, nil
}

// Update rewrites the mutable fields of a campground.
func (r *Repository) Update(c *Campground) error {
	result, err := r.db.Exec(
		`UPDATE campgrounds
		 SET name = ?, description = ?, image_url = ?, location = ?, latitude = ?, longitude = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, c.Description, c.ImageURL, c.Location, c.Latitude, c.Longitude, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campground: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a campground and its comments in one transaction.
func (r *Repository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.Exec("DELETE FROM comments WHERE campground_id = ?", id); err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}

	result, err := tx.Exec("DELETE FROM campgrounds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting campground: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

// escapeLike escapes SQL LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
