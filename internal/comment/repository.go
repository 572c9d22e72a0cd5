package comment

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a comment lookup matches nothing.
var ErrNotFound = errors.New("comment not found")

// Repository provides CRUD operations for comments.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectBase = `SELECT c.id, c.campground_id, c.user_id, u.username, c.text, c.created_at, c.updated_at
	FROM comments c JOIN users u ON u.id = c.user_id`

// Add creates a new comment on a campground.
func (r *Repository) Add(campgroundID, userID int64, text string) (*Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO comments (campground_id, user_id, text) VALUES (?, ?, ?)",
		campgroundID, userID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a comment by its ID.
func (r *Repository) GetByID(id int64) (*Comment, error) {
	row := r.db.QueryRow(selectBase+" WHERE c.id = ?", id)

	var c Comment
	err := row.Scan(&c.ID, &c.CampgroundID, &c.UserID, &c.Author, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment %d: %w", id, err)
	}

	return &c, nil
}

// ListByCampgroundID returns all comments for a campground, oldest first.
func (r *Repository) ListByCampgroundID(campgroundID int64) ([]*Comment, error) {
	rows, err := r.db.Query(
		selectBase+" WHERE c.campground_id = ? ORDER BY c.id ASC",
		campgroundID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CampgroundID, &c.UserID, &c.Author, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Update replaces the text of a comment.
func (r *Repository) Update(id int64, text string) error {
	if text == "" {
		return fmt.Errorf("comment text is required")
	}

	result, err := r.db.Exec(
		"UPDATE comments SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		text, id,
	)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
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

// Delete removes a comment by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
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
