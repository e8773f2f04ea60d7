package repository

import (
	"database/sql"
	"fmt"

	"github.com/andreyantropov/SkillNotes/models"
	"github.com/andreyantropov/SkillNotes/types"
)

type NotesRepository struct {
	db *sql.DB
}

func NewNotesRepository(db *sql.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

const noteColumns = `id, user_id, title, text, created_at, is_archived`

func (r *NotesRepository) CreateNote(userID int, title, text string) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		INSERT INTO notes (user_id, title, text, created_at, is_archived)
		VALUES ($1, $2, $3, NOW(), FALSE)
		RETURNING `+noteColumns,
		userID, title, text).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Text, &note.CreatedAt, &note.IsArchived)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNoteByID returns (nil, nil) both when the note does not exist and when it
// belongs to another user, so callers cannot tell the two cases apart.
func (r *NotesRepository) GetNoteByID(userID, id int) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Text, &note.CreatedAt, &note.IsArchived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNotes executes a compiled filter for one user. Ordering is created_at
// DESC with id DESC as the tie-breaker, which keeps pages stable. hasMore is
// true iff a full page came back; on an exactly full last page this reports
// true even though the next page is empty. Accepted limitation, kept in place
// of an extra COUNT round trip.
func (r *NotesRepository) GetNotes(userID int, filter types.CompiledFilter) ([]*models.Note, bool, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Archived != nil {
		args = append(args, *filter.Archived)
		query += fmt.Sprintf(" AND is_archived = $%d", len(args))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Text,
			&note.CreatedAt, &note.IsArchived); err != nil {
			return nil, false, err
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return notes, len(notes) == filter.Limit, nil
}

// UpdateNote replaces title and text. created_at and is_archived are left
// untouched. Returns (nil, nil) when no row matched the (id, user) pair.
func (r *NotesRepository) UpdateNote(userID, id int, title, text string) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		UPDATE notes
		SET title = $1, text = $2
		WHERE id = $3 AND user_id = $4
		RETURNING `+noteColumns,
		title, text, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Text, &note.CreatedAt, &note.IsArchived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// SetArchived flips the archive flag. Setting the flag to its current value is
// a valid no-op, which makes archive and unarchive idempotent.
func (r *NotesRepository) SetArchived(userID, id int, archived bool) (*models.Note, error) {
	var note models.Note
	err := r.db.QueryRow(`
		UPDATE notes
		SET is_archived = $1
		WHERE id = $2 AND user_id = $3
		RETURNING `+noteColumns,
		archived, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Text, &note.CreatedAt, &note.IsArchived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote permanently removes one note. The bool reports whether a row was
// actually deleted.
func (r *NotesRepository) DeleteNote(userID, id int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM notes
		WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteArchived removes every archived note of the user in one statement, so
// a failure deletes nothing rather than some. Returns the number removed;
// zero is a valid result.
func (r *NotesRepository) DeleteArchived(userID int) (int, error) {
	res, err := r.db.Exec(`
		DELETE FROM notes
		WHERE user_id = $1 AND is_archived = TRUE`,
		userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
