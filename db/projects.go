package db

import (
	"database/sql"
	"fmt"
)

// SaveProject inserts or replaces a project snapshot by name
func SaveProject(name, data string) (*Project, error) {
	p := &Project{
		Name:    name,
		Data:    data,
		SavedAt: NowMs(),
	}

	_, err := GetDB().Exec(`
		INSERT INTO projects (name, data, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, p.Name, p.Data, p.SavedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save project %q: %w", name, err)
	}

	return p, nil
}

// GetProject returns a project by name, or (nil, nil) if it does not exist
func GetProject(name string) (*Project, error) {
	var p Project
	err := GetDB().QueryRow(
		"SELECT name, data, saved_at FROM projects WHERE name = ?",
		name,
	).Scan(&p.Name, &p.Data, &p.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %q: %w", name, err)
	}

	return &p, nil
}

// ListProjects returns all saved projects, most recently saved first.
// Data blobs are not included; callers load them per project.
func ListProjects() ([]Project, error) {
	rows, err := GetDB().Query(
		"SELECT name, saved_at FROM projects ORDER BY saved_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Name, &p.SavedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// DeleteProject removes a project by name. Returns true if a row was deleted.
func DeleteProject(name string) (bool, error) {
	res, err := GetDB().Exec("DELETE FROM projects WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to delete project %q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
