// Package roster keeps the admin list. One main admin comes from the
// environment and cannot be removed; sub-admins live in the DB so they
// survive restarts.
package roster

import (
	"database/sql"

	"github.com/pkg/errors"
)

type Roster struct {
	db     *sql.DB
	mainID int64
}

func New(db *sql.DB, mainID int64) *Roster {
	return &Roster{db: db, mainID: mainID}
}

// Seed records the configured initial sub-admins, skipping known ones.
func (r *Roster) Seed(ids []int64) error {
	for _, id := range ids {
		if _, err := r.db.Exec("INSERT OR IGNORE INTO admin (user_id) VALUES (?)", id); err != nil {
			return errors.Wrap(err, "seed admin")
		}
	}
	return nil
}

func (r *Roster) IsMain(id int64) bool {
	return id == r.mainID
}

// IsAdmin reports whether id is the main admin or a sub-admin. A DB
// fault degrades to "not an admin" rather than failing the command.
func (r *Roster) IsAdmin(id int64) bool {
	if id == r.mainID {
		return true
	}
	var one int
	err := r.db.QueryRow("SELECT 1 FROM admin WHERE user_id = ?", id).Scan(&one)
	return err == nil
}

// Add registers a sub-admin. Returns false when already registered.
func (r *Roster) Add(id int64) (bool, error) {
	res, err := r.db.Exec("INSERT OR IGNORE INTO admin (user_id) VALUES (?)", id)
	if err != nil {
		return false, errors.Wrap(err, "add admin")
	}
	n, err := res.RowsAffected()
	return n > 0, errors.Wrap(err, "add admin")
}

// Remove drops a sub-admin. Returns false when it was not registered.
func (r *Roster) Remove(id int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM admin WHERE user_id = ?", id)
	if err != nil {
		return false, errors.Wrap(err, "remove admin")
	}
	n, err := res.RowsAffected()
	return n > 0, errors.Wrap(err, "remove admin")
}

// List returns the sub-admin ids in insertion order.
func (r *Roster) List() ([]int64, error) {
	rows, err := r.db.Query("SELECT user_id FROM admin ORDER BY rowid")
	if err != nil {
		return nil, errors.Wrap(err, "list admins")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan admin")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// All returns every admin including the main one, for notification
// fan-out.
func (r *Roster) All() ([]int64, error) {
	ids, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == r.mainID {
			return ids, nil
		}
	}
	return append([]int64{r.mainID}, ids...), nil
}
