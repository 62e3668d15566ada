// Package store persists named light profiles so configurations can refer to them by id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Blank import for sql drivers is "standard"
)

var (
	// ErrDatabaseNotSetup is returned if an operation is performed on a created but not opened database.
	ErrDatabaseNotSetup = errors.New("database not setup")
	// ErrProfileNotFound is returned if the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile is returned if a profile is missing its kind or data.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile kinds.
const (
	KindRGB   = "rgb"
	KindCwWw  = "cwww"
	KindWhite = "white"
)

// Profile is a named, serialized profile configuration.
type Profile struct {
	ID      string
	Name    string
	Kind    string
	Data    []byte
	Updated time.Time
}

// DB is a sqlite backed profile store.
type DB struct {
	db *sql.DB
}

// Open attempts to load the sqlite file at the specified path.
// Once Open succeeds the caller should be sure to invoke Close when it is finished with the handle.
func (db *DB) Open(fname string) error {
	sqldb, err := sql.Open("sqlite3", fname)
	if err != nil {
		return err
	}

	db.db = sqldb
	return db.setupDB()
}

// Close releases the handle to sqlite.
func (db *DB) Close() {
	if db.db != nil {
		db.db.Close()
	}
}

func (db *DB) setupDB() error {
	setupCmd := `CREATE TABLE IF NOT EXISTS profiles(
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		data BLOB NOT NULL,
		updated INTEGER NOT NULL
		);`

	_, err := db.db.Exec(setupCmd)
	return err
}

// SaveProfile creates or replaces the profile.
// A profile without an ID is assigned one.
func (db *DB) SaveProfile(ctx context.Context, p *Profile) error {
	if db.db == nil {
		return ErrDatabaseNotSetup
	}
	if len(p.Kind) < 1 || len(p.Data) < 1 {
		return ErrInvalidProfile
	}

	cmd := `INSERT OR REPLACE INTO profiles(
		id,
		name,
		kind,
		data,
		updated
		) VALUES
		(?, ?, ?, ?, ?);`

	stmt, err := db.db.Prepare(cmd)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if len(p.ID) < 1 {
		p.ID = uuid.New().String()
	}
	p.Updated = time.Now().UTC().Truncate(time.Second)

	_, err = stmt.ExecContext(ctx, p.ID, p.Name, p.Kind, p.Data, p.Updated.Unix())
	return err
}

func (db *DB) profilesCustomQuery(ctx context.Context, query string, args ...interface{}) ([]*Profile, error) {
	if db.db == nil {
		return nil, ErrDatabaseNotSetup
	}

	cmd := "SELECT id, name, kind, data, updated FROM profiles"
	if len(query) > 0 {
		cmd += " " + query
	}
	cmd += ";"

	rows, err := db.db.QueryContext(ctx, cmd, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var updated int64

		err = rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Data, &updated)
		if err != nil {
			return nil, err
		}

		p.Updated = time.Unix(updated, 0).UTC()
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Profile returns the requested profile, if present.
func (db *DB) Profile(ctx context.Context, id string) (*Profile, error) {
	ret, err := db.profilesCustomQuery(ctx, "WHERE id=?", id)
	if err != nil {
		return nil, err
	} else if len(ret) < 1 {
		return nil, ErrProfileNotFound
	}

	return ret[0], nil
}

// Profiles returns every saved profile ordered by name.
func (db *DB) Profiles(ctx context.Context) ([]*Profile, error) {
	return db.profilesCustomQuery(ctx, "ORDER BY name, id")
}

// ProfilesByKind returns the saved profiles of one kind ordered by name.
func (db *DB) ProfilesByKind(ctx context.Context, kind string) ([]*Profile, error) {
	return db.profilesCustomQuery(ctx, "WHERE kind=? ORDER BY name, id", kind)
}

// DeleteProfile removes the profile.
func (db *DB) DeleteProfile(ctx context.Context, id string) error {
	if db.db == nil {
		return ErrDatabaseNotSetup
	}

	cmd := `DELETE FROM profiles WHERE id=?;`

	stmt, err := db.db.Prepare(cmd)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return err
	} else if count < 1 {
		return ErrProfileNotFound
	}
	return nil
}
