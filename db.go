package pxlsdump

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Snapshot describes an image written by the pipeline.
type Snapshot struct {
	CanvasCode string
	Width      int
	Height     int
	Colors     int
	SHA1       string
	Path       string
	Created    time.Time
}

// SnapshotDB keeps a history of written images. It is only ever appended
// to, nothing in it is used to avoid a download.
type SnapshotDB struct {
	db *sql.DB
}

// NewSnapshotDB opens or creates the history database in file.
func NewSnapshotDB(file string) (*SnapshotDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS canvas (id INTEGER PRIMARY KEY NOT NULL, code TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS snapshot (id INTEGER PRIMARY KEY NOT NULL, canvas_id INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, sha1 TEXT NOT NULL, path TEXT NOT NULL, created INTEGER NOT NULL, UNIQUE(sha1, path), FOREIGN KEY(canvas_id) REFERENCES canvas(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *SnapshotDB) Close() error {
	return db.db.Close()
}

func (db *SnapshotDB) addCanvas(code string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM canvas WHERE code = ?", code).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO canvas (code) VALUES (?)", code)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Record adds s to the history. Writing an identical image to the same path
// again only updates the time.
func (db *SnapshotDB) Record(s *Snapshot) error {
	canvas, err := db.addCanvas(s.CanvasCode)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO snapshot (canvas_id, width, height, colors, sha1, path, created) VALUES (?, ?, ?, ?, ?, ?, ?)", canvas, s.Width, s.Height, s.Colors, s.SHA1, s.Path, s.Created.Unix()); err != nil {
		return err
	}

	return nil
}

// Snapshots returns the history, oldest first.
func (db *SnapshotDB) Snapshots() ([]Snapshot, error) {
	rows, err := db.db.Query("SELECT c.code, s.width, s.height, s.colors, s.sha1, s.path, s.created FROM snapshot AS s JOIN canvas AS c ON s.canvas_id = c.id ORDER BY s.created, s.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var created int64
		if err := rows.Scan(&s.CanvasCode, &s.Width, &s.Height, &s.Colors, &s.SHA1, &s.Path, &created); err != nil {
			return nil, err
		}
		s.Created = time.Unix(created, 0)
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
