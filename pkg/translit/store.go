package translit

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transliterations (
	kanji TEXT PRIMARY KEY,
	traditional TEXT NOT NULL
);
`

// Open opens (creating if needed) the SQLite database holding the table.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open transliteration db: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init transliteration schema: %w", err)
		}
	}
	return nil
}

// LoadTable reads every mapping into memory. The pipeline does this once at
// startup; afterwards the database is not touched.
func LoadTable(db *sql.DB) (*Table, error) {
	rows, err := db.Query(`SELECT kanji, traditional FROM transliterations`)
	if err != nil {
		return nil, fmt.Errorf("load transliterations: %w", err)
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var kanji, trad string
		if err := rows.Scan(&kanji, &trad); err != nil {
			return nil, fmt.Errorf("scan transliteration: %w", err)
		}
		m[kanji] = trad
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewTable(m), nil
}

// SaveMappings upserts mappings inside a single transaction.
func SaveMappings(db *sql.DB, mappings map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transliteration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	stmt, err := tx.Prepare(`INSERT INTO transliterations (kanji, traditional) VALUES (?, ?)
		ON CONFLICT(kanji) DO UPDATE SET traditional = excluded.traditional`)
	if err != nil {
		return fmt.Errorf("prepare transliteration upsert: %w", err)
	}
	defer stmt.Close()

	for kanji, trad := range mappings {
		if kanji == "" || trad == "" {
			continue
		}
		if _, err := stmt.Exec(kanji, trad); err != nil {
			return fmt.Errorf("upsert transliteration %q: %w", kanji, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transliterations (%d items): %w", len(mappings), err)
	}
	return nil
}

// ImportTSV loads the output of the external conversion pass, one
// "kanji<TAB>traditional" pair per line, into the database. Returns the
// number of pairs imported.
func ImportTSV(db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	m := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kanji, trad, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		kanji, trad = strings.TrimSpace(kanji), strings.TrimSpace(trad)
		if kanji != "" && trad != "" {
			m[kanji] = trad
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read mapping file: %w", err)
	}
	if err := SaveMappings(db, m); err != nil {
		return 0, err
	}
	return len(m), nil
}
