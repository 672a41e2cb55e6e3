package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ciudades (
	nombre   TEXT PRIMARY KEY,
	latitud  REAL,
	longitud REAL
);

CREATE TABLE IF NOT EXISTS distancias (
	origen    TEXT NOT NULL REFERENCES ciudades(nombre) ON DELETE CASCADE,
	destino   TEXT NOT NULL REFERENCES ciudades(nombre) ON DELETE CASCADE,
	distancia REAL NOT NULL,
	activa    INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (origen, destino)
);

CREATE TABLE IF NOT EXISTS rutas_calculadas (
	id              TEXT PRIMARY KEY,
	origen          TEXT NOT NULL,
	destino         TEXT NOT NULL,
	algoritmo       TEXT NOT NULL,
	distancia_total REAL NOT NULL,
	nodos_expandidos INTEGER NOT NULL DEFAULT 0,
	creada_en       TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS tramos_ruta (
	ruta_id   TEXT NOT NULL REFERENCES rutas_calculadas(id) ON DELETE CASCADE,
	orden     INTEGER NOT NULL,
	origen    TEXT NOT NULL,
	destino   TEXT NOT NULL,
	distancia REAL NOT NULL,
	PRIMARY KEY (ruta_id, orden)
);
`

type SQLiteDatabase struct {
	DB *sql.DB
}

// NewSQLiteDatabase opens the database file and creates the schema if it
// does not exist yet.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("could not open SQLite database: %w", err)
	}
	// A single connection keeps in-memory databases and writers consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create tables: %w", err)
	}
	return &SQLiteDatabase{DB: db}, nil
}

func (db *SQLiteDatabase) Close() error {
	return db.DB.Close()
}

// ExecuteSQLFile runs a whole .sql script, typically to seed the network.
func (db *SQLiteDatabase) ExecuteSQLFile(ctx context.Context, filePath string) error {
	script, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading sql file: %w", err)
	}
	if _, err := db.DB.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("error executing %s: %w", filePath, err)
	}
	return nil
}
