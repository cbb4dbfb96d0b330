package database

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateCatalogSpecsTable creates the catalog_specs table with constraints
// and indexes.
func CreateCatalogSpecsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_specs (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		title VARCHAR(500),
		version VARCHAR(100),
		spec_content TEXT NOT NULL,
		base_url VARCHAR(500),
		file_format VARCHAR(10) DEFAULT 'yaml',
		file_size INTEGER,
		access_key VARCHAR(500),
		access_secret VARCHAR(500),
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMP(6) DEFAULT NOW(),
		updated_at TIMESTAMP(6) DEFAULT NOW()
	);

	-- Create indexes
	CREATE INDEX IF NOT EXISTS idx_catalog_specs_is_active ON catalog_specs(is_active);
	CREATE INDEX IF NOT EXISTS idx_catalog_specs_name ON catalog_specs(name);

	-- Create updated_at trigger
	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DROP TRIGGER IF EXISTS update_catalog_specs_updated_at ON catalog_specs;
	CREATE TRIGGER update_catalog_specs_updated_at
		BEFORE UPDATE ON catalog_specs
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog_specs table: %v", err)
	}

	log.Println("Successfully created catalog_specs table with indexes and triggers")
	return nil
}

// DropCatalogSpecsTable drops the catalog_specs table (useful for testing)
func DropCatalogSpecsTable(db *sql.DB) error {
	query := `
	DROP TRIGGER IF EXISTS update_catalog_specs_updated_at ON catalog_specs;
	DROP FUNCTION IF EXISTS update_updated_at_column();
	DROP TABLE IF EXISTS catalog_specs CASCADE;
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to drop catalog_specs table: %v", err)
	}

	log.Println("Successfully dropped catalog_specs table")
	return nil
}

// RunMigrations runs all database migrations
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	if err := CreateCatalogSpecsTable(db); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}

	log.Println("All migrations completed successfully")
	return nil
}
