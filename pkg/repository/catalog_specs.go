package repository

import (
	"database/sql"
	"fmt"

	"github.com/The-Kiln/gong-mcp-customized/pkg/models"
)

const specColumns = `id, name, title, version, spec_content, base_url, file_format, file_size, access_key, access_secret, is_active, created_at, updated_at`

// CatalogSpecRepository handles database operations for stored API
// descriptions.
type CatalogSpecRepository struct {
	db *sql.DB
}

// NewCatalogSpecRepository creates a new repository instance
func NewCatalogSpecRepository(db *sql.DB) *CatalogSpecRepository {
	return &CatalogSpecRepository{db: db}
}

func scanSpec(row interface{ Scan(...interface{}) error }) (*models.CatalogSpec, error) {
	spec := &models.CatalogSpec{}
	err := row.Scan(
		&spec.ID,
		&spec.Name,
		&spec.Title,
		&spec.Version,
		&spec.SpecContent,
		&spec.BaseURL,
		&spec.FileFormat,
		&spec.FileSize,
		&spec.AccessKey,
		&spec.AccessSecret,
		&spec.IsActive,
		&spec.CreatedAt,
		&spec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// Create inserts a new catalog spec into the database
func (r *CatalogSpecRepository) Create(spec *models.CatalogSpec) (*models.CatalogSpec, error) {
	query := `
		INSERT INTO catalog_specs (name, title, version, spec_content, base_url, file_format, file_size, access_key, access_secret, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		spec.Name,
		spec.Title,
		spec.Version,
		spec.SpecContent,
		spec.BaseURL,
		spec.FileFormat,
		spec.FileSize,
		spec.AccessKey,
		spec.AccessSecret,
		spec.IsActive,
	).Scan(&spec.ID, &spec.CreatedAt, &spec.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create catalog spec: %v", err)
	}

	return spec, nil
}

// GetByID retrieves a catalog spec by its ID
func (r *CatalogSpecRepository) GetByID(id int) (*models.CatalogSpec, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_specs WHERE id = $1`, specColumns)

	spec, err := scanSpec(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("catalog spec with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get catalog spec: %v", err)
	}

	return spec, nil
}

// GetByName retrieves a catalog spec by its name
func (r *CatalogSpecRepository) GetByName(name string) (*models.CatalogSpec, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_specs WHERE name = $1`, specColumns)

	spec, err := scanSpec(r.db.QueryRow(query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("catalog spec with name %s not found", name)
		}
		return nil, fmt.Errorf("failed to get catalog spec: %v", err)
	}

	return spec, nil
}

func (r *CatalogSpecRepository) queryMany(query string) ([]*models.CatalogSpec, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []*models.CatalogSpec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog spec: %v", err)
		}
		specs = append(specs, spec)
	}

	return specs, rows.Err()
}

// GetAll retrieves all catalog specs
func (r *CatalogSpecRepository) GetAll() ([]*models.CatalogSpec, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_specs ORDER BY created_at DESC`, specColumns)

	specs, err := r.queryMany(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all catalog specs: %v", err)
	}
	return specs, nil
}

// GetActive retrieves all active catalog specs
func (r *CatalogSpecRepository) GetActive() ([]*models.CatalogSpec, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_specs WHERE is_active = true ORDER BY created_at DESC`, specColumns)

	specs, err := r.queryMany(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active catalog specs: %v", err)
	}
	return specs, nil
}

// Update modifies an existing catalog spec
func (r *CatalogSpecRepository) Update(spec *models.CatalogSpec) (*models.CatalogSpec, error) {
	query := `
		UPDATE catalog_specs
		SET name = $2, title = $3, version = $4, spec_content = $5, base_url = $6,
		    file_format = $7, file_size = $8, access_key = $9, access_secret = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		spec.ID,
		spec.Name,
		spec.Title,
		spec.Version,
		spec.SpecContent,
		spec.BaseURL,
		spec.FileFormat,
		spec.FileSize,
		spec.AccessKey,
		spec.AccessSecret,
		spec.IsActive,
	).Scan(&spec.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update catalog spec: %v", err)
	}

	return spec, nil
}

// Delete removes a catalog spec from the database
func (r *CatalogSpecRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM catalog_specs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog spec: %v", err)
	}
	return requireRow(result, id)
}

// SetActive sets the is_active status of a catalog spec
func (r *CatalogSpecRepository) SetActive(id int, active bool) error {
	result, err := r.db.Exec(`UPDATE catalog_specs SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set active status: %v", err)
	}
	return requireRow(result, id)
}

// UpdateCredentials stores the Gong access key and secret for a catalog spec
func (r *CatalogSpecRepository) UpdateCredentials(id int, accessKey, accessSecret *string) error {
	result, err := r.db.Exec(`UPDATE catalog_specs SET access_key = $2, access_secret = $3, updated_at = NOW() WHERE id = $1`, id, accessKey, accessSecret)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %v", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("catalog spec with id %d not found", id)
	}
	return nil
}
