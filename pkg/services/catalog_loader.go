package services

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
	"github.com/The-Kiln/gong-mcp-customized/pkg/database"
	"github.com/The-Kiln/gong-mcp-customized/pkg/models"
	"github.com/The-Kiln/gong-mcp-customized/pkg/repository"
	"github.com/The-Kiln/gong-mcp-customized/pkg/server"
	"github.com/The-Kiln/gong-mcp-customized/specs"
)

// CatalogLoaderService loads Gong API descriptions from the database and
// turns them into operation catalogs.
type CatalogLoaderService struct {
	specRepo *repository.CatalogSpecRepository
	db       *sql.DB
}

// NewCatalogLoaderService creates a new catalog loader service
func NewCatalogLoaderService(db *sql.DB) *CatalogLoaderService {
	return &CatalogLoaderService{
		specRepo: repository.NewCatalogSpecRepository(db),
		db:       db,
	}
}

// LoadActiveCatalog builds an operation catalog from the first active spec in
// the database. The stored row is returned alongside so callers can apply its
// credentials and base URL.
func (s *CatalogLoaderService) LoadActiveCatalog() (*catalog.Catalog, *models.CatalogSpec, error) {
	rows, err := s.specRepo.GetActive()
	if err != nil {
		return nil, nil, server.Wrap(err, server.ErrorTypeDatabase, "failed to load specs from database")
	}
	if len(rows) == 0 {
		return nil, nil, server.NewError(server.ErrorTypeNotFound, "no active specs found in database", "")
	}

	spec := rows[0]
	if len(rows) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: %d active specs found, using '%s'\n", len(rows), spec.Name)
	}

	cat, err := catalog.Load([]byte(spec.SpecContent))
	if err != nil {
		return nil, nil, server.Wrap(err, server.ErrorTypeValidation, fmt.Sprintf("failed to parse spec '%s'", spec.Name))
	}

	fmt.Fprintf(os.Stderr, "Loaded spec '%s' with %d operations from database\n", spec.Name, cat.Len())
	return cat, spec, nil
}

// ImportSpecFromFile imports an API description from a file into the database
func (s *CatalogLoaderService) ImportSpecFromFile(filePath, name string) error {
	if database.DB == nil {
		return server.NewError(server.ErrorTypeConfiguration, "database connection not initialized", "")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return server.Wrap(err, server.ErrorTypeInternal, "failed to read spec file")
	}

	format := "yaml"
	if strings.HasSuffix(strings.ToLower(filePath), ".json") {
		format = "json"
	}

	return s.importSpecContent(name, string(content), format)
}

// ImportEmbeddedSpec stores the bundled Gong API description under the given
// name.
func (s *CatalogLoaderService) ImportEmbeddedSpec(name string) error {
	if database.DB == nil {
		return server.NewError(server.ErrorTypeConfiguration, "database connection not initialized", "")
	}
	return s.importSpecContent(name, string(specs.GongOpenAPI), "yaml")
}

func (s *CatalogLoaderService) importSpecContent(name, content, format string) error {
	// Reject descriptions the catalog builder cannot use before they reach
	// the database.
	if _, err := catalog.Load([]byte(content)); err != nil {
		return server.Wrap(err, server.ErrorTypeValidation, "spec does not describe a usable catalog")
	}

	title, version := specInfo([]byte(content))

	spec := models.NewCatalogSpec(name, content)
	spec.Title = title
	spec.Version = version
	spec.FileFormat = &format

	if _, err := s.specRepo.Create(spec); err != nil {
		return server.Wrap(err, server.ErrorTypeDatabase, "failed to save spec to database")
	}

	fmt.Fprintf(os.Stderr, "Successfully imported spec '%s' to database\n", name)
	return nil
}

func specInfo(content []byte) (title, version *string) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(content)
	if err != nil || doc.Info == nil {
		return nil, nil
	}
	if doc.Info.Title != "" {
		title = &doc.Info.Title
	}
	if doc.Info.Version != "" {
		version = &doc.Info.Version
	}
	return title, version
}

// GetAllSpecs returns all specs from the database
func (s *CatalogLoaderService) GetAllSpecs() ([]*models.CatalogSpec, error) {
	return s.specRepo.GetAll()
}

// GetActiveSpecs returns all active specs from the database
func (s *CatalogLoaderService) GetActiveSpecs() ([]*models.CatalogSpec, error) {
	return s.specRepo.GetActive()
}

// ActivateSpec activates a spec by ID
func (s *CatalogLoaderService) ActivateSpec(id int) error {
	return s.specRepo.SetActive(id, true)
}

// DeactivateSpec deactivates a spec by ID
func (s *CatalogLoaderService) DeactivateSpec(id int) error {
	return s.specRepo.SetActive(id, false)
}

// DeleteSpec deletes a spec by ID
func (s *CatalogLoaderService) DeleteSpec(id int) error {
	return s.specRepo.Delete(id)
}

// UpdateCredentials stores the Gong access key and secret for a spec by ID
func (s *CatalogLoaderService) UpdateCredentials(id int, accessKey, accessSecret *string) error {
	return s.specRepo.UpdateCredentials(id, accessKey, accessSecret)
}
