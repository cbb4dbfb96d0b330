package models

import (
	"time"
)

// CatalogSpec represents the catalog_specs table structure. Each row stores
// one Gong API description plus the credentials used against it.
type CatalogSpec struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Title        *string    `json:"title,omitempty" db:"title"`
	Version      *string    `json:"version,omitempty" db:"version"`
	SpecContent  string     `json:"spec_content" db:"spec_content"`
	BaseURL      *string    `json:"base_url,omitempty" db:"base_url"`
	FileFormat   *string    `json:"file_format,omitempty" db:"file_format"`
	FileSize     *int       `json:"file_size,omitempty" db:"file_size"`
	AccessKey    *string    `json:"access_key,omitempty" db:"access_key"`
	AccessSecret *string    `json:"access_secret,omitempty" db:"access_secret"`
	IsActive     *bool      `json:"is_active,omitempty" db:"is_active"`
	CreatedAt    *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TableName returns the table name for the CatalogSpec model
func (CatalogSpec) TableName() string {
	return "catalog_specs"
}

// NewCatalogSpec creates a new CatalogSpec instance with default values
func NewCatalogSpec(name, specContent string) *CatalogSpec {
	now := time.Now()
	active := true
	format := "yaml"
	size := len(specContent)

	return &CatalogSpec{
		Name:        name,
		SpecContent: specContent,
		FileFormat:  &format,
		FileSize:    &size,
		IsActive:    &active,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
}
