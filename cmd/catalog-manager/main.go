package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/The-Kiln/gong-mcp-customized/pkg/database"
	"github.com/The-Kiln/gong-mcp-customized/pkg/models"
	"github.com/The-Kiln/gong-mcp-customized/pkg/server"
	"github.com/The-Kiln/gong-mcp-customized/pkg/services"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" {
		printHelp()
		return
	}

	godotenv.Load()

	if err := database.InitializeDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	loader := services.NewCatalogLoaderService(database.DB)

	switch command {
	case "list":
		handleList(loader, false)
	case "active":
		handleList(loader, true)
	case "import":
		handleImport(loader)
	case "seed":
		handleSeed(loader)
	case "activate":
		handleSetActive(loader, true)
	case "deactivate":
		handleSetActive(loader, false)
	case "delete":
		handleDelete(loader)
	case "set-credentials":
		handleSetCredentials(loader)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Gong Catalog Manager")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                                 List all specs in the database")
	fmt.Println("  active                               List only active specs")
	fmt.Println("  import <file> <name>                 Import an API description file")
	fmt.Println("  seed [name]                          Import the bundled Gong API description")
	fmt.Println("  activate <id>                        Activate a spec by ID")
	fmt.Println("  deactivate <id>                      Deactivate a spec by ID")
	fmt.Println("  delete <id>                          Delete a spec by ID")
	fmt.Println("  set-credentials <id> <key> <secret>  Store Gong access credentials for a spec")
	fmt.Println("  help                                 Show this help message")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  catalog-manager seed")
	fmt.Println("  catalog-manager import gong.yaml gong-staging")
	fmt.Println("  catalog-manager activate 1")
	fmt.Println("  catalog-manager set-credentials 1 \"access-key\" \"access-secret\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_URL                         PostgreSQL connection string")
}

func handleList(loader *services.CatalogLoaderService, activeOnly bool) {
	var rows []*models.CatalogSpec
	var err error
	if activeOnly {
		rows, err = loader.GetActiveSpecs()
	} else {
		rows, err = loader.GetAllSpecs()
	}
	if err != nil {
		log.Fatalf("Failed to get specs: %v", err)
	}

	if len(rows) == 0 {
		fmt.Println("No specs found in the database.")
		return
	}

	fmt.Printf("%-4s %-20s %-30s %-10s %-8s %-10s %s\n", "ID", "Name", "Title", "Version", "Active", "Format", "Credentials")
	fmt.Println(strings.Repeat("-", 100))

	for _, spec := range rows {
		fmt.Printf("%-4d %-20s %-30s %-10s %-8s %-10s %s\n",
			spec.ID,
			truncate(spec.Name, 18),
			truncate(strVal(spec.Title), 28),
			truncate(strVal(spec.Version), 8),
			strconv.FormatBool(spec.IsActive != nil && *spec.IsActive),
			strVal(spec.FileFormat),
			credentialState(spec))
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func credentialState(spec *models.CatalogSpec) string {
	if spec.AccessKey != nil && *spec.AccessKey != "" && spec.AccessSecret != nil && *spec.AccessSecret != "" {
		return "Set"
	}
	return "Not set"
}

func handleImport(loader *services.CatalogLoaderService) {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: catalog-manager import <file-path> <name>\n")
		os.Exit(1)
	}

	filePath := os.Args[2]
	name := os.Args[3]

	if err := loader.ImportSpecFromFile(filePath, name); err != nil {
		if server.IsType(err, server.ErrorTypeValidation) {
			log.Fatalf("Spec rejected: %v", err)
		}
		log.Fatalf("Failed to import spec: %v", err)
	}

	fmt.Printf("Successfully imported spec '%s' from '%s'\n", name, filePath)
}

func handleSeed(loader *services.CatalogLoaderService) {
	name := "gong"
	if len(os.Args) > 2 {
		name = os.Args[2]
	}

	if err := loader.ImportEmbeddedSpec(name); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("Successfully seeded database with embedded spec as '%s'\n", name)
}

func handleSetActive(loader *services.CatalogLoaderService, active bool) {
	verb := "activate"
	if !active {
		verb = "deactivate"
	}
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: catalog-manager %s <id>\n", verb)
		os.Exit(1)
	}

	id, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("Invalid ID: %v", err)
	}

	if active {
		err = loader.ActivateSpec(id)
	} else {
		err = loader.DeactivateSpec(id)
	}
	if err != nil {
		log.Fatalf("Failed to %s spec: %v", verb, err)
	}

	fmt.Printf("Successfully %sd spec with ID %d\n", verb, id)
}

func handleDelete(loader *services.CatalogLoaderService) {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: catalog-manager delete <id>\n")
		os.Exit(1)
	}

	id, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("Invalid ID: %v", err)
	}

	if err := loader.DeleteSpec(id); err != nil {
		log.Fatalf("Failed to delete spec: %v", err)
	}

	fmt.Printf("Successfully deleted spec with ID %d\n", id)
}

func handleSetCredentials(loader *services.CatalogLoaderService) {
	if len(os.Args) < 5 {
		fmt.Fprintf(os.Stderr, "Usage: catalog-manager set-credentials <id> <access-key> <access-secret>\n")
		fmt.Fprintf(os.Stderr, "       catalog-manager set-credentials <id> \"\" \"\"  (to clear)\n")
		os.Exit(1)
	}

	id, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("Invalid ID: %v", err)
	}

	key := optional(os.Args[3])
	secret := optional(os.Args[4])

	if err := loader.UpdateCredentials(id, key, secret); err != nil {
		log.Fatalf("Failed to update credentials: %v", err)
	}

	if key == nil && secret == nil {
		fmt.Printf("Successfully cleared credentials for spec with ID %d\n", id)
	} else {
		fmt.Printf("Successfully set credentials for spec with ID %d\n", id)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
