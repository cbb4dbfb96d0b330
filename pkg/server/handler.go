package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
)

// HandleHealth handles the /health endpoint for health checks
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := map[string]interface{}{
			"status":  "healthy",
			"service": "gong-mcp",
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("Failed to encode health response: %v", err)
		}
	}
}

// HandleOperations lists the operations exposed by the catalog.
func HandleOperations(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ops := make([]map[string]interface{}, 0, cat.Len())
		for _, name := range cat.Names() {
			op, ok := cat.Lookup(name)
			if !ok {
				continue
			}
			ops = append(ops, map[string]interface{}{
				"name":    op.Name,
				"method":  op.Method,
				"path":    op.PathTemplate,
				"summary": op.Summary,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ops); err != nil {
			log.Printf("Failed to encode operation list: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
