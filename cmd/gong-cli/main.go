// Command gong-cli is an interactive console for invoking Gong operations
// directly, without an MCP client in the loop. Useful for trying out
// credentials and pagination behavior.
//
// Example usage:
//
//	gong-cli
//	gong> list
//	gong> listusers {"paginate": true}
//	gong> getcallbyid {"id": "7782342274025937895"}
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
	"github.com/The-Kiln/gong-mcp-customized/pkg/engine"
	"github.com/The-Kiln/gong-mcp-customized/pkg/gongauth"
	"github.com/The-Kiln/gong-mcp-customized/specs"
)

func main() {
	godotenv.Load()

	data := specs.GongOpenAPI
	if specFile := os.Getenv("GONG_SPEC_FILE"); specFile != "" {
		fileData, err := os.ReadFile(specFile)
		if err != nil {
			log.Fatalf("Failed to read spec file: %v", err)
		}
		data = fileData
	}

	cat, err := catalog.Load(data)
	if err != nil {
		log.Fatalf("Failed to load operation catalog: %v", err)
	}

	opts := []engine.Option{
		engine.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
	}
	if baseURL := os.Getenv("GONG_BASE_URL"); baseURL != "" {
		opts = append(opts, engine.WithBaseURL(baseURL))
	}
	eng := engine.New(cat, gongauth.NewProvider(), opts...)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gong> ",
		HistoryFile:     os.TempDir() + "/gong-cli-history",
		AutoComplete:    completer(cat),
		InterruptPrompt: "^C",
	})
	if err != nil {
		log.Fatalf("Failed to initialize readline: %v", err)
	}
	defer rl.Close()

	fmt.Printf("Gong CLI ready with %d operations. Type 'list' or 'help'.\n", cat.Len())

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == "exit" || line == "quit":
			return
		case line == "help":
			printHelp()
		case line == "list":
			printOperations(cat)
		default:
			runOperation(eng, cat, line)
		}
	}
}

func completer(cat *catalog.Catalog) readline.AutoCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("list"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	}
	for _, name := range cat.Names() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  list                  List available operations")
	fmt.Println("  <operation> [json]    Invoke an operation with JSON arguments")
	fmt.Println("  help                  Show this help message")
	fmt.Println("  exit                  Quit")
	fmt.Println("")
	fmt.Println("Example:")
	fmt.Println("  postv2callsextensive {\"requestBody\": {\"filter\": {}}, \"paginate\": true}")
}

func printOperations(cat *catalog.Catalog) {
	for _, name := range cat.Names() {
		op, ok := cat.Lookup(name)
		if !ok {
			continue
		}
		fmt.Printf("  %-28s %s %s\n", name, op.Method, op.PathTemplate)
	}
}

func runOperation(eng *engine.Engine, cat *catalog.Catalog, line string) {
	name, rawArgs, _ := strings.Cut(line, " ")
	if _, ok := cat.Lookup(catalog.NormalizeName(name)); !ok {
		fmt.Printf("Unknown operation: %s (try 'list')\n", name)
		return
	}

	args := map[string]any{}
	if strings.TrimSpace(rawArgs) != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			fmt.Printf("Invalid JSON arguments: %v\n", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println(eng.Invoke(ctx, catalog.NormalizeName(name), args))
}
