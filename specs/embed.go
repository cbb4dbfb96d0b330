// Package specs embeds the bundled Gong API description so every binary
// (server, CLI, importers) can build the operation catalog without a spec
// file on disk.
package specs

import _ "embed"

//go:embed gong-openapi.yaml
var GongOpenAPI []byte
