// Package openapi embeds the HTTP API description served at /api/openapi.yaml
// and used by tests to validate responses.
package openapi

import _ "embed"

// Spec is the OpenAPI 3 document in YAML.
//
//go:embed openapi.yaml
var Spec []byte
