// Package spec ships the API's OpenAPI document inside the server binary.
package spec

import _ "embed"

// OpenAPI is openapi.yaml, served verbatim at GET /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
