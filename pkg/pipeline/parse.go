package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/circuit"
)

// Parse decodes a diagram document: either the fenced {type, config} block or
// a bare config, as JSON or YAML. Malformed documents fail with an
// INVALID_INPUT or INVALID_BLOCK error; this is the only stage that rejects
// input.
func Parse(data []byte) (circuit.Config, error) {
	return circuit.Decode(data)
}

// SourceHash returns the content hash of a decoded config. Equal configs hash
// equally regardless of the input encoding or formatting.
func SourceHash(cfg circuit.Config) string {
	data, _ := json.Marshal(cfg)
	return cache.Hash(data)
}
