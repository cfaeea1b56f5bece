package circuit

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/schematic/pkg/errors"
)

// DecodeBlock parses a fenced diagram document. JSON is tried first; documents
// that do not start with '{' are read as YAML. The block type must be
// [BlockType].
//
// Decoding is the only place malformed input surfaces as an error; everything
// after it degrades gracefully.
func DecodeBlock(data []byte) (Block, error) {
	var b Block
	if err := unmarshal(data, &b); err != nil {
		return Block{}, err
	}
	if b.Type != BlockType {
		return Block{}, errors.New(errors.ErrCodeInvalidBlock, "unexpected block type %q (want %q)", b.Type, BlockType)
	}
	return b, nil
}

// DecodeConfig parses a bare diagram configuration without the block wrapper.
func DecodeConfig(data []byte) (Config, error) {
	var c Config
	if err := unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "empty diagram document")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse diagram JSON")
		}
		return nil
	}
	if err := yaml.Unmarshal(trimmed, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse diagram YAML")
	}
	return nil
}

// Decode parses either a fenced block document or a bare configuration.
// Documents that name a type other than [BlockType] are rejected.
func Decode(data []byte) (Config, error) {
	var b Block
	if err := unmarshal(data, &b); err != nil {
		return Config{}, err
	}
	switch b.Type {
	case BlockType:
		return b.Config, nil
	case "":
		return DecodeConfig(data)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidBlock, "unexpected block type %q (want %q)", b.Type, BlockType)
	}
}
