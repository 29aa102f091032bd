package schemeio

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parser reads scheme documents from YAML, mirroring the shape of the
// teacher's scenario parser.
type Parser struct{}

// NewParser returns a ready-to-use Parser. There is currently no
// configuration, but the constructor keeps the call shape consistent with
// the rest of the codebase (everything is built via a New/NewXxx
// function).
func NewParser() *Parser { return &Parser{} }

// ParseFile reads and parses a scheme document from a file path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemeio: read %s: %w", path, err)
	}
	return p.Parse(data)
}

// ParseReader reads and parses a scheme document from an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schemeio: read document: %w", err)
	}
	return p.Parse(data)
}

// Parse parses a scheme document from raw YAML bytes.
func (p *Parser) Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemeio: parse YAML: %w", err)
	}
	return &doc, nil
}
