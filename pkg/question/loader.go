package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a question set.
type Document struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// LoadFile reads and validates a question set from a JSON or YAML file.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and validates a question set stored in fsys.
func LoadFS(fsys fs.FS, path string) ([]Question, error) {
	if fsys == nil {
		return nil, fmt.Errorf("question: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("question: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data as JSON when source ends in .json and as YAML
// otherwise. Unknown fields are rejected in both formats.
func Parse(data []byte, source string) ([]Question, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("question: file %s is empty", source)
	}

	var (
		doc Document
		err error
	)
	if strings.EqualFold(filepath.Ext(source), ".json") {
		doc, err = parseJSON(data)
	} else {
		doc, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("question: parse %s: %w", source, err)
	}

	if err := Validate(doc.Questions); err != nil {
		return nil, fmt.Errorf("question: %s: %w", source, err)
	}
	return doc.Questions, nil
}

// MarshalYAML renders a question set in the same shape Parse accepts.
func MarshalYAML(questions []Question) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Questions: questions}); err != nil {
		return nil, fmt.Errorf("question: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("question: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func parseJSON(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Document{}, fmt.Errorf("multiple documents are not supported")
		}
		return Document{}, err
	}
	return doc, nil
}

func parseYAML(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Document{}, fmt.Errorf("multiple documents are not supported")
		}
		return Document{}, err
	}
	return doc, nil
}
