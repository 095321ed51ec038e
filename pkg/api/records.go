// Package api форматы данных, которыми gophsync обменивается с внешним миром.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidImport indicates a malformed import file
var ErrInvalidImport = errors.New("invalid import file")

// Record одна реплика записи
type Record struct {
	Fields       map[string]any `json:"fields"`
	Checksum     string         `json:"checksum,omitempty"` // Checksum если пуст, вычисляется при импорте
	Version      int64          `json:"version,omitempty"`
	LastModified int64          `json:"last_modified,omitempty"`
}

// Entity реплики одной сущности. Любая из реплик может отсутствовать.
type Entity struct {
	Local      *Record `json:"local,omitempty"`
	Server     *Record `json:"server,omitempty"`
	Base       *Record `json:"base,omitempty"`
	ID         string  `json:"id"`
	EntityType string  `json:"entity_type"`
}

// ImportFile файл импорта реплик
type ImportFile struct {
	Entities []Entity `json:"entities"`
}

// DecodeImportFile читает файл импорта. Числа сохраняются как json.Number,
// чтобы целые значения не превращались во float64.
func DecodeImportFile(r io.Reader) (*ImportFile, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var f ImportFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	seen := make(map[string]struct{}, len(f.Entities))
	for i, e := range f.Entities {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: entity #%d has no id", ErrInvalidImport, i+1)
		}
		if _, ok := seen[e.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate entity %q", ErrInvalidImport, e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Local == nil && e.Server == nil && e.Base == nil {
			return nil, fmt.Errorf("%w: entity %q has no replicas", ErrInvalidImport, e.ID)
		}
	}
	return &f, nil
}
