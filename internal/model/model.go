// Package model holds the persisted entities and the request/response shapes
// exchanged with the HTTP layer.
package model

import (
	"bytes"
	"encoding/json"
)

// All lists every persisted model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Table{},
		&Column{},
		&Row{},
		&Cell{},
		&Version{},
	}
}

// EncodeScalar renders a plain value as JSON, nil giving nil bytes.
func EncodeScalar(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// DecodeScalar parses stored JSON keeping numbers as json.Number.
func DecodeScalar(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
