package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	result := make(JSONB)
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// JSONBArray is a custom type for JSONB array columns
type JSONBArray []interface{}

// Value implements the driver.Valuer interface for JSONBArray
func (a JSONBArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface for JSONBArray
func (a *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("incompatible type for JSONBArray")
	}

	var result JSONBArray
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	*a = result
	return nil
}
