package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// stringList stores a []string column as jsonb. pgdriver exposes no native
// array codec, so list-valued fields round-trip through json.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}

	return json.Unmarshal(data, (*[]string)(l))
}
