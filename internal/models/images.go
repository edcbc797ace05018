package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageList is an ordered list of public image URLs stored as a JSON column.
type ImageList []string

// Value encodes the list as a JSON array. A nil list is stored as [].
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a JSON array column. NULL and empty values become an empty list.
func (l *ImageList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ImageList", src)
	}

	if len(raw) == 0 {
		*l = ImageList{}
		return nil
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return fmt.Errorf("decode image list: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}
	*l = urls
	return nil
}
