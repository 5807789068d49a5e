package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

func jsonValue(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func jsonScan(dest any, src any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("dbtypes: unsupported scan type %T", src)
	}
}
