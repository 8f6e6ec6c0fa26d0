package domain

import (
	"bytes"
	"fmt"
)

// Flag is a boolean that also accepts the 0/1 and "0"/"1" encodings some
// backend endpoints emit for uncast columns.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.Trim(b, `"`)) {
	case "true", "1":
		*f = true
	case "false", "0", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}
