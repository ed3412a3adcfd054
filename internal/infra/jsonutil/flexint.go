package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes from a JSON number, a numeric string, an empty string or
// null. HTML forms submit select values as strings, and older reminder
// files stored them that way.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0

			return nil
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}

		*f = FlexInt(n)

		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*f = FlexInt(n)

	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}
