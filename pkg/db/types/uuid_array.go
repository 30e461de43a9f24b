package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray maps a Go slice of UUIDs onto a Postgres uuid[] column using the
// array literal syntax, so it also round-trips through text columns.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = UUIDArray{}
		return nil
	case string:
		return a.decodeLiteral(v)
	case []byte:
		return a.decodeLiteral(string(v))
	}
	return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
}

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, len(a))
	for i, id := range a {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (a *UUIDArray) decodeLiteral(literal string) error {
	inner := strings.TrimSpace(literal)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")
	if strings.TrimSpace(inner) == "" {
		*a = UUIDArray{}
		return nil
	}

	elems := strings.Split(inner, ",")
	out := make(UUIDArray, 0, len(elems))
	for _, elem := range elems {
		id, err := uuid.Parse(strings.TrimSpace(strings.Trim(elem, `"`)))
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", elem, err)
		}
		out = append(out, id)
	}
	*a = out
	return nil
}

// Contains reports whether the array holds the given id.
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, candidate := range a {
		if candidate == id {
			return true
		}
	}
	return false
}

// Append returns a copy with id added, or the receiver unchanged when the id
// is already present.
func (a UUIDArray) Append(id uuid.UUID) UUIDArray {
	if a.Contains(id) {
		return a
	}
	out := make(UUIDArray, 0, len(a)+1)
	out = append(out, a...)
	return append(out, id)
}
