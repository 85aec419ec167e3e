package pagination

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cursor is the opaque keyset-pagination state for the discovery feed.
// UpdatedUnix (millis) + ProfileID establish a total order over candidates.
type Cursor struct {
	UpdatedUnix int64
	ProfileID   uint64
}

// IsZero reports whether the cursor requests the first page.
func (c Cursor) IsZero() bool {
	return c.UpdatedUnix == 0 && c.ProfileID == 0
}

// UpdatedAt returns the cursor timestamp as time.Time.
func (c Cursor) UpdatedAt() time.Time {
	return time.UnixMilli(c.UpdatedUnix)
}

// Encode renders the cursor as the wire token "<unix_milli>|<id>".
// Callers must treat the token as opaque.
func Encode(c Cursor) string {
	return fmt.Sprintf("%d|%d", c.UpdatedUnix, c.ProfileID)
}

// Decode parses a wire token back into a Cursor.
// Empty token → zero cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	tsPart, idPart, ok := strings.Cut(token, "|")
	if !ok {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil || ts <= 0 {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	return Cursor{UpdatedUnix: ts, ProfileID: id}, nil
}
