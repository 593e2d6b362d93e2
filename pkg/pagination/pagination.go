// Package pagination implements the keyset cursors used by the active-order
// feed. Orders are walked newest-first on (created_at, id), so a cursor names
// the last row a client saw and the repository resumes strictly below it.
// Offset pagination is avoided on purpose: the feed shifts whenever an order
// is registered or completed, and offsets would skip or repeat rows.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size handed to clients that do not ask for one.
	DefaultLimit = 25
	// MaxLimit bounds a single page of orders regardless of what was requested.
	MaxLimit = 100
)

// cursorSep joins the two cursor components inside the encoded token.
const cursorSep = "|"

// Params carries the paging inputs of an order listing request. Cursor is the
// opaque token from a previous page, empty on the first request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins a position in the feed: the creation instant and id of the last
// order already delivered. The id disambiguates orders created in the same
// nanosecond.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], substituting
// DefaultLimit for zero or negative requests.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer is the row count the repository actually queries: one more
// than the page size, so the presence of an extra row signals a next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders a cursor as the opaque token returned to clients. The
// timestamp is normalized to UTC so tokens survive a server timezone change.
func EncodeCursor(cursor Cursor) string {
	token := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSep + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(token))
}

// ParseCursor decodes a client-supplied token. An empty or blank token means
// "first page" and yields a nil cursor without error; anything else that does
// not round-trip through EncodeCursor is rejected.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, id, found := strings.Cut(string(raw), cursorSep)
	if !found {
		return nil, fmt.Errorf("cursor is missing its separator")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("cursor order id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: orderID}, nil
}
