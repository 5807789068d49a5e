package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size applied when the caller sends none.
	DefaultLimit = 20
	// MaxLimit caps the page size of any cursor query.
	MaxLimit = 100
)

// Params carries the cursor pagination inputs through controllers and services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the decoded keyset position: rows strictly older than
// (CreatedAt, ID) belong to the next page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], substituting
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer adds one row to the normalized limit so repositories can
// detect whether a further page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes the position as base64 over "timestamp|id".
func EncodeCursor(cursor Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor is the inverse of EncodeCursor. A blank value means "first
// page" and yields a nil cursor without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	tsPart, idPart, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}

	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: ts, ID: id}, nil
}
