// Package models defines client-side data models used by the mycolog CLI.
package models

import "encoding/json"

// Record is one field observation persisted locally and synced with the
// cloud. Photos are raw binary blobs owned exclusively by the record; Meta is
// an open map the sync path treats as opaque except for the detail watermark.
type Record struct {
	// ID is a globally unique identifier, generated client-side at creation
	// and never reassigned. It is the join key for all reconciliation.
	ID string

	// CreatedAt is the creation time in milliseconds since epoch, immutable.
	CreatedAt int64

	// Photo is the primary photo blob, never nil for a well-formed record.
	Photo []byte

	// ExtraPhotos is the ordered list of additional photo blobs.
	ExtraPhotos [][]byte

	// View is an opaque display hint mirrored to the cloud untouched.
	View string

	// Meta holds the structured observation fields (species, habitat, spore
	// print, ...). The sync engine reads only Meta["detail"]["updatedAt"].
	Meta map[string]any
}

// Watermark returns the record's last-write timestamp in milliseconds: the
// nested meta.detail.updatedAt field when present and numeric, otherwise
// CreatedAt. Replica comparison during sync is done exclusively on this value.
func (r *Record) Watermark() int64 {
	detail, ok := r.Meta["detail"].(map[string]any)
	if !ok {
		return r.CreatedAt
	}
	if ms, ok := asMillis(detail["updatedAt"]); ok {
		return ms
	}
	return r.CreatedAt
}

// Touch records a detail edit at the given timestamp, creating the nested
// detail map if needed. The next sync pass re-uploads the record.
func (r *Record) Touch(nowMs int64) {
	if r.Meta == nil {
		r.Meta = map[string]any{}
	}
	detail, ok := r.Meta["detail"].(map[string]any)
	if !ok {
		detail = map[string]any{}
		r.Meta["detail"] = detail
	}
	detail["updatedAt"] = nowMs
}

// asMillis coerces the JSON-ish numeric shapes Meta can carry after a
// marshal/unmarshal round trip.
func asMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
