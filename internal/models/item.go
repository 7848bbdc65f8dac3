// Package models provides data model definitions for clipsync.
package models

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ClipboardItem represents one stored clipboard entry.
//
// ID is a millisecond timestamp assigned at creation time. It is unique
// within a user's collection in practice but not guaranteed unique
// across rapid concurrent creation; the merge rule resolves duplicates
// with remote-wins semantics.
type ClipboardItem struct {
	ID    int64  `db:"id" json:"id"`
	Value string `db:"clipboard_data" json:"value"`
}

// TableName returns the backend table name for ClipboardItem.
func (ClipboardItem) TableName() string {
	return "clipboard_items"
}

// CreatedAtTime returns the creation time encoded in the item ID.
func (c *ClipboardItem) CreatedAtTime() time.Time {
	return time.UnixMilli(c.ID)
}

// WireItem is the JSON shape exchanged with the durable store backend.
type WireItem struct {
	ID            int64  `json:"id"`
	ClipboardData string `json:"clipboard_data"`
}

// ToWire converts a ClipboardItem to its wire representation.
func (c ClipboardItem) ToWire() WireItem {
	return WireItem{ID: c.ID, ClipboardData: c.Value}
}

// FromWire converts a wire item back to a ClipboardItem.
func FromWire(w WireItem) ClipboardItem {
	return ClipboardItem{ID: w.ID, Value: w.ClipboardData}
}

// ItemKind classifies a clipboard payload for display purposes.
type ItemKind string

const (
	KindText  ItemKind = "text"
	KindImage ItemKind = "image"
)

const dataURIPrefix = "data:image/"

// DetectKind classifies a payload as text or image. A payload is an
// image only if it is a data URI whose decoded bytes actually sniff as
// an image; a "data:image/" prefix with a non-image body is treated as
// text. The stored value itself is never modified.
func DetectKind(value string) ItemKind {
	if !strings.HasPrefix(value, dataURIPrefix) {
		return KindText
	}
	comma := strings.IndexByte(value, ',')
	if comma < 0 {
		return KindText
	}
	header, body := value[:comma], value[comma+1:]
	if !strings.HasSuffix(header, ";base64") {
		return KindText
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return KindText
	}
	if strings.HasPrefix(mimetype.Detect(raw).String(), "image/") {
		return KindImage
	}
	return KindText
}
