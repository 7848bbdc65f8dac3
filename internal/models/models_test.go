// Package models tests for clipboard item definitions.
package models

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// tinyPNG is a valid 1x1 PNG used for payload sniffing tests.
var tinyPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

// TestClipboardItem_CreatedAtTime verifies the ID encodes creation time.
func TestClipboardItem_CreatedAtTime(t *testing.T) {
	now := time.Now()
	item := &ClipboardItem{ID: now.UnixMilli(), Value: "hello"}

	got := item.CreatedAtTime()
	if got.UnixMilli() != now.UnixMilli() {
		t.Errorf("CreatedAtTime() = %v, want %v", got, now)
	}
}

// TestWireRoundTrip verifies item/wire conversion preserves fields.
func TestWireRoundTrip(t *testing.T) {
	item := ClipboardItem{ID: 1700000000000, Value: "clipboard text"}

	wire := item.ToWire()
	if wire.ID != item.ID || wire.ClipboardData != item.Value {
		t.Errorf("ToWire() = %+v, want fields from %+v", wire, item)
	}

	back := FromWire(wire)
	if back != item {
		t.Errorf("FromWire(ToWire()) = %+v, want %+v", back, item)
	}
}

// TestWireItem_JSON verifies the wire JSON uses the clipboard_data key.
func TestWireItem_JSON(t *testing.T) {
	data, err := json.Marshal(WireItem{ID: 7, ClipboardData: "abc"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"id":7,"clipboard_data":"abc"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

// TestDetectKind verifies payload classification.
func TestDetectKind(t *testing.T) {
	pngURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)

	tests := []struct {
		name  string
		value string
		want  ItemKind
	}{
		{"plain text", "hello world", KindText},
		{"empty", "", KindText},
		{"url", "https://example.com", KindText},
		{"png data uri", pngURI, KindImage},
		{"image prefix without comma", "data:image/png;base64", KindText},
		{"image prefix with bad base64", "data:image/png;base64,!!!", KindText},
		{"image prefix with text body", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")), KindText},
		{"non-base64 data uri", "data:image/svg+xml,<svg/>", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.value); got != tt.want {
				t.Errorf("DetectKind(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
