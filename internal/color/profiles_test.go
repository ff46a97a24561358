package color

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseProfileInfoRejects(t *testing.T) {
	short := make([]byte, 100)
	unsigned := make([]byte, 200)
	if _, err := ParseProfileInfo(short); err == nil {
		t.Error("expected error for a truncated header")
	}
	if _, err := ParseProfileInfo(unsigned); err == nil {
		t.Error("expected error for a missing acsp signature")
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	srgb := loadSRGB(t)

	good := filepath.Join(dir, "srgb.icc")
	if err := os.WriteFile(good, srgb, 0644); err != nil {
		t.Fatal(err)
	}
	data, pi, err := LoadProfile(good)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if len(data) != len(srgb) || !pi.IsRGB() {
		t.Errorf("LoadProfile returned %d bytes, color space %q", len(data), pi.ColorSpace)
	}

	gray := append([]byte(nil), srgb...)
	copy(gray[16:20], "GRAY")
	grayPath := filepath.Join(dir, "gray.icc")
	if err := os.WriteFile(grayPath, gray, 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadProfile(grayPath); !errors.Is(err, ErrNotRGB) {
		t.Errorf("gray profile err = %v, want ErrNotRGB", err)
	}

	bad := filepath.Join(dir, "bad.icc")
	if err := os.WriteFile(bad, make([]byte, 200), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadProfile(bad); err == nil {
		t.Error("expected signature error")
	}
	if _, _, err := LoadProfile(filepath.Join(dir, "missing.icc")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ColorSpaceName("RGB "), "RGB"},
		{ColorSpaceName("GRAY"), "Grayscale"},
		{ColorSpaceName("YCbr"), "YCbr"},
		{ProfileClassName("mntr"), "Display"},
		{ProfileClassName("xxxx"), "xxxx"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
