package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProfileIsValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.Phone != "562-228-9429" {
		t.Fatalf("Phone = %q, want 562-228-9429", p.Phone)
	}
	if len(p.Seeds) != 4 {
		t.Fatalf("Seeds = %d, want 4", len(p.Seeds))
	}
	for _, s := range p.Seeds {
		if s.ID == "" || s.Content == "" || s.Confidence <= 0 {
			t.Fatalf("malformed seed: %+v", s)
		}
	}
	if !strings.Contains(p.Template("booking"), p.Phone) {
		t.Fatalf("booking template should contain the phone number")
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "business_name: Test Wash\nphone: 555-000-1111\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if p.BusinessName != "Test Wash" || p.Phone != "555-000-1111" {
		t.Fatalf("overrides not applied: %+v", p)
	}
	// Untouched fields keep their defaults.
	if p.Template("booking") == "" || len(p.Seeds) != 4 {
		t.Fatalf("defaults lost on overlay")
	}
}

func TestLoadFileRejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("phone: \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile() should fail without a phone number")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("LoadFile() should fail for a missing file")
	}
}
