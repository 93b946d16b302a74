package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, found, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("missing file reported as found")
	}
	if s.Sim != "terrain" || s.Server.Addr != ":8080" || s.Server.UpdateInterval() != 100*time.Millisecond {
		t.Fatalf("defaults = %+v", s)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"sim":"terrain-simplex","params":{"w":"64","basis":"simplex"},"server":{"updateIntervalMs":250}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, found, err := Load(path)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if s.Sim != "terrain-simplex" || s.Params["w"] != "64" {
		t.Fatalf("settings = %+v", s)
	}
	if s.Server.Addr != ":8080" {
		t.Fatalf("unset addr should keep default, got %q", s.Server.Addr)
	}
	if s.Server.UpdateInterval() != 250*time.Millisecond {
		t.Fatalf("interval = %v", s.Server.UpdateInterval())
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"sim":`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, found, err := Load(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !found || s.Sim != "terrain" {
		t.Fatalf("found=%v settings=%+v", found, s)
	}
}

func TestMergePrefersOverrides(t *testing.T) {
	s := Default()
	s.Params["w"] = "32"
	s.Params["h"] = "16"
	merged := s.Merge(map[string]string{"w": "48"})
	if merged["w"] != "48" || merged["h"] != "16" {
		t.Fatalf("merged = %v", merged)
	}
	if s.Params["w"] != "32" {
		t.Fatalf("Merge mutated the settings params")
	}
	var empty Settings
	if got := empty.Merge(nil); got == nil || len(got) != 0 {
		t.Fatalf("empty merge = %v", got)
	}
}
