package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFromStaticSource(t *testing.T) {
	r, err := New(StaticSource{
		{Provider: "h100", ModelID: "openhermes-2.5", IsFree: true, IsSelfHosted: true},
		{Provider: "openai", ModelID: "gpt-5.2-pro"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	d, ok := r.Lookup("h100", "openhermes-2.5")
	if !ok || !d.IsSelfHosted {
		t.Errorf("lookup openhermes: ok=%v desc=%+v", ok, d)
	}
	if _, ok := r.Lookup("openai", "no-such-model"); ok {
		t.Error("lookup of unknown model succeeded")
	}
}

func TestReloadReplacesWholesale(t *testing.T) {
	r, err := New(StaticSource{
		{Provider: "deepseek", ModelID: "deepseek-chat"},
		{Provider: "deepseek", ModelID: "deepseek-coder"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Reload(StaticSource{{Provider: "google", ModelID: "gemini-2.0-pro"}}); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len after reload = %d, want 1", r.Len())
	}
	if _, ok := r.Lookup("deepseek", "deepseek-chat"); ok {
		t.Error("old entry survived reload")
	}
	if _, ok := r.Lookup("google", "gemini-2.0-pro"); !ok {
		t.Error("new entry missing after reload")
	}
}

func TestReloadDedupesKeepingFirst(t *testing.T) {
	r, err := New(StaticSource{
		{Provider: "openai", ModelID: "gpt-5.2-pro", PriorityOrder: 1},
		{Provider: "openai", ModelID: "gpt-5.2-pro", PriorityOrder: 2},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after dedupe", r.Len())
	}
	d, _ := r.Lookup("openai", "gpt-5.2-pro")
	if d.PriorityOrder != 1 {
		t.Errorf("PriorityOrder = %d, want first occurrence kept", d.PriorityOrder)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r, err := New(StaticSource{{Provider: "anthropic", ModelID: "claude-sonnet"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := r.Snapshot()
	snap[0].ModelID = "mutated"
	if d, _ := r.Lookup("anthropic", "claude-sonnet"); d.ModelID != "claude-sonnet" {
		t.Error("snapshot mutation leaked into registry")
	}
}

func TestCapabilityForUnknownPair(t *testing.T) {
	r, err := New(StaticSource{
		{Provider: "deepseek", ModelID: "deepseek-coder", Capability: Capability{General: 6, Coding: 9, Reasoning: 7, Vision: 0}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := r.CapabilityFor("deepseek", "deepseek-coder"); got.Coding != 9 {
		t.Errorf("known pair coding = %d, want 9", got.Coding)
	}
	if got := r.CapabilityFor("nobody", "nothing"); got != DefaultCapability {
		t.Errorf("unknown pair = %+v, want DefaultCapability", got)
	}
}

func TestFileSource(t *testing.T) {
	catalog := `models:
  - provider: h100
    model_id: mythomax-l2-13b
    capability:
      general: 6
      coding: 4
      reasoning: 5
      vision: 0
    is_free: true
    is_self_hosted: true
    priority_order: 1
  - provider: anthropic
    model_id: claude-opus
    capability:
      general: 10
      coding: 10
      reasoning: 10
      vision: 9
    input_cost_per_1k: 0.015
    output_cost_per_1k: 0.075
    priority_order: 12
`
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	r, err := New(FileSource{Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	d, ok := r.Lookup("anthropic", "claude-opus")
	if !ok {
		t.Fatal("claude-opus missing")
	}
	if d.Capability.Vision != 9 || d.InputCostPer1K != 0.015 {
		t.Errorf("descriptor mismatch: %+v", d)
	}
	if free, _ := r.Lookup("h100", "mythomax-l2-13b"); !free.IsFree || !free.IsSelfHosted {
		t.Errorf("mythomax flags: %+v", free)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := New(FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml")}); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestBuiltinCatalogIsWellFormed(t *testing.T) {
	r, err := New(BuiltinCatalog())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("builtin catalog is empty")
	}
	for _, d := range r.Snapshot() {
		if d.Provider == "" || d.ModelID == "" {
			t.Errorf("descriptor missing identity: %+v", d)
		}
		if d.IsSelfHosted && !d.IsFree {
			t.Errorf("self-hosted model %s should be free", d.ModelID)
		}
		if d.PriorityOrder <= 0 {
			t.Errorf("model %s has no priority order", d.ModelID)
		}
	}
}
