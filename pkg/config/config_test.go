package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	def := Default()
	if cfg.GridSize != def.GridSize || len(cfg.Snakes) != len(def.Snakes) {
		t.Errorf("missing file did not fall back to defaults: %+v", cfg)
	}
}

func TestLoadCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)
	if cfg.GridSize != Default().GridSize {
		t.Errorf("corrupt file did not fall back to defaults: %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"table_size": 12, "cell_size": 16}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)
	if cfg.GridSize != 12 {
		t.Errorf("GridSize = %d, want 12", cfg.GridSize)
	}
	if cfg.CellSize != 16 {
		t.Errorf("CellSize = %d, want 16", cfg.CellSize)
	}
	// Unspecified fields keep their defaults.
	if len(cfg.Snakes) != 2 {
		t.Errorf("snakes not defaulted: %d", len(cfg.Snakes))
	}
	if cfg.FruitColor != Default().FruitColor {
		t.Errorf("FruitColor = %v", cfg.FruitColor)
	}
}
