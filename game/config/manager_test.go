package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

func createTestConfigDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeProfile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", filename, err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(os.TempDir(), "does-not-exist-pong"))
		if err == nil {
			t.Error("Expected error for missing config directory")
		}
	})

	t.Run("no directory serves the built-in arena", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault() != engine.DefaultArena() {
			t.Errorf("Expected built-in default, got %+v", m.GetDefault())
		}

		arenas, err := m.ListArenas()
		if err != nil || len(arenas) != 1 || arenas[0].ArenaID != "classic" {
			t.Errorf("Expected only the classic arena, got %+v (%v)", arenas, err)
		}

		if _, err := m.LoadArena("classic"); err != nil {
			t.Errorf("Expected classic to load, got %v", err)
		}
		if _, err := m.LoadArena("arcade"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		m, err := NewManager(createTestConfigDir(t))
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Name != "classic" {
			t.Errorf("Expected classic default, got %q", m.GetDefault().Name)
		}
	})
}

func TestManager_LoadArena(t *testing.T) {
	dir := createTestConfigDir(t)
	writeProfile(t, dir, "wide.yaml", "name: wide\nwidth: 1200\ntick_rate: 30\n")
	writeProfile(t, dir, "slow.json", `{"name": "slow", "ball_speed_x": 2, "ball_speed_y": 2}`)
	writeProfile(t, dir, "unnamed.yml", "height: 400\n")
	writeProfile(t, dir, "broken.yaml", "width: [oops\n")
	writeProfile(t, dir, "tiny.json", `{"name": "tiny", "width": 10}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("yaml overrides defaults", func(t *testing.T) {
		arena, err := m.LoadArena("wide")
		if err != nil {
			t.Fatalf("Failed to load wide: %v", err)
		}
		if arena.Width != 1200 || arena.TickRate != 30 {
			t.Errorf("Expected overrides applied, got %+v", arena)
		}
		if arena.Height != engine.DefaultHeight || arena.PaddleHeight != engine.DefaultPaddleHeight {
			t.Errorf("Expected omitted fields to keep defaults, got %+v", arena)
		}
	})

	t.Run("json profile", func(t *testing.T) {
		arena, err := m.LoadArena("slow")
		if err != nil {
			t.Fatalf("Failed to load slow: %v", err)
		}
		if arena.BallSpeedX != 2 || arena.BallSpeedY != 2 || arena.Width != engine.DefaultWidth {
			t.Errorf("Unexpected arena %+v", arena)
		}
	})

	t.Run("name defaults to file name", func(t *testing.T) {
		arena, err := m.LoadArena("unnamed")
		if err != nil {
			t.Fatalf("Failed to load unnamed: %v", err)
		}
		if arena.Name != "unnamed" || arena.Height != 400 {
			t.Errorf("Unexpected arena %+v", arena)
		}
	})

	t.Run("load by file name", func(t *testing.T) {
		arena, err := m.LoadArena("wide.yaml")
		if err != nil || arena.Name != "wide" {
			t.Errorf("Expected wide, got %+v (%v)", arena, err)
		}
	})

	t.Run("malformed profile", func(t *testing.T) {
		_, err := m.LoadArena("broken")
		if err == nil {
			t.Fatal("Expected parse error")
		}
		if errors.Is(err, ErrInvalidConfig) {
			t.Error("Parse errors should not be reported as invalid config")
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		if _, err := m.LoadArena("tiny"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		if _, err := m.LoadArena("nope"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("paths are not followed", func(t *testing.T) {
		if _, err := m.LoadArena("../wide"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("cached after first load", func(t *testing.T) {
		if _, err := m.LoadArena("slow"); err != nil {
			t.Fatal(err)
		}
		os.Remove(filepath.Join(dir, "slow.json"))
		if _, err := m.LoadArena("slow"); err != nil {
			t.Errorf("Expected cached profile, got %v", err)
		}
	})
}

func TestManager_ListArenas(t *testing.T) {
	dir := createTestConfigDir(t)
	writeProfile(t, dir, "zeta.yaml", "name: Zeta\n")
	writeProfile(t, dir, "alpha.json", `{"name": "Alpha", "description": "first"}`)
	writeProfile(t, dir, "bad.json", `{"width": -1}`)
	writeProfile(t, dir, "notes.txt", "not a profile")
	os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	arenas, err := m.ListArenas()
	if err != nil {
		t.Fatalf("Failed to list arenas: %v", err)
	}
	if len(arenas) != 2 {
		t.Fatalf("Expected 2 valid profiles, got %d", len(arenas))
	}
	if arenas[0].ArenaID != "alpha" || arenas[1].ArenaID != "zeta" {
		t.Errorf("Expected sorted ids [alpha zeta], got [%s %s]", arenas[0].ArenaID, arenas[1].ArenaID)
	}
	if arenas[0].Filename != "alpha.json" || arenas[0].Description != "first" || arenas[0].Width != 800 {
		t.Errorf("Unexpected info %+v", arenas[0])
	}
}

func TestManager_Default(t *testing.T) {
	t.Run("classic profile preferred", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeProfile(t, dir, "aaa.yaml", "name: aaa\n")
		writeProfile(t, dir, "classic.yaml", "name: classic\ntick_rate: 50\n")

		m, _ := NewManager(dir)
		if m.GetDefault().TickRate != 50 {
			t.Errorf("Expected the classic profile, got %+v", m.GetDefault())
		}
	})

	t.Run("first valid profile otherwise", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeProfile(t, dir, "bbb.yaml", "name: bbb\n")
		writeProfile(t, dir, "aaa.yaml", "name: aaa\nwidth: -5\n")

		m, _ := NewManager(dir)
		if m.GetDefault().Name != "bbb" {
			t.Errorf("Expected bbb, got %q", m.GetDefault().Name)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeProfile(t, dir, "big.yaml", "name: big\nwidth: 2000\n")

		m, _ := NewManager(dir)
		if err := m.SetDefault("big"); err != nil {
			t.Fatalf("Failed to set default: %v", err)
		}
		if m.GetDefault().Width != 2000 {
			t.Errorf("Expected big arena, got %+v", m.GetDefault())
		}
		if err := m.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("refresh picks up edits", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeProfile(t, dir, "classic.yaml", "name: classic\ntick_rate: 50\n")

		m, _ := NewManager(dir)
		writeProfile(t, dir, "classic.yaml", "name: classic\ntick_rate: 90\n")
		if err := m.RefreshCache(); err != nil {
			t.Fatalf("Failed to refresh: %v", err)
		}
		if m.GetDefault().TickRate != 90 {
			t.Errorf("Expected refreshed tick rate 90, got %d", m.GetDefault().TickRate)
		}
	})

	t.Run("refresh keeps the selected default", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeProfile(t, dir, "big.yaml", "name: big\nwidth: 2000\n")

		m, _ := NewManager(dir)
		if err := m.SetDefault("big"); err != nil {
			t.Fatalf("Failed to set default: %v", err)
		}
		writeProfile(t, dir, "big.yaml", "name: big\nwidth: 2400\n")
		if err := m.RefreshCache(); err != nil {
			t.Fatalf("Failed to refresh: %v", err)
		}
		if got := m.GetDefault(); got.Name != "big" || got.Width != 2400 {
			t.Errorf("Expected refreshed big arena, got %+v", got)
		}

		if err := os.Remove(filepath.Join(dir, "big.yaml")); err != nil {
			t.Fatal(err)
		}
		if err := m.RefreshCache(); err != nil {
			t.Fatalf("Failed to refresh: %v", err)
		}
		if got := m.GetDefault().Name; got == "big" {
			t.Error("Expected a fallback default once the profile is gone")
		}
	})
}

func TestManager_ConcurrentLoads(t *testing.T) {
	dir := createTestConfigDir(t)
	writeProfile(t, dir, "shared.yaml", "name: shared\n")
	m, _ := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadArena("shared"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
			m.GetDefault()
		}()
	}
	wg.Wait()
}

func TestShippedProfiles(t *testing.T) {
	m, err := NewManager(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("Failed to open configs: %v", err)
	}

	arenas, err := m.ListArenas()
	if err != nil {
		t.Fatalf("Failed to list arenas: %v", err)
	}
	if len(arenas) != 3 {
		t.Errorf("Expected 3 shipped profiles, got %d", len(arenas))
	}
	classic := m.GetDefault()
	classic.Description = engine.DefaultArena().Description
	if classic != engine.DefaultArena() {
		t.Errorf("Expected classic profile to match the built-in arena, got %+v", m.GetDefault())
	}
}
