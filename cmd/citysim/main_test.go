package main

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"citysim.app/input"
	"citysim.app/life"
	"citysim.app/menu"
	"citysim.app/settings"
	"citysim.app/xorshift"
)

func newTestApp(t *testing.T, initial menu.Stage, demo string) (*app, config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config{
		Seed:     111,
		Settings: filepath.Join(dir, "settings"),
		Output:   filepath.Join(dir, "frames"),
	}
	// Run unpaced.
	s := settings.Defaults()
	s.Framerate = settings.Off
	if err := settings.SaveAll(cfg.Settings, s); err != nil {
		t.Fatal(err)
	}
	a, err := newApp(cfg, initial, demo, image.Rect(0, 0, 320, 180), false)
	if err != nil {
		t.Fatal(err)
	}
	return a, cfg
}

func press(ch chan<- input.Event, keys ...input.Key) {
	for _, k := range keys {
		ch <- input.Event{Key: k, Pressed: true}
		ch <- input.Event{Key: k, Pressed: false}
	}
}

func TestRunFrames(t *testing.T) {
	for _, demo := range []string{"playground", "life"} {
		t.Run(demo, func(t *testing.T) {
			a, cfg := newTestApp(t, menu.Game, demo)
			if err := a.run(context.Background(), nil, 3); err != nil {
				t.Fatal(err)
			}
			entries, err := os.ReadDir(cfg.Output)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 3 {
				t.Errorf("%d frames written, want 3", len(entries))
			}
		})
	}
}

func TestSoundSettings(t *testing.T) {
	a, cfg := newTestApp(t, menu.Game, "playground")
	events := make(chan input.Event, 64)
	// Open the settings overlay, select Sound, raise the volume and go
	// back, which saves the settings.
	press(events, input.Escape)
	if err := a.run(context.Background(), events, 1); err != nil {
		t.Fatal(err)
	}
	press(events, input.Down)
	a.run(context.Background(), events, 1)
	press(events, input.Down)
	a.run(context.Background(), events, 1)
	press(events, input.Enter)
	a.run(context.Background(), events, 1)
	if got := a.machine.SettingsState(); got != menu.SettingsSound {
		t.Fatalf("settings screen %v, want sound", got)
	}
	press(events, input.Right)
	a.run(context.Background(), events, 1)
	press(events, input.Enter)
	a.run(context.Background(), events, 1)
	if got := a.machine.SettingsState(); got != menu.SettingsMain {
		t.Fatalf("settings screen %v after back", got)
	}
	var v settings.Volume
	if err := settings.Load(filepath.Join(cfg.Settings, settings.VolumeFile), &v); err != nil {
		t.Fatal(err)
	}
	if v != 80 {
		t.Errorf("saved volume %d, want 80", v)
	}
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t, menu.Menu, "playground")
	events := make(chan input.Event, 64)
	// Quit is the last main menu button; the selection wraps around.
	press(events, input.Up)
	if err := a.run(context.Background(), events, 1); err != nil {
		t.Fatal(err)
	}
	press(events, input.Enter)
	if err := a.run(context.Background(), events, 0); err != nil {
		t.Fatal(err)
	}
	if !a.machine.Done() {
		t.Error("app didn't quit")
	}
}

func TestResume(t *testing.T) {
	a, cfg := newTestApp(t, menu.Game, "playground")
	if err := a.close(); err != nil {
		t.Fatal(err)
	}
	snap, err := a.rng.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	b, err := newApp(cfg, menu.Game, "playground", image.Rect(0, 0, 32, 32), true)
	if err != nil {
		t.Fatal(err)
	}
	// The resumed generator continues where the first app stopped, then
	// jitters the three playground shapes and seeds the grid.
	var ref xorshift.Source
	if err := ref.UnmarshalBinary(snap); err != nil {
		t.Fatal(err)
	}
	for range 3 + life.Width*life.Height {
		ref.Uint64()
	}
	if got, want := b.rng.Uint64(), ref.Uint64(); got != want {
		t.Errorf("resumed generator drew %#x, want %#x", got, want)
	}
}
