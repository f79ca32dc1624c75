// Command citysim runs the playground application: a menu, the
// settings screens and the 2D playground or Game of Life demo. Frames
// are rendered in software and optionally written as PNG files.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"citysim.app/input"
	"citysim.app/life"
	"citysim.app/menu"
	"citysim.app/scene"
	"citysim.app/settings"
	"citysim.app/xorshift"
)

// config holds the defaults that may be overridden from the
// environment.
type config struct {
	Seed     uint64 `env:"CITYSIM_SEED" envDefault:"111"`
	Settings string `env:"CITYSIM_SETTINGS" envDefault:"assets/settings"`
	Output   string `env:"CITYSIM_OUTPUT"`
}

// snapshotFile stores the generator position, next to the settings.
const snapshotFile = "rng.cbor"

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", err)
		os.Exit(2)
	}
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flag.StringVar(&cfg.Settings, "settings", cfg.Settings, "settings directory")
	flag.StringVar(&cfg.Output, "o", cfg.Output, "write frames as PNG files to directory")
	var (
		frames      = flag.Int("frames", 60, "number of frames to run (0 runs until quit)")
		size        = flag.String("size", "1280x720", "frame size")
		demo        = flag.String("demo", "playground", "game demo, playground or life")
		stage       = flag.String("stage", "game", "initial screen: splash, menu or game")
		interactive = flag.Bool("i", false, "read keys from standard input")
		resume      = flag.Bool("resume", false, "resume the random sequence of the previous run")
	)
	flag.Parse()

	var w, h int
	if _, err := fmt.Sscanf(*size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		fmt.Fprintf(os.Stderr, "citysim: invalid -size %q\n", *size)
		os.Exit(2)
	}
	initial, err := parseStage(*stage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", err)
		os.Exit(2)
	}
	if *demo != "playground" && *demo != "life" {
		fmt.Fprintf(os.Stderr, "citysim: unknown -demo %q\n", *demo)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := newApp(cfg, initial, *demo, image.Rect(0, 0, w, h), *resume)
	if err != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", err)
		os.Exit(1)
	}
	events := make(chan input.Event, 64)
	if *interactive {
		go input.ReadTerminal(os.Stdin, events)
	}
	runErr := a.run(ctx, events, *frames)
	if err := a.close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "citysim: %v\n", runErr)
		os.Exit(1)
	}
}

func parseStage(s string) (menu.Stage, error) {
	switch s {
	case "splash":
		return menu.Splash, nil
	case "menu":
		return menu.Menu, nil
	case "game":
		return menu.Game, nil
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

type app struct {
	cfg        config
	demo       string
	settings   settings.Settings
	rng        *xorshift.Source
	machine    *menu.Machine
	playground *scene.Playground
	grid       *life.Grid
	keys       input.State
	frame      *image.RGBA
	selected   int
	frameNo    int
}

func newApp(cfg config, initial menu.Stage, demo string, bounds image.Rectangle, resume bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		demo:     demo,
		settings: settings.LoadAll(cfg.Settings),
		rng:      xorshift.New(cfg.Seed),
		frame:    image.NewRGBA(bounds),
	}
	if resume {
		if err := a.loadSnapshot(); err != nil {
			return nil, err
		}
	}
	a.machine = menu.New(initial)
	a.machine.OnSettingsExit = func(prev menu.SettingsState) {
		if err := settings.SaveAll(cfg.Settings, a.settings); err != nil {
			log.Printf("settings: save on exit from %v: %v", prev, err)
			return
		}
		log.Printf("settings: saved on exit from %v", prev)
	}
	a.playground = scene.New(a.rng, a.settings)
	a.grid = life.New(life.Width, life.Height)
	a.grid.Randomize(a.rng, life.Threshold)
	if cfg.Output != "" {
		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) loadSnapshot() error {
	path := filepath.Join(a.cfg.Settings, snapshotFile)
	var snap []byte
	switch err := settings.Load(path, &snap); {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("rng: no snapshot at %s, starting from seed %d", path, a.cfg.Seed)
		return nil
	case err != nil:
		return fmt.Errorf("rng: %w", err)
	}
	if err := a.rng.UnmarshalBinary(snap); err != nil {
		return fmt.Errorf("rng: %s: %w", path, err)
	}
	log.Printf("rng: resumed from %s", path)
	return nil
}

func (a *app) close() error {
	if err := settings.SaveAll(a.cfg.Settings, a.settings); err != nil {
		return err
	}
	snap, err := a.rng.MarshalBinary()
	if err != nil {
		return err
	}
	return settings.Save(filepath.Join(a.cfg.Settings, snapshotFile), snap)
}

// run processes frames until the frame limit is reached, the Quit
// action is applied or ctx is canceled.
func (a *app) run(ctx context.Context, events <-chan input.Event, frames int) error {
	next := time.Now()
	for i := 0; frames <= 0 || i < frames; i++ {
		if a.machine.Done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
	drain:
		for {
			select {
			case e := <-events:
				a.keys.Handle(e)
			default:
				break drain
			}
		}
		dt := a.frameInterval()
		a.update(dt)
		a.draw()
		if err := a.writeFrame(); err != nil {
			return err
		}
		a.keys.Frame()
		if a.settings.Framerate == settings.Off {
			continue
		}
		next = next.Add(dt)
		if d := time.Until(next); d > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(d):
			}
		} else {
			next = time.Now()
		}
	}
	return nil
}

// frameInterval is the simulated time between frames. Auto and Off
// pacing simulate a 60 Hz display.
func (a *app) frameInterval() time.Duration {
	if l := a.settings.Limiter(); l.Mode == settings.Manual {
		return l.Interval
	}
	return time.Second / 60
}

func (a *app) update(dt time.Duration) {
	m := a.machine
	m.Tick(dt)
	if a.keys.JustPressed(input.Escape) {
		m.Escape()
		a.selected = 0
	}
	if btns := m.Buttons(); len(btns) > 0 {
		if m.SettingsState() == menu.SettingsDisplay {
			a.adjustFramerate()
		}
		a.navigate(btns)
		return
	}
	if m.Stage() != menu.Game || m.PlayState() != menu.PlayRunning {
		return
	}
	switch a.demo {
	case "playground":
		for _, r := range a.keys.Runes() {
			switch r {
			case 'c':
				a.playground.Spawn(scene.Circle)
			case 'r':
				a.playground.Spawn(scene.Rect)
			}
		}
		a.playground.Update(dt, &a.keys)
	case "life":
		a.grid.Step()
	}
}

// navigate moves the button selection and adjusts the setting shown
// by the current screen.
func (a *app) navigate(btns []menu.Action) {
	switch {
	case a.keys.JustPressed(input.Up):
		a.selected = (a.selected + len(btns) - 1) % len(btns)
	case a.keys.JustPressed(input.Down):
		a.selected = (a.selected + 1) % len(btns)
	case a.keys.JustPressed(input.Left):
		a.adjust(-1)
	case a.keys.JustPressed(input.Right):
		a.adjust(1)
	case a.keys.JustPressed(input.Enter):
		a.machine.Apply(btns[min(a.selected, len(btns)-1)])
		a.selected = 0
	}
}

func (a *app) adjust(dir int) {
	s := &a.settings
	switch a.machine.SettingsState() {
	case menu.SettingsSound:
		v := int(s.Volume) + 10*dir
		s.Volume = settings.Volume(max(0, min(v, int(settings.MaxVolume))))
	case menu.SettingsDisplay:
		s.Quality = settings.DisplayQuality((int(s.Quality) + 3 + dir) % 3)
	default:
		return
	}
	a.playground.SetSettings(*s)
}

// adjustFramerate handles the frame pacing keys of the display screen:
// 'm' cycles the mode and '+' and '-' move the manual cap.
func (a *app) adjustFramerate() {
	s := &a.settings
	for _, r := range a.keys.Runes() {
		switch r {
		case 'm':
			s.Framerate = (s.Framerate + 1) % 3
		case '+':
			s.FpsCap = settings.FpsCapFromFraction(s.FpsCap.Fraction() + 0.05)
		case '-':
			s.FpsCap = settings.FpsCapFromFraction(s.FpsCap.Fraction() - 0.05)
		}
	}
}

func (a *app) draw() {
	m := a.machine
	switch {
	case m.Stage() == menu.Game && a.demo == "life":
		a.grid.Draw(a.frame, max(1, a.frame.Bounds().Dx()/life.Width))
	case m.Stage() == menu.Game:
		a.playground.Draw(a.frame)
	default:
		draw.Draw(a.frame, a.frame.Bounds(), image.Black, image.Point{}, draw.Src)
	}
	if m.Stage() == menu.Splash {
		scene.DrawMenu(a.frame, "City Simulation", nil, -1)
		return
	}
	btns := m.Buttons()
	if len(btns) == 0 {
		return
	}
	labels := make([]string, len(btns))
	for i, b := range btns {
		labels[i] = b.String()
	}
	scene.DrawMenu(a.frame, a.title(), labels, a.selected)
	switch m.SettingsState() {
	case menu.SettingsSound:
		scene.DrawSlider(a.frame, a.settings.Volume)
	case menu.SettingsDisplay:
		if a.settings.Framerate == settings.Manual {
			scene.DrawSlider(a.frame, a.settings.FpsCap)
		}
	}
}

func (a *app) title() string {
	switch a.machine.SettingsState() {
	case menu.SettingsMain:
		return "Settings"
	case menu.SettingsDisplay:
		t := "Quality: " + a.settings.Quality.String() + "  Frame rate: " + a.settings.Framerate.String()
		if a.settings.Framerate == settings.Manual {
			t += " " + a.settings.FpsCap.String()
		}
		return t
	case menu.SettingsSound:
		return "Volume: " + a.settings.Volume.String()
	}
	return "City Simulation"
}

func (a *app) writeFrame() error {
	if a.cfg.Output == "" {
		return nil
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, a.frame); err != nil {
		return fmt.Errorf("frame %d: %w", a.frameNo, err)
	}
	name := filepath.Join(a.cfg.Output, fmt.Sprintf("frame_%04d.png", a.frameNo))
	a.frameNo++
	return os.WriteFile(name, buf.Bytes(), 0o644)
}
