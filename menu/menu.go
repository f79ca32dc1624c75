// Package menu implements the screen state machine of the application:
// the splash screen, the main menu, the settings screens and the game.
package menu

import (
	"fmt"
	"time"
)

type Stage int

const (
	Splash Stage = iota
	Menu
	Game
)

func (s Stage) String() string {
	switch s {
	case Splash:
		return "splash"
	case Menu:
		return "menu"
	case Game:
		return "game"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

type MenuState int

const (
	MenuDisabled MenuState = iota
	MenuMain
	MenuSettings
)

type SettingsState int

const (
	SettingsDisabled SettingsState = iota
	SettingsMain
	SettingsDisplay
	SettingsSound
)

func (s SettingsState) String() string {
	switch s {
	case SettingsDisabled:
		return "disabled"
	case SettingsMain:
		return "settings"
	case SettingsDisplay:
		return "display settings"
	case SettingsSound:
		return "sound settings"
	}
	return fmt.Sprintf("SettingsState(%d)", int(s))
}

type PlayState int

const (
	PlayDisabled PlayState = iota
	PlayRunning
	PlaySettings
)

type Action int

const (
	Play Action = iota
	ResumePlay
	Settings
	OpenDisplay
	OpenSound
	BackToMainMenu
	BackToSettings
	Quit
)

func (a Action) String() string {
	switch a {
	case Play:
		return "New Game"
	case ResumePlay:
		return "Resume"
	case Settings:
		return "Settings"
	case OpenDisplay:
		return "Display"
	case OpenSound:
		return "Sound"
	case BackToMainMenu:
		return "Main Menu"
	case BackToSettings:
		return "Back"
	case Quit:
		return "Quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// SplashDuration is how long the splash screen is shown.
const SplashDuration = time.Second

// Machine tracks the current screen. The zero value is not usable; use
// New.
type Machine struct {
	stage    Stage
	menu     MenuState
	settings SettingsState
	play     PlayState
	splash   time.Duration
	done     bool

	// OnSettingsExit, if set, is called when a settings screen other
	// than the top level one is left.
	OnSettingsExit func(SettingsState)
}

func New(initial Stage) *Machine {
	m := new(Machine)
	m.enter(initial)
	return m
}

func (m *Machine) Stage() Stage                 { return m.stage }
func (m *Machine) MenuState() MenuState         { return m.menu }
func (m *Machine) SettingsState() SettingsState { return m.settings }
func (m *Machine) PlayState() PlayState         { return m.play }

// Done reports whether the Quit action has been applied.
func (m *Machine) Done() bool { return m.done }

func (m *Machine) enter(s Stage) {
	m.stage = s
	switch s {
	case Splash:
		m.splash = SplashDuration
	case Menu:
		m.menu = MenuMain
	case Game:
		m.play = PlayRunning
	}
}

func (m *Machine) setSettings(s SettingsState) {
	prev := m.settings
	m.settings = s
	if prev != s && (prev == SettingsDisplay || prev == SettingsSound) && m.OnSettingsExit != nil {
		m.OnSettingsExit(prev)
	}
}

// Tick advances the splash screen timer.
func (m *Machine) Tick(dt time.Duration) {
	if m.stage != Splash {
		return
	}
	m.splash -= dt
	if m.splash <= 0 {
		m.enter(Menu)
	}
}

// Apply performs the transition for a pressed menu button.
func (m *Machine) Apply(a Action) {
	switch a {
	case Quit:
		m.done = true
	case Play:
		m.menu = MenuDisabled
		m.setSettings(SettingsDisabled)
		m.enter(Game)
	case ResumePlay:
		m.setSettings(SettingsDisabled)
		m.play = PlayRunning
	case Settings:
		m.menu = MenuSettings
		m.setSettings(SettingsMain)
	case OpenDisplay:
		m.setSettings(SettingsDisplay)
	case OpenSound:
		m.setSettings(SettingsSound)
	case BackToMainMenu:
		m.play = PlayDisabled
		m.setSettings(SettingsDisabled)
		m.enter(Menu)
	case BackToSettings:
		m.setSettings(SettingsMain)
	}
}

// Escape toggles the in-game settings overlay.
func (m *Machine) Escape() {
	if m.stage != Game {
		return
	}
	switch {
	case m.play == PlayRunning && m.settings == SettingsDisabled:
		m.play = PlaySettings
		m.setSettings(SettingsMain)
	case m.play == PlaySettings && m.settings == SettingsMain:
		m.setSettings(SettingsDisabled)
		m.play = PlayRunning
	}
}

// Buttons lists the actions offered by the current screen, in display
// order.
func (m *Machine) Buttons() []Action {
	switch m.settings {
	case SettingsMain:
		var btns []Action
		if m.stage == Game {
			btns = append(btns, ResumePlay)
		}
		return append(btns, OpenDisplay, OpenSound, BackToMainMenu)
	case SettingsDisplay, SettingsSound:
		return []Action{BackToSettings}
	}
	if m.stage == Menu && m.menu == MenuMain {
		return []Action{Play, Settings, Quit}
	}
	return nil
}
