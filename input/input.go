// package input tracks keyboard state between frames and decodes key
// presses from a terminal.
package input

import (
	"io"
	"log"
)

type Event struct {
	Key     Key
	Pressed bool
	// Rune is only valid if Key is Rune.
	Rune rune
}

type Key int

const (
	Escape Key = iota
	Space
	Enter
	W
	A
	S
	D
	Up
	Down
	Left
	Right
	// Rune is any other printable key.
	Rune
	maxKey
)

func (k Key) String() string {
	switch k {
	case Escape:
		return "escape"
	case Space:
		return "space"
	case Enter:
		return "enter"
	case W:
		return "w"
	case A:
		return "a"
	case S:
		return "s"
	case D:
		return "d"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Rune:
		return "rune"
	default:
		panic("invalid key")
	}
}

// State is the keyboard state as seen by one frame.
type State struct {
	pressed     [maxKey]bool
	justPressed [maxKey]bool
	runes       []rune
}

func (s *State) Handle(e Event) {
	if e.Key < 0 || e.Key >= maxKey {
		return
	}
	if e.Pressed {
		if !s.pressed[e.Key] {
			s.justPressed[e.Key] = true
		}
		if e.Key == Rune {
			s.runes = append(s.runes, e.Rune)
		}
	}
	s.pressed[e.Key] = e.Pressed
}

func (s *State) Pressed(k Key) bool {
	return s.pressed[k]
}

// JustPressed reports whether k went down during the current frame.
func (s *State) JustPressed(k Key) bool {
	return s.justPressed[k]
}

// Runes returns the runes typed during the current frame.
func (s *State) Runes() []rune {
	return s.runes
}

// Frame ends the current frame.
func (s *State) Frame() {
	s.justPressed = [maxKey]bool{}
	s.runes = s.runes[:0]
}

// ReadTerminal decodes key strokes from r and sends them to ch. A
// terminal reports no key releases, so every key is sent as a press
// followed by a release. ReadTerminal returns when r fails.
func ReadTerminal(r io.Reader, ch chan<- Event) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			e, ok := decode(c)
			if !ok {
				continue
			}
			e.Pressed = true
			ch <- e
			e.Pressed = false
			ch <- e
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("input: terminal read failed: %v", err)
			}
			return
		}
	}
}

func decode(c byte) (Event, bool) {
	switch c {
	case 0x1b:
		return Event{Key: Escape}, true
	case ' ':
		return Event{Key: Space}, true
	case '\r', '\n':
		return Event{Key: Enter}, true
	case 'w', 'W':
		return Event{Key: W}, true
	case 'a', 'A':
		return Event{Key: A}, true
	case 's', 'S':
		return Event{Key: S}, true
	case 'd', 'D':
		return Event{Key: D}, true
	case 'k':
		return Event{Key: Up}, true
	case 'j':
		return Event{Key: Down}, true
	case 'h':
		return Event{Key: Left}, true
	case 'l':
		return Event{Key: Right}, true
	}
	if c >= 0x20 && c < 0x7f {
		return Event{Key: Rune, Rune: rune(c)}, true
	}
	return Event{}, false
}
