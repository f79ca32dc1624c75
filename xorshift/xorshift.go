// Package xorshift implements the xorshift64* variant of the [xorshift*]
// pseudo-random number generator. A Source is fully determined by its
// seed, and its output is identical on every platform.
//
// A Source satisfies both [math/rand.Source64] and [math/rand/v2.Source].
//
// [xorshift*]: https://en.wikipedia.org/wiki/Xorshift#xorshift*
package xorshift

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sync"
)

// Source is a xorshift64* generator. It is not safe for concurrent
// use; see [Locked].
type Source struct {
	// state is never zero.
	state uint64
}

var ErrZeroState = errors.New("xorshift: zero state")

const (
	multiplier = 0x2545F4914F6CDD1D
	// one is the IEEE 754 bit pattern of float32(1.0).
	one = 0x3F800000
)

var snapshotMagic = []byte("xs64:")

// New returns a Source seeded with seed. A zero seed is replaced by 1,
// because zero is a fixed point of the transform.
func New(seed uint64) *Source {
	return &Source{state: max(seed, 1)}
}

// Seed resets the generator as if created by New(uint64(seed)).
func (s *Source) Seed(seed int64) {
	s.state = max(uint64(seed), 1)
}

// Uint64 advances the state and returns the next value.
func (s *Source) Uint64() uint64 {
	x := s.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	s.state = x
	return x * multiplier
}

// Uint32 returns the low 32 bits of the next 64-bit value.
func (s *Source) Uint32() uint32 {
	return uint32(s.Uint64())
}

// Float32 returns a value in [0, 1), taken from 2^23 evenly spaced
// values. The low 23 bits of the next Uint32 become the mantissa of a
// float in [1, 2).
func (s *Source) Float32() float32 {
	return unitFloat(s.Uint32())
}

func unitFloat(u uint32) float32 {
	return math.Float32frombits(one|u&0x7FFFFF) - 1
}

func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *Source) MarshalBinary() ([]byte, error) {
	b := append([]byte(nil), snapshotMagic...)
	return binary.BigEndian.AppendUint64(b, s.state), nil
}

func (s *Source) UnmarshalBinary(data []byte) error {
	if len(data) != len(snapshotMagic)+8 || !bytes.HasPrefix(data, snapshotMagic) {
		return errors.New("xorshift: invalid snapshot")
	}
	state := binary.BigEndian.Uint64(data[len(snapshotMagic):])
	if state == 0 {
		return ErrZeroState
	}
	s.state = state
	return nil
}

// Locked is a Source guarded by a mutex, for generators shared between
// goroutines.
type Locked struct {
	mu  sync.Mutex
	src Source
}

func NewLocked(seed uint64) *Locked {
	return &Locked{src: Source{state: max(seed, 1)}}
}

func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

func (l *Locked) Uint32() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint32()
}

func (l *Locked) Float32() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float32()
}

func (l *Locked) Int63() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Int63()
}

func (l *Locked) Seed(seed int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.Seed(seed)
}
