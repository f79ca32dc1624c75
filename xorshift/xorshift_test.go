package xorshift

import (
	"errors"
	"flag"
	mathrand "math/rand"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"

	"citysim.app/internal/golden"
)

var update = flag.Bool("update", false, "update golden files")

var (
	_ mathrand.Source64 = (*Source)(nil)
	_ rand.Source       = (*Source)(nil)
	_ mathrand.Source64 = (*Locked)(nil)
)

func TestGenerator(t *testing.T) {
	want := []uint64{
		0xe693399723543124,
		0xe78a8fddc4d9aeea,
		0x2d34d4db78abd1a2,
		0xe962520d578b79f6,
		0x11e694c975268a95,
		0x745f14046e7a83d9,
		0xf1b48d76bfe783e1,
		0x7a6f82e73c32be8b,
		0xb5c6e3e2e3a2af03,
		0x4e09482696621795,
	}
	for run := 0; run < 2; run++ {
		s := New(111)
		for i, w := range want {
			if got := s.Uint64(); got != w {
				t.Errorf("run %d: draw %d: got %#016x, want %#016x", run, i, got, w)
			}
		}
	}
}

func TestGolden(t *testing.T) {
	s := New(111)
	got := make([]uint64, 64)
	for i := range got {
		got[i] = s.Uint64()
	}
	path := filepath.Join("testdata", "seed111.golden")
	if err := golden.CompareUint64s(path, *update, got); err != nil {
		t.Error(err)
	}
}

func TestDeterminism(t *testing.T) {
	for _, seed := range []uint64{1, 7, 111, 0xdeadbeef, 1 << 63} {
		s1, s2 := New(seed), New(seed)
		for i := 0; i < 10_000; i++ {
			if a, b := s1.Uint64(), s2.Uint64(); a != b {
				t.Fatalf("seed %d: draw %d diverged: %#x != %#x", seed, i, a, b)
			}
		}
	}
}

func TestZeroSeed(t *testing.T) {
	zero, one := New(0), New(1)
	if zero.state != 1 {
		t.Fatalf("New(0) state = %d, want 1", zero.state)
	}
	for i := 0; i < 1000; i++ {
		if a, b := zero.Uint64(), one.Uint64(); a != b {
			t.Fatalf("draw %d: New(0) gave %#x, New(1) gave %#x", i, a, b)
		}
	}
	var s Source
	s.Seed(0)
	if s.state != 1 {
		t.Errorf("Seed(0) state = %d, want 1", s.state)
	}
}

func TestFloat32Range(t *testing.T) {
	s := New(111)
	for i := 0; i < 100_000; i++ {
		v := s.Float32()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d: %v outside [0, 1)", i, v)
		}
	}
}

func TestFloat32Values(t *testing.T) {
	s := New(111)
	want := []float32{0.6577496528625488, 0.7006504535675049, 0.3423349857330322, 0.08965945243835449}
	for i, w := range want {
		if got := s.Float32(); got != w {
			t.Errorf("draw %d: got %v, want %v", i, got, w)
		}
	}
}

func TestUnitFloatBounds(t *testing.T) {
	tests := []struct {
		bits uint32
		want float32
	}{
		{0, 0},
		{0xFF800000, 0},
		{0x7FFFFF, 1 - 1.0/(1<<23)},
		{0xFFFFFFFF, 1 - 1.0/(1<<23)},
		{0x400000, 0.5},
	}
	for _, test := range tests {
		if got := unitFloat(test.bits); got != test.want {
			t.Errorf("unitFloat(%#x) = %v, want %v", test.bits, got, test.want)
		}
	}
}

func TestNonDegenerate(t *testing.T) {
	if testing.Short() {
		t.Skip("long iteration count")
	}
	for _, seed := range []uint64{1, 2, 3, 111} {
		s := New(seed)
		for i := 0; i < 1_000_000; i++ {
			s.Uint64()
			if s.state == 0 {
				t.Fatalf("seed %d: state reached zero after %d draws", seed, i+1)
			}
		}
	}
}

func TestUint32Truncation(t *testing.T) {
	s1, s2 := New(111), New(111)
	for i := 0; i < 1000; i++ {
		if got, want := s1.Uint32(), uint32(s2.Uint64()); got != want {
			t.Fatalf("draw %d: Uint32 = %#x, want %#x", i, got, want)
		}
		if s1.state != s2.state {
			t.Fatalf("draw %d: states diverged", i)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := New(111)
	for i := 0; i < 17; i++ {
		s.Uint64()
	}
	snap, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := s.Uint64()
	var r Source
	if err := r.UnmarshalBinary(snap); err != nil {
		t.Fatal(err)
	}
	if got := r.Uint64(); got != want {
		t.Errorf("resumed generator: got %#x, want %#x", got, want)
	}
}

func TestSnapshotInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("xs64:\x00\x01")},
		{"magic", []byte("xs32:\x00\x00\x00\x00\x00\x00\x00\x01")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var s Source
			if err := s.UnmarshalBinary(test.data); err == nil {
				t.Error("invalid snapshot accepted")
			}
		})
	}
	var s Source
	err := s.UnmarshalBinary([]byte("xs64:\x00\x00\x00\x00\x00\x00\x00\x00"))
	if !errors.Is(err, ErrZeroState) {
		t.Errorf("zero state snapshot: got %v, want %v", err, ErrZeroState)
	}
}

func TestRandV2(t *testing.T) {
	r1 := rand.New(New(42))
	r2 := rand.New(New(42))
	for i := 0; i < 100; i++ {
		if a, b := r1.IntN(1000), r2.IntN(1000); a != b {
			t.Fatalf("draw %d: %d != %d", i, a, b)
		}
	}
}

func TestLocked(t *testing.T) {
	const (
		workers = 8
		draws   = 1000
	)
	l := NewLocked(111)
	var wg sync.WaitGroup
	results := make([][]uint64, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range draws {
				results[w] = append(results[w], l.Uint64())
			}
		}()
	}
	wg.Wait()
	// Every value of the serial sequence is drawn exactly once.
	seen := make(map[uint64]int)
	for _, r := range results {
		for _, v := range r {
			seen[v]++
		}
	}
	s := New(111)
	for i := 0; i < workers*draws; i++ {
		v := s.Uint64()
		if seen[v] != 1 {
			t.Fatalf("serial draw %d (%#x) seen %d times", i, v, seen[v])
		}
	}
}
