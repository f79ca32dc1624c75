// Package golden compares test output against files checked into
// testdata directories.
package golden

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CompareUint64s compares values against the golden sequence stored at
// path, one hexadecimal value per line. If update is set, the file is
// rewritten instead.
func CompareUint64s(path string, update bool, values []uint64) error {
	if update {
		buf := new(bytes.Buffer)
		for _, v := range values {
			fmt.Fprintf(buf, "%#016x\n", v)
		}
		return os.WriteFile(path, buf.Bytes(), 0o640)
	}
	want, err := readUint64s(path)
	if err != nil {
		return err
	}
	mismatches := 0
	first := -1
	for i := range min(len(values), len(want)) {
		if values[i] != want[i] {
			if first == -1 {
				first = i
			}
			mismatches++
		}
	}
	if len(values) != len(want) {
		return fmt.Errorf("%s: sequence lengths %d, %d", filepath.Base(path), len(values), len(want))
	}
	if mismatches > 0 {
		return fmt.Errorf("%s: %d/%d mismatches, first at index %d: got %#016x, want %#016x",
			filepath.Base(path), mismatches, len(want), first, values[first], want[first])
	}
	return nil
}

func readUint64s(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var values []uint64
	s := bufio.NewScanner(f)
	for line := 1; s.Scan(); line++ {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(txt, "0x"), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		values = append(values, v)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// CompareImages reports the number of differing pixels between two
// images of the same size.
func CompareImages(got, want image.Image) error {
	if w, g := want.Bounds().Size(), got.Bounds().Size(); w != g {
		return fmt.Errorf("image bounds mismatch: got %v, want %v", g, w)
	}
	mismatches := 0
	width, height := want.Bounds().Dx(), want.Bounds().Dy()
	gotOff, wantOff := got.Bounds().Min, want.Bounds().Min
	for y := range height {
		for x := range width {
			r1, g1, b1, a1 := got.At(gotOff.X+x, gotOff.Y+y).RGBA()
			r2, g2, b2, a2 := want.At(wantOff.X+x, wantOff.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				mismatches++
			}
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d/%d pixels differ", mismatches, width*height)
	}
	return nil
}

// DumpImage writes img as a PNG file in dir, for inspecting failed
// comparisons. It does nothing if dir is empty.
func DumpImage(dir, name string, img image.Image) error {
	if dir == "" {
		return nil
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name+".png"), buf.Bytes(), 0o640)
}
