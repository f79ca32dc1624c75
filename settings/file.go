package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var cborEnc cbor.EncMode

func init() {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEnc = enc
}

// File names of the individual settings inside a settings directory.
const (
	VolumeFile    = "volume.json"
	QualityFile   = "quality.json"
	FpsCapFile    = "fps_cap_slider.json"
	FramerateFile = "fps_cap_mode.json"
	VsyncFile     = "vsync_mode.json"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

func codecFor(path string) (codec, error) {
	switch filepath.Ext(path) {
	case ".json":
		return codec{
			marshal: func(v any) ([]byte, error) {
				return json.MarshalIndent(v, "", "  ")
			},
			unmarshal: json.Unmarshal,
		}, nil
	case ".cbor":
		return codec{
			marshal:   cborEnc.Marshal,
			unmarshal: cbor.Unmarshal,
		}, nil
	}
	return codec{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Load decodes the file at path into v. The format is chosen by the
// file extension, .json or .cbor. If the file doesn't exist, the
// returned error matches fs.ErrNotExist and v is not modified.
func Load(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Save encodes v to path, creating its directory if needed.
func Save(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: create directory: %w", err)
	}
	data, err := c.marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	return nil
}

// LoadAll loads the settings stored in dir. Settings that are missing
// or can't be read keep their default value.
func LoadAll(dir string) Settings {
	s := Defaults()
	loadOne(filepath.Join(dir, VolumeFile), &s.Volume)
	loadOne(filepath.Join(dir, QualityFile), &s.Quality)
	loadOne(filepath.Join(dir, FpsCapFile), &s.FpsCap)
	loadOne(filepath.Join(dir, FramerateFile), &s.Framerate)
	loadOne(filepath.Join(dir, VsyncFile), &s.Vsync)
	return s
}

func loadOne[T any](path string, v *T) {
	// Decode into a copy so a partial decode can't clobber the default.
	tmp := *v
	switch err := Load(path, &tmp); {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("settings: %s not found, using defaults", path)
	case err != nil:
		log.Printf("settings: %v; using defaults", err)
	default:
		*v = tmp
		log.Printf("settings: loaded %s", path)
	}
}

// SaveAll stores s in dir, one file per setting.
func SaveAll(dir string, s Settings) error {
	files := []struct {
		name string
		v    any
	}{
		{VolumeFile, s.Volume},
		{QualityFile, s.Quality},
		{FpsCapFile, s.FpsCap},
		{FramerateFile, s.Framerate},
		{VsyncFile, s.Vsync},
	}
	for _, f := range files {
		if err := Save(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}
