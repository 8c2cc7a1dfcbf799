package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mctar/pasteroids/geom"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is a replay file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// FormatFromPath picks msgpack for .mpk and .msgpack files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mpk", ".msgpack":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Encode writes data to w.
func Encode(w io.Writer, data *Data, f Format) error {
	switch f {
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(data); err != nil {
			return fmt.Errorf("encode replay msgpack: %w", err)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode replay json: %w", err)
		}
	}
	return nil
}

// Decode reads and validates a replay from r.
func Decode(r io.Reader, f Format) (*Data, error) {
	var data Data
	switch f {
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: decode msgpack: %v", ErrInvalidReplay, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidReplay, err)
		}
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Save writes data to path, creating parent directories. The format follows
// the file extension.
func Save(path string, data *Data) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create replay dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close replay file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, data, FormatFromPath(path)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write replay file: %w", err)
	}
	return nil
}

// Load reads and validates the replay at path.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	data, err := Decode(bufio.NewReader(f), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return data, nil
}

// Validate checks that data can rebuild a world and drive it.
func (d *Data) Validate() error {
	if d.Version > Version {
		return fmt.Errorf("%w: version %d is newer than %d", ErrInvalidReplay, d.Version, Version)
	}
	h := d.Header
	if !(h.World.Width > 0) || !(h.World.Height > 0) || !geom.IsFinite(h.World.Width) || !geom.IsFinite(h.World.Height) {
		return fmt.Errorf("%w: world size %vx%v", ErrInvalidReplay, h.World.Width, h.World.Height)
	}
	if h.Wave < 1 {
		return fmt.Errorf("%w: wave %d", ErrInvalidReplay, h.Wave)
	}
	if !h.Player.Position.IsFinite() || !geom.IsFinite(h.Player.Rotation) {
		return fmt.Errorf("%w: non-finite player pose", ErrInvalidReplay)
	}
	for i, n := range h.Noodles {
		if !n.Position.IsFinite() || !n.Velocity.IsFinite() ||
			!geom.IsFinite(n.Rotation) || !geom.IsFinite(n.AngularVelocity) ||
			!(n.LongAxis > 0) || !(n.ShortAxis > 0) || n.HP < 0 {
			return fmt.Errorf("%w: noodle %d", ErrInvalidReplay, i)
		}
	}
	if len(d.Frames) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidReplay, ErrEmptyReplay)
	}
	for i, fr := range d.Frames {
		if fr.Tick != i {
			return fmt.Errorf("%w: frame %d has tick %d", ErrInvalidReplay, i, fr.Tick)
		}
		if fr.Input.WeaponCycle < -1 || fr.Input.WeaponCycle > 1 {
			return fmt.Errorf("%w: frame %d weapon cycle %d", ErrInvalidReplay, i, fr.Input.WeaponCycle)
		}
	}
	return nil
}
