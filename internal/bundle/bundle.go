// Package bundle reads and writes portable snapshot collections as
// YAML, so designs can move between machines without copying the whole
// state file.
package bundle

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/state"
)

type File struct {
	Version   int    `yaml:"version"`
	Exported  string `yaml:"exported,omitempty"`
	Snapshots []Item `yaml:"snapshots"`
}

type Item struct {
	Name      string  `yaml:"name"`
	Mode      string  `yaml:"mode"`
	Payload   string  `yaml:"payload"`
	Options   Options `yaml:"options"`
	CreatedAt string  `yaml:"createdAt,omitempty"`
}

type Options struct {
	Size       int    `yaml:"size"`
	Background string `yaml:"bg"`
	Foreground string `yaml:"fg"`
	Level      string `yaml:"level"`
	Style      string `yaml:"style"`
	Margin     bool   `yaml:"margin"`
	LogoData   string `yaml:"logoData,omitempty"`
	LogoWidth  int    `yaml:"logoWidth,omitempty"`
	LogoHeight int    `yaml:"logoHeight,omitempty"`
}

// Generate serializes snapshots into a bundle. IDs stay behind; the
// importing side mints fresh ones.
func Generate(snaps []state.Snapshot, exported string) ([]byte, error) {
	f := File{Version: 1, Exported: exported}
	for _, sn := range snaps {
		f.Snapshots = append(f.Snapshots, Item{
			Name:      sn.Name,
			Mode:      string(sn.Mode),
			Payload:   sn.Payload,
			Options:   fromRender(sn.Options),
			CreatedAt: sn.CreatedAt,
		})
	}
	return yaml.Marshal(&f)
}

// Parse unmarshals and validates a bundle.
func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func Validate(f *File) error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported bundle version %d", f.Version)
	}
	if len(f.Snapshots) == 0 {
		return fmt.Errorf("bundle has no snapshots")
	}
	for i, it := range f.Snapshots {
		if it.Name == "" {
			return fmt.Errorf("snapshot %d: name required", i)
		}
		if !payload.Mode(it.Mode).Valid() {
			return fmt.Errorf("snapshot %d (%s): unknown mode %q", i, it.Name, it.Mode)
		}
		if it.Payload == "" {
			return fmt.Errorf("snapshot %d (%s): payload required", i, it.Name)
		}
	}
	return nil
}

// Render converts the bundled options into live render options.
func (o Options) Render() render.Options {
	return render.Options{
		Size:       o.Size,
		Background: o.Background,
		Foreground: o.Foreground,
		Level:      render.Level(o.Level),
		Style:      render.Style(o.Style),
		Margin:     o.Margin,
		LogoData:   o.LogoData,
		LogoWidth:  o.LogoWidth,
		LogoHeight: o.LogoHeight,
	}.Normalized()
}

func fromRender(o render.Options) Options {
	return Options{
		Size:       o.Size,
		Background: o.Background,
		Foreground: o.Foreground,
		Level:      string(o.Level),
		Style:      string(o.Style),
		Margin:     o.Margin,
		LogoData:   o.LogoData,
		LogoWidth:  o.LogoWidth,
		LogoHeight: o.LogoHeight,
	}
}
