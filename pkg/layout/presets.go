package layout

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// Preset is a named sheet size in inches.
type Preset struct {
	Name        string  `json:"name" toml:"-"`
	Width       float64 `json:"width" toml:"width"`
	Height      float64 `json:"height" toml:"height"`
	Description string  `json:"description,omitempty" toml:"description"`
}

// DefaultPreset is the preset matching DefaultSheetWidth x DefaultSheetHeight.
const DefaultPreset = "22x36"

// builtinPresets are the common DTF gang sheet sizes plus a few press sheets.
var builtinPresets = []Preset{
	{Name: "22x12", Width: 22, Height: 12, Description: "DTF 1 ft"},
	{Name: "22x24", Width: 22, Height: 24, Description: "DTF 2 ft"},
	{Name: "22x36", Width: 22, Height: 36, Description: "DTF 3 ft"},
	{Name: "22x60", Width: 22, Height: 60, Description: "DTF 5 ft"},
	{Name: "22x120", Width: 22, Height: 120, Description: "DTF 10 ft"},
	{Name: "13x19", Width: 13, Height: 19, Description: "Super B"},
	{Name: "11x17", Width: 11, Height: 17, Description: "Tabloid"},
	{Name: "letter", Width: 8.5, Height: 11, Description: "US Letter"},
}

// Presets is a lookup table of sheet presets.
type Presets map[string]Preset

// BuiltinPresets returns a fresh copy of the built-in presets.
func BuiltinPresets() Presets {
	p := make(Presets, len(builtinPresets))
	for _, b := range builtinPresets {
		p[b.Name] = b
	}
	return p
}

// Lookup returns the preset with the given name.
func (p Presets) Lookup(name string) (Preset, error) {
	if err := errs.ValidatePresetName(name); err != nil {
		return Preset{}, err
	}
	preset, ok := p[name]
	if !ok {
		return Preset{}, errs.New(errs.ErrCodeInvalidPreset, "unknown preset %q", name)
	}
	return preset, nil
}

// Sorted returns the presets widest first, then by height and name.
func (p Presets) Sorted() []Preset {
	out := make([]Preset, 0, len(p))
	for _, v := range p {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Width != out[j].Width {
			return out[i].Width > out[j].Width
		}
		if out[i].Height != out[j].Height {
			return out[i].Height < out[j].Height
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// presetFile is the TOML document layout:
//
//	[presets.dtf-roll]
//	width = 22
//	height = 200
//	description = "full roll"
type presetFile struct {
	Presets map[string]Preset `toml:"presets"`
}

// LoadPresets reads presets from TOML and merges them over base. Entries in r
// replace base entries with the same name. base is not modified.
func LoadPresets(r io.Reader, base Presets) (Presets, error) {
	var f presetFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPreset, err, "parse presets")
	}

	out := make(Presets, len(base)+len(f.Presets))
	for k, v := range base {
		out[k] = v
	}
	for name, p := range f.Presets {
		if err := errs.ValidatePresetName(name); err != nil {
			return nil, err
		}
		p.Name = name
		if err := ValidateSheet(SheetSpec{Width: p.Width, Height: p.Height}); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}
