package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Level is a resolved starting layout. Tiles is indexed x + y*Width.
// Map rows in the YAML run top to bottom, so the first row is y = Height-1.
type Level struct {
	Name      string
	Width     int
	Height    int
	Tiles     []Ref
	Player    Spawn
	Buildings []Placement
	Items     []ItemStack
	Paradox   []Emission
	Inventory []ItemStack
}

type Spawn struct {
	X, Y   int
	Facing string
}

type Placement struct {
	X, Y int
	Ref  Ref
}

type ItemStack struct {
	X, Y     int
	Item     Ref
	Quantity int
}

type Emission struct {
	X, Y  int
	Value float64
}

type levelFile struct {
	Name   string            `yaml:"name"`
	Legend map[string]string `yaml:"legend"`
	Map    []string          `yaml:"map"`
	Player struct {
		X      int    `yaml:"x"`
		Y      int    `yaml:"y"`
		Facing string `yaml:"facing"`
	} `yaml:"player"`
	Buildings []struct {
		X  int    `yaml:"x"`
		Y  int    `yaml:"y"`
		ID string `yaml:"id"`
	} `yaml:"buildings"`
	Items []struct {
		X        int    `yaml:"x"`
		Y        int    `yaml:"y"`
		ID       string `yaml:"id"`
		Quantity int    `yaml:"quantity"`
	} `yaml:"items"`
	Paradox []struct {
		X     int     `yaml:"x"`
		Y     int     `yaml:"y"`
		Value float64 `yaml:"value"`
	} `yaml:"paradox"`
	Inventory []struct {
		ID       string `yaml:"id"`
		Quantity int    `yaml:"quantity"`
	} `yaml:"inventory"`
}

// LoadLevel reads dir/<name>.yaml and resolves it against the arena.
func (a *Arena) LoadLevel(dir, name string) (*Level, error) {
	path := filepath.Join(dir, name+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	lvl, err := a.ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// ParseLevel builds a Level from YAML.
func (a *Arena) ParseLevel(raw []byte) (*Level, error) {
	var f levelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if len(f.Map) == 0 || len(f.Map[0]) == 0 {
		return nil, fmt.Errorf("level %q has an empty map", f.Name)
	}
	lvl := &Level{Name: f.Name, Width: len([]rune(f.Map[0])), Height: len(f.Map)}
	lvl.Tiles = make([]Ref, lvl.Width*lvl.Height)

	for row, line := range f.Map {
		glyphs := []rune(line)
		if len(glyphs) != lvl.Width {
			return nil, fmt.Errorf("map row %d has width %d, want %d", row, len(glyphs), lvl.Width)
		}
		y := lvl.Height - 1 - row
		for x, g := range glyphs {
			tileID, ok := f.Legend[string(g)]
			if !ok {
				return nil, fmt.Errorf("map glyph %q at row %d has no legend entry", g, row)
			}
			_, ref, ok := a.Tiles.Lookup(tileID)
			if !ok {
				return nil, fmt.Errorf("legend %q: unknown tile %q", g, tileID)
			}
			lvl.Tiles[x+y*lvl.Width] = ref
		}
	}

	inside := func(x, y int) bool { return x >= 0 && x < lvl.Width && y >= 0 && y < lvl.Height }

	lvl.Player = Spawn{X: f.Player.X, Y: f.Player.Y, Facing: f.Player.Facing}
	if lvl.Player.Facing == "" {
		lvl.Player.Facing = "north"
	}
	if !inside(lvl.Player.X, lvl.Player.Y) {
		return nil, fmt.Errorf("player start (%d,%d) outside map", lvl.Player.X, lvl.Player.Y)
	}
	for _, b := range f.Buildings {
		_, ref, ok := a.Buildings.Lookup(b.ID)
		if !ok {
			return nil, fmt.Errorf("unknown building %q", b.ID)
		}
		if !inside(b.X, b.Y) {
			return nil, fmt.Errorf("building %q at (%d,%d) outside map", b.ID, b.X, b.Y)
		}
		lvl.Buildings = append(lvl.Buildings, Placement{X: b.X, Y: b.Y, Ref: ref})
	}
	for _, it := range f.Items {
		_, ref, ok := a.Items.Lookup(it.ID)
		if !ok {
			return nil, fmt.Errorf("unknown item %q", it.ID)
		}
		if !inside(it.X, it.Y) {
			return nil, fmt.Errorf("item %q at (%d,%d) outside map", it.ID, it.X, it.Y)
		}
		lvl.Items = append(lvl.Items, ItemStack{X: it.X, Y: it.Y, Item: ref, Quantity: max(it.Quantity, 1)})
	}
	for _, p := range f.Paradox {
		if !inside(p.X, p.Y) {
			return nil, fmt.Errorf("paradox source (%d,%d) outside map", p.X, p.Y)
		}
		lvl.Paradox = append(lvl.Paradox, Emission{X: p.X, Y: p.Y, Value: p.Value})
	}
	for _, it := range f.Inventory {
		_, ref, ok := a.Items.Lookup(it.ID)
		if !ok {
			return nil, fmt.Errorf("unknown inventory item %q", it.ID)
		}
		lvl.Inventory = append(lvl.Inventory, ItemStack{Item: ref, Quantity: max(it.Quantity, 1)})
	}
	return lvl, nil
}
