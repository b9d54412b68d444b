package data

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ItemDef is the static template behind every Item instance.
type ItemDef struct {
	Ref      Ref
	ID       string
	Name     string
	MaxStack int
	Recorder bool   // can start a recording
	OnUse    string // behavior name, "" = not usable
}

type BuildingDef struct {
	Ref        Ref
	ID         string
	Name       string
	Glyph      string
	OnInteract string
}

type TileDef struct {
	Ref   Ref
	ID    string
	Name  string
	Glyph string
	Solid bool
}

type Ingredient struct {
	Item     string
	Quantity int
}

type RecipeDef struct {
	Ref      Ref
	ID       string
	Name     string
	Inputs   []Ingredient // sorted by item id
	Output   string
	Quantity int
	Score    int
}

// ActorKind carries per-kind survival data. A nil Threshold means the kind
// never succumbs to paradox.
type ActorKind struct {
	Ref       Ref
	ID        string
	Name      string
	Threshold *float64
}

// Arena owns every static definition for the process lifetime.
type Arena struct {
	Items     Table[ItemDef]
	Buildings Table[BuildingDef]
	Tiles     Table[TileDef]
	Recipes   Table[RecipeDef]
	Actors    Table[ActorKind]
}

func NewArena() *Arena {
	return &Arena{
		Items:     newTable[ItemDef](),
		Buildings: newTable[BuildingDef](),
		Tiles:     newTable[TileDef](),
		Recipes:   newTable[RecipeDef](),
		Actors:    newTable[ActorKind](),
	}
}

// --- YAML shapes ---

type itemEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	MaxStack int    `yaml:"max_stack"`
	Recorder bool   `yaml:"recorder"`
	OnUse    string `yaml:"on_use"`
}

type buildingEntry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Glyph      string `yaml:"glyph"`
	OnInteract string `yaml:"on_interact"`
}

type tileEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Solid bool   `yaml:"solid"`
}

type recipeEntry struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Inputs   map[string]int `yaml:"inputs"`
	Output   string         `yaml:"output"`
	Quantity int            `yaml:"quantity"`
	Score    int            `yaml:"score"`
}

type actorEntry struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Threshold *float64 `yaml:"threshold"`
}

type definitionsFile struct {
	Items     []itemEntry     `yaml:"items"`
	Buildings []buildingEntry `yaml:"buildings"`
	Tiles     []tileEntry     `yaml:"tiles"`
	Recipes   []recipeEntry   `yaml:"recipes"`
	Actors    []actorEntry    `yaml:"actors"`
}

// Load reads the definitions file at path.
func Load(path string) (*Arena, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions %s: %w", path, err)
	}
	a, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("definitions %s: %w", path, err)
	}
	return a, nil
}

// Parse builds an arena from definitions YAML.
func Parse(raw []byte) (*Arena, error) {
	var f definitionsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	a := NewArena()

	for _, e := range f.Items {
		def := &ItemDef{ID: e.ID, Name: displayName(e.ID, e.Name), MaxStack: e.MaxStack, Recorder: e.Recorder, OnUse: e.OnUse}
		if def.MaxStack <= 0 {
			def.MaxStack = 1
		}
		ref, ok := a.Items.add(e.ID, def)
		if !ok || e.ID == "" {
			return nil, fmt.Errorf("item %q: empty or duplicate id", e.ID)
		}
		def.Ref = ref
	}
	for _, e := range f.Buildings {
		def := &BuildingDef{ID: e.ID, Name: displayName(e.ID, e.Name), Glyph: e.Glyph, OnInteract: e.OnInteract}
		ref, ok := a.Buildings.add(e.ID, def)
		if !ok || e.ID == "" {
			return nil, fmt.Errorf("building %q: empty or duplicate id", e.ID)
		}
		def.Ref = ref
	}
	for _, e := range f.Tiles {
		def := &TileDef{ID: e.ID, Name: displayName(e.ID, e.Name), Glyph: e.Glyph, Solid: e.Solid}
		ref, ok := a.Tiles.add(e.ID, def)
		if !ok || e.ID == "" {
			return nil, fmt.Errorf("tile %q: empty or duplicate id", e.ID)
		}
		def.Ref = ref
	}
	for _, e := range f.Actors {
		def := &ActorKind{ID: e.ID, Name: displayName(e.ID, e.Name), Threshold: e.Threshold}
		ref, ok := a.Actors.add(e.ID, def)
		if !ok || e.ID == "" {
			return nil, fmt.Errorf("actor kind %q: empty or duplicate id", e.ID)
		}
		def.Ref = ref
	}
	for _, e := range f.Recipes {
		def, err := a.buildRecipe(e)
		if err != nil {
			return nil, err
		}
		ref, ok := a.Recipes.add(e.ID, def)
		if !ok {
			return nil, fmt.Errorf("recipe %q: duplicate id", e.ID)
		}
		def.Ref = ref
	}
	return a, nil
}

func (a *Arena) buildRecipe(e recipeEntry) (*RecipeDef, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("recipe with empty id")
	}
	if _, _, ok := a.Items.Lookup(e.Output); !ok {
		return nil, fmt.Errorf("recipe %q: unknown output item %q", e.ID, e.Output)
	}
	if len(e.Inputs) == 0 {
		return nil, fmt.Errorf("recipe %q: no inputs", e.ID)
	}
	def := &RecipeDef{ID: e.ID, Name: displayName(e.ID, e.Name), Output: e.Output, Quantity: e.Quantity, Score: e.Score}
	if def.Quantity <= 0 {
		def.Quantity = 1
	}
	for item, qty := range e.Inputs {
		if _, _, ok := a.Items.Lookup(item); !ok {
			return nil, fmt.Errorf("recipe %q: unknown input item %q", e.ID, item)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("recipe %q: input %q needs a positive quantity", e.ID, item)
		}
		def.Inputs = append(def.Inputs, Ingredient{Item: item, Quantity: qty})
	}
	sort.Slice(def.Inputs, func(i, j int) bool { return def.Inputs[i].Item < def.Inputs[j].Item })
	return def, nil
}

// Behaviors lists every behavior name referenced by items and buildings,
// keyed by the definition that references it.
func (a *Arena) Behaviors() map[string]string {
	out := make(map[string]string)
	for _, id := range a.Items.IDs() {
		def, _, _ := a.Items.Lookup(id)
		if def.OnUse != "" {
			out["item/"+id] = def.OnUse
		}
	}
	for _, id := range a.Buildings.IDs() {
		def, _, _ := a.Buildings.Lookup(id)
		if def.OnInteract != "" {
			out["building/"+id] = def.OnInteract
		}
	}
	return out
}

var titler = cases.Title(language.English)

func displayName(id, name string) string {
	if name != "" {
		return name
	}
	return titler.String(strings.ReplaceAll(id, "_", " "))
}
