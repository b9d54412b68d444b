package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/world"
	"gopkg.in/yaml.v3"
)

// parseAction reads the textual form produced by world.Action.String:
//
//	wait | move <dir> | take [dir] | interact <dir> | drop <slot> [dir]
//	use <slot> [dir] | craft <recipe> | record <slot> | end [loop|once]
//
// where dir is a compass heading, a heading relative to facing, or "here".
func parseAction(line string) (world.Action, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) == 0 {
		return world.Action{}, fmt.Errorf("empty action")
	}
	verb, args := f[0], f[1:]
	switch verb {
	case "wait":
		return world.Wait(), nil
	case "move", "interact":
		if len(args) != 1 {
			return world.Action{}, fmt.Errorf("%s needs a direction", verb)
		}
		d, err := parseDir(args[0])
		if err != nil {
			return world.Action{}, err
		}
		if verb == "move" {
			return world.Move(d), nil
		}
		return world.Interact(d), nil
	case "take":
		d, err := optionalDir(args)
		if err != nil {
			return world.Action{}, err
		}
		return world.Take(d), nil
	case "drop", "use":
		if len(args) < 1 {
			return world.Action{}, fmt.Errorf("%s needs a slot", verb)
		}
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return world.Action{}, fmt.Errorf("%s slot %q: %w", verb, args[0], err)
		}
		d, err := optionalDir(args[1:])
		if err != nil {
			return world.Action{}, err
		}
		if verb == "drop" {
			return world.Drop(slot, d), nil
		}
		return world.Use(slot, d), nil
	case "craft":
		if len(args) != 1 {
			return world.Action{}, fmt.Errorf("craft needs a recipe")
		}
		return world.Craft(args[0]), nil
	case "record":
		if len(args) != 1 {
			return world.Action{}, fmt.Errorf("record needs a slot")
		}
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return world.Action{}, fmt.Errorf("record slot %q: %w", args[0], err)
		}
		return world.Record(slot), nil
	case "end":
		loop := false
		if len(args) > 0 {
			switch args[0] {
			case "loop":
				loop = true
			case "once":
			default:
				return world.Action{}, fmt.Errorf("end takes loop or once, got %q", args[0])
			}
		}
		return world.EndRecording(loop), nil
	}
	return world.Action{}, fmt.Errorf("unknown verb %q", verb)
}

func optionalDir(args []string) (world.Dir, error) {
	if len(args) == 0 {
		return world.Here, nil
	}
	if len(args) > 1 {
		return world.Here, fmt.Errorf("unexpected %q", strings.Join(args[1:], " "))
	}
	return parseDir(args[0])
}

func parseDir(s string) (world.Dir, error) {
	if s == "here" {
		return world.Here, nil
	}
	if d, ok := grid.ParseDirection(s); ok {
		return world.Abs(d), nil
	}
	if r, ok := world.ParseRelative(s); ok {
		return world.Rel(r), nil
	}
	return world.Here, fmt.Errorf("unknown direction %q", s)
}

// scriptFile is a YAML list of actions with an optional level override.
type scriptFile struct {
	Level   string   `yaml:"level"`
	Actions []string `yaml:"actions"`
}

// scriptSource replays a parsed script.
type scriptSource struct {
	actions []world.Action
}

func loadScript(path string) (*scriptSource, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read script %s: %w", path, err)
	}
	var f scriptFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, "", fmt.Errorf("parse script %s: %w", path, err)
	}
	src := &scriptSource{}
	for i, line := range f.Actions {
		a, err := parseAction(line)
		if err != nil {
			return nil, "", fmt.Errorf("script %s action %d: %w", path, i+1, err)
		}
		src.actions = append(src.actions, a)
	}
	return src, f.Level, nil
}

func (s *scriptSource) Next() (world.Action, bool, error) {
	if len(s.actions) == 0 {
		return world.Action{}, false, nil
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, true, nil
}

// lineSource reads one action per line; blank lines and # comments are
// skipped. A line that does not parse is an error.
type lineSource struct {
	sc   *bufio.Scanner
	line int
}

func newLineSource(r io.Reader) *lineSource {
	return &lineSource{sc: bufio.NewScanner(r)}
}

func (s *lineSource) Next() (world.Action, bool, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		a, err := parseAction(text)
		if err != nil {
			return world.Action{}, false, fmt.Errorf("line %d: %w", s.line, err)
		}
		return a, true, nil
	}
	return world.Action{}, false, s.sc.Err()
}
