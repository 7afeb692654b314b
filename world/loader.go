package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Section names accepted by the environment file format.
var knownSections = map[string]bool{
	"DIMENSIONS": true,
	"COLONY":     true,
	"FOOD":       true,
	"WALL":       true,
	"ANTS":       true,
	"TIME_LIMIT": true,
	"MAX_STEPS":  true,
}

// Load reads an environment from a text file.
func Load(path string) (*Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening environment file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the line-oriented environment format: sections are a name
// followed by ":", each holding data lines until the next section header or
// EOF. "#" lines and blank lines are ignored. DIMENSIONS, COLONY and FOOD
// are required.
func Parse(r io.Reader) (*Environment, error) {
	sections := make(map[string][]string)
	current := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") {
			current = strings.ToUpper(strings.TrimSuffix(line, ":"))
			if !knownSections[current] {
				return nil, malformed(current, "unknown section")
			}
			continue
		}
		if current == "" {
			return nil, malformed("DIMENSIONS", "data line %q before any section header", line)
		}
		sections[current] = append(sections[current], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading environment file: %w", err)
	}

	return build(sections)
}

func build(sections map[string][]string) (*Environment, error) {
	dims, ok := sections["DIMENSIONS"]
	if !ok || len(dims) == 0 {
		return nil, malformed("DIMENSIONS", "section missing")
	}
	if len(dims) > 1 {
		return nil, malformed("DIMENSIONS", "expected one line, got %d", len(dims))
	}
	w, h, err := parsePair(dims[0])
	if err != nil {
		return nil, malformed("DIMENSIONS", "%v", err)
	}
	if w <= 0 || h <= 0 {
		return nil, malformed("DIMENSIONS", "non-positive dimensions %dx%d", w, h)
	}

	env := &Environment{
		Grid: NewGrid(w, h),
		Food: NewFoodStore(),
	}

	for _, line := range sections["WALL"] {
		x, y, err := parsePair(line)
		if err != nil {
			return nil, malformed("WALL", "%v", err)
		}
		c := Coord{x, y}
		if !env.Grid.InBounds(c) {
			return nil, malformed("WALL", "coordinate (%d,%d) out of bounds", x, y)
		}
		env.Grid.SetWall(c)
	}

	colony, ok := sections["COLONY"]
	if !ok || len(colony) == 0 {
		return nil, malformed("COLONY", "section missing")
	}
	if len(colony) > 1 {
		return nil, malformed("COLONY", "expected one line, got %d", len(colony))
	}
	cx, cy, err := parsePair(colony[0])
	if err != nil {
		return nil, malformed("COLONY", "%v", err)
	}
	env.Colony = NewColony(Coord{cx, cy})

	food, ok := sections["FOOD"]
	if !ok || len(food) == 0 {
		return nil, malformed("FOOD", "section missing")
	}
	for _, line := range food {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, malformed("FOOD", "expected \"x y amount\", got %q", line)
		}
		x, err1 := strconv.Atoi(fields[0])
		y, err2 := strconv.Atoi(fields[1])
		amount, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, malformed("FOOD", "non-integer value in %q", line)
		}
		if amount <= 0 {
			return nil, malformed("FOOD", "non-positive amount %d at (%d,%d)", amount, x, y)
		}
		env.Food.Add(Coord{x, y}, amount)
	}

	if env.AntCount, err = parseSingleInt(sections, "ANTS"); err != nil {
		return nil, err
	}
	if env.MaxSteps, err = parseSingleInt(sections, "MAX_STEPS"); err != nil {
		return nil, err
	}
	if lines := sections["TIME_LIMIT"]; len(lines) > 0 {
		if len(lines) > 1 {
			return nil, malformed("TIME_LIMIT", "expected one line, got %d", len(lines))
		}
		v, err := strconv.ParseFloat(lines[0], 64)
		if err != nil || v < 0 {
			return nil, malformed("TIME_LIMIT", "invalid value %q", lines[0])
		}
		env.TimeLimit = v
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func parsePair(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two integers, got %q", line)
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("non-integer value in %q", line)
	}
	return a, b, nil
}

func parseSingleInt(sections map[string][]string, name string) (int, error) {
	lines := sections[name]
	if len(lines) == 0 {
		return 0, nil
	}
	if len(lines) > 1 {
		return 0, malformed(name, "expected one line, got %d", len(lines))
	}
	v, err := strconv.Atoi(lines[0])
	if err != nil || v < 0 {
		return 0, malformed(name, "invalid value %q", lines[0])
	}
	return v, nil
}

// Save writes env back out in the same text format Load accepts.
func Save(env *Environment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating environment file: %w", err)
	}
	defer f.Close()
	return Write(env, f)
}

// Write serializes env to w.
func Write(env *Environment, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "DIMENSIONS:\n%d %d\n\n", env.Grid.W, env.Grid.H)
	fmt.Fprintf(bw, "COLONY:\n%d %d\n\n", env.Colony.Pos.X, env.Colony.Pos.Y)

	fmt.Fprintln(bw, "FOOD:")
	for _, c := range env.Food.Sources() {
		if amount := env.Food.AmountAt(c); amount > 0 {
			fmt.Fprintf(bw, "%d %d %d\n", c.X, c.Y, amount)
		}
	}
	fmt.Fprintln(bw)

	var walls []Coord
	for y := 0; y < env.Grid.H; y++ {
		for x := 0; x < env.Grid.W; x++ {
			c := Coord{x, y}
			if env.Grid.KindAt(c) == Wall {
				walls = append(walls, c)
			}
		}
	}
	if len(walls) > 0 {
		fmt.Fprintln(bw, "WALL:")
		for _, c := range walls {
			fmt.Fprintf(bw, "%d %d\n", c.X, c.Y)
		}
		fmt.Fprintln(bw)
	}

	if env.AntCount > 0 {
		fmt.Fprintf(bw, "ANTS:\n%d\n\n", env.AntCount)
	}
	if env.TimeLimit > 0 {
		fmt.Fprintf(bw, "TIME_LIMIT:\n%g\n\n", env.TimeLimit)
	}
	if env.MaxSteps > 0 {
		fmt.Fprintf(bw, "MAX_STEPS:\n%d\n\n", env.MaxSteps)
	}

	return bw.Flush()
}
