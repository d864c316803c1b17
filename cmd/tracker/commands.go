package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dom/combat-tracker/internal/domain"
)

var errUsage = errors.New("usage")

// splitArgs splits a command line on spaces, keeping "double quoted" runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' || r == '\t':
			if quoted {
				current.WriteRune(r)
				continue
			}
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}

// parseAddPC reads `add` flags. Missing numbers fall back to the new
// character form defaults: level 1, AC 10, initiative 0.
func parseAddPC(args []string) (domain.InsertCharacter, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "character name")
	class := fs.String("class", "", "character class")
	level := fs.Int("level", 1, "character level")
	hp := fs.Int("hp", 0, "maximum hit points")
	current := fs.Int("current", -1, "current hit points (default: max)")
	initiative := fs.Int("init", 0, "initiative roll")
	ac := fs.Int("ac", 10, "armor class")
	if err := fs.Parse(args); err != nil {
		return domain.InsertCharacter{}, err
	}
	if *name == "" && fs.NArg() > 0 {
		*name = strings.Join(fs.Args(), " ")
	}

	in := domain.InsertCharacter{
		Name:       *name,
		Type:       domain.CharacterTypePC,
		Level:      level,
		Initiative: initiative,
		AC:         ac,
		MaxHP:      hp,
		CurrentHP:  startingHP(*current, *hp),
	}
	if *class != "" {
		in.Class = class
	}
	return in, nil
}

// parseAddNPC reads `add-npc` flags and the quantity of copies to create.
// Defaults: CR 1, AC 10, initiative 0, quantity 1.
func parseAddNPC(args []string) (domain.InsertCharacter, int, error) {
	fs := flag.NewFlagSet("add-npc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "npc name")
	description := fs.String("desc", "", "short description")
	cr := fs.Float64("cr", 1, "challenge rating")
	hp := fs.Int("hp", 0, "maximum hit points")
	current := fs.Int("current", -1, "current hit points (default: max)")
	initiative := fs.Int("init", 0, "initiative roll")
	ac := fs.Int("ac", 10, "armor class")
	quantity := fs.Int("qty", 1, "number of copies")
	if err := fs.Parse(args); err != nil {
		return domain.InsertCharacter{}, 0, err
	}
	if *name == "" && fs.NArg() > 0 {
		*name = strings.Join(fs.Args(), " ")
	}
	if *quantity < 1 {
		return domain.InsertCharacter{}, 0, fmt.Errorf("quantity must be at least 1")
	}

	in := domain.InsertCharacter{
		Name:       *name,
		Type:       domain.CharacterTypeNPC,
		CR:         cr,
		Initiative: initiative,
		AC:         ac,
		MaxHP:      hp,
		CurrentHP:  startingHP(*current, *hp),
	}
	if *description != "" {
		in.Description = description
	}
	return in, *quantity, nil
}

func startingHP(current, max int) *int {
	if current < 0 {
		current = max
	}
	return &current
}

// parseTarget reads a character reference: "#2" is the second slot in
// initiative order, anything else is a character id.
func parseTarget(arg string, order []*domain.Character) (*domain.Character, error) {
	if pos, ok := strings.CutPrefix(arg, "#"); ok {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 1 || n > len(order) {
			return nil, fmt.Errorf("no character at position %s", arg)
		}
		return order[n-1], nil
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid character id %q", arg)
	}
	for _, c := range order {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no character with id %d", id)
}

// hpChange returns the absolute HP to store after damage or healing. ok is
// false for an amount that is not a number.
func hpChange(c *domain.Character, amount string, healing bool) (hp int, ok bool) {
	n, ok := domain.ParseAmount(amount)
	if !ok {
		return 0, false
	}
	if !healing {
		if n == math.MinInt {
			n = math.MaxInt
		} else {
			n = -n
		}
	}
	return domain.ClampHP(c.CurrentHP, n, c.MaxHP), true
}
