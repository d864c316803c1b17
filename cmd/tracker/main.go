package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/tracker"
	"github.com/dom/combat-tracker/internal/websocket"
)

func main() {
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := newTerminal(NewAPIClient(apiURL), os.Stdout)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			return
		case "load":
			if len(os.Args) != 3 {
				fmt.Fprintln(os.Stderr, "usage: tracker load <encounter.yaml>")
				os.Exit(1)
			}
			if err := t.load(ctx, os.Args[2]); err != nil {
				fmt.Fprintln(os.Stderr, renderError(err))
				os.Exit(1)
			}
			t.show()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
			printUsage(os.Stderr)
			os.Exit(1)
		}
	}

	if err := t.run(ctx, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Combat Tracker - terminal client for the initiative tracker

COMMANDS:
  list                                   Show the initiative order
  next | prev                            Move the turn forward or back
  reset                                  Back to round 1, first turn
  add -name N [-class C] [-level 1] -hp H [-current H] [-init 0] [-ac 10]
  add-npc -name N [-desc D] [-cr 1] -hp H [-init 0] [-ac 10] [-qty 1]
  damage <id|#pos> <amount>              Subtract HP (never below 0)
  heal <id|#pos> <amount>                Add HP (never above max)
  status <id|#pos> <condition|none>      Set or clear a condition
  remove <id|#pos>                       Remove from combat
  load <encounter.yaml>                  Add every combatant in an encounter file
  conditions                             List conditions and their effects
  help                                   Show this help message
  quit                                   Exit

USAGE:
  tracker                                Interactive session
  tracker load <encounter.yaml>          Add an encounter and print the order

ENVIRONMENT:
  API_URL   Backend URL (default: http://localhost:8080)

EXAMPLES:
  add -name Valeros -class Fighter -level 5 -hp 45 -init 14 -ac 18
  add-npc -name Goblin -cr 0.33 -hp 6 -init 12 -qty 3
  damage #1 7
  status 3 Prone`)
}

// terminal owns the session turn state. Only the run loop touches it.
type terminal struct {
	client  *APIClient
	session *tracker.Session
	out     io.Writer
}

func newTerminal(client *APIClient, out io.Writer) *terminal {
	return &terminal{
		client:  client,
		session: tracker.NewSession(nil),
		out:     out,
	}
}

func (t *terminal) run(ctx context.Context, in io.Reader) error {
	if err := t.refresh(ctx); err != nil {
		return err
	}
	t.show()

	changes := make(chan websocket.CharactersChangedPayload, 16)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- t.client.Listen(ctx, changes)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	t.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-listenErr:
			listenErr = nil
			if err != nil && ctx.Err() == nil {
				fmt.Fprintln(t.out, mutedStyle.Render("live updates unavailable: "+err.Error()))
				t.prompt()
			}
		case <-changes:
			if err := t.refresh(ctx); err != nil {
				fmt.Fprintln(t.out, renderError(err))
				continue
			}
			fmt.Fprintln(t.out)
			t.show()
			t.prompt()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := t.execute(ctx, line)
			if err != nil {
				fmt.Fprintln(t.out, renderError(err))
			}
			if quit {
				return nil
			}
			t.prompt()
		}
	}
}

func (t *terminal) prompt() {
	fmt.Fprint(t.out, "> ")
}

func (t *terminal) show() {
	fmt.Fprintln(t.out, renderSession(t.session))
}

func (t *terminal) refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	characters, err := t.client.ListCharacters(ctx)
	if err != nil {
		return err
	}
	t.session.Sync(characters)
	return nil
}

// execute runs one command line. Writes are followed by a refresh so the view
// matches the server even when live updates are unavailable.
func (t *terminal) execute(ctx context.Context, line string) (bool, error) {
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		printUsage(t.out)
		return false, nil
	case "list", "ls":
		if err := t.refresh(ctx); err != nil {
			return false, err
		}
	case "next", "n":
		t.session.Advance()
	case "prev", "p":
		t.session.Retreat()
	case "reset":
		t.session.Reset()
	case "conditions":
		conditions, err := t.client.ListConditions(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(t.out, renderConditions(conditions))
		return false, nil
	case "add":
		in, err := parseAddPC(rest)
		if err != nil {
			return false, err
		}
		if err := t.create(ctx, in, 1); err != nil {
			return false, err
		}
	case "add-npc":
		in, qty, err := parseAddNPC(rest)
		if err != nil {
			return false, err
		}
		if err := t.create(ctx, in, qty); err != nil {
			return false, err
		}
	case "damage", "heal":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: %s <id|#pos> <amount>", errUsage, cmd)
		}
		if err := t.changeHP(ctx, rest[0], rest[1], cmd == "heal"); err != nil {
			return false, err
		}
	case "status":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: status <id|#pos> <condition|none>", errUsage)
		}
		if err := t.setStatus(ctx, rest[0], rest[1]); err != nil {
			return false, err
		}
	case "load":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: load <encounter.yaml>", errUsage)
		}
		if err := t.load(ctx, rest[0]); err != nil {
			return false, err
		}
	case "remove", "rm":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: remove <id|#pos>", errUsage)
		}
		if err := t.remove(ctx, rest[0]); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}

	t.show()
	return false, nil
}

func (t *terminal) create(ctx context.Context, in domain.InsertCharacter, quantity int) error {
	created, err := t.client.CreateCharacters(ctx, in, quantity)
	if err != nil {
		return err
	}
	for _, c := range created {
		fmt.Fprintf(t.out, "Added %s (id %d)\n", c.Name, c.ID)
	}
	return t.refresh(ctx)
}

func (t *terminal) changeHP(ctx context.Context, target, amount string, healing bool) error {
	c, err := parseTarget(target, t.session.Order())
	if err != nil {
		return err
	}
	hp, ok := hpChange(c, amount, healing)
	if !ok {
		return nil
	}
	if _, err := t.client.UpdateCharacter(ctx, c.ID, domain.CharacterPatch{CurrentHP: &hp}); err != nil {
		return err
	}
	return t.refresh(ctx)
}

func (t *terminal) setStatus(ctx context.Context, target, status string) error {
	c, err := parseTarget(target, t.session.Order())
	if err != nil {
		return err
	}
	status = domain.NormalizeStatus(status)
	if !domain.IsValidStatus(status) {
		return fmt.Errorf("unknown condition %q, see conditions", status)
	}
	if _, err := t.client.UpdateCharacter(ctx, c.ID, domain.CharacterPatch{Status: &status}); err != nil {
		return err
	}
	return t.refresh(ctx)
}

func (t *terminal) load(ctx context.Context, path string) error {
	enc, err := loadEncounter(path)
	if err != nil {
		return err
	}
	added, err := addEncounter(ctx, t.client, enc)
	if enc.Name != "" {
		fmt.Fprintf(t.out, "%s: ", enc.Name)
	}
	fmt.Fprintf(t.out, "added %d characters\n", added)
	if err != nil {
		return err
	}
	return t.refresh(ctx)
}

func (t *terminal) remove(ctx context.Context, target string) error {
	c, err := parseTarget(target, t.session.Order())
	if err != nil {
		return err
	}
	if err := t.client.DeleteCharacter(ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "%s has been removed from combat\n", c.Name)
	return t.refresh(ctx)
}
