// FILE: internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"chesssim/internal/client/display"
	"chesssim/internal/client/session"
)

// ErrExit is returned by the exit command
var ErrExit = errors.New("exit")

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*session.Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
}

func NewRegistry(s *session.Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	// Register all commands
	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports false once the user asked to exit
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	// A trailing -v turns on verbose output for this command only
	verbose := r.session.Verbose
	if parts[len(parts)-1] == "-v" {
		verbose = true
		parts = parts[:len(parts)-1]
		if len(parts) == 0 {
			return true
		}
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		display.Println(r.session.Out, display.Red, "Unknown command: "+cmdName)
		fmt.Fprintln(r.session.Out, "Type 'help' for available commands")
		return true
	}

	r.session.Client.SetVerbose(verbose)
	err := cmd.Handler(r.session, args)
	if errors.Is(err, ErrExit) {
		return false
	}
	if err != nil {
		display.Println(r.session.Out, display.Red, "Error: "+err.Error())
	}
	return true
}

func (r *Registry) helpHandler(s *session.Session, args []string) error {
	if len(args) > 0 {
		// Show help for specific command
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.Out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(s.Out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(s.Out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	display.Println(s.Out, display.Cyan, "\nAvailable Commands:\n")

	// Group commands
	gameCommands := []string{"new", "join", "move", "computer", "moves", "players", "undo", "show", "board", "state", "delete", "poll", "sim"}
	utilCommands := []string{"health", "url", "raw", "help", "exit"}

	printCommandGroup := func(title string, names []string) {
		display.Println(s.Out, display.Yellow, title+":")
		for _, name := range names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := ""
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(s.Out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	printCommandGroup("Game Commands", gameCommands)
	fmt.Fprintln(s.Out)
	printCommandGroup("Utility Commands", utilCommands)

	fmt.Fprintf(s.Out, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(s.Out, "Add '-v' to any command for verbose output\n")
	return nil
}

// Names lists every registered command name, short forms excluded
func (r *Registry) Names() []string {
	var names []string
	for key, cmd := range r.commands {
		if key == cmd.Name {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}

func exitHandler(s *session.Session, args []string) error {
	display.Println(s.Out, display.Cyan, "Goodbye!")
	return ErrExit
}
