package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Process-style status codes returned by commands.
const (
	StatusOK       = 0
	StatusError    = 1
	StatusUsage    = 2
	StatusNotFound = 127
)

// HelpName is the name of the synthesised help command.
const HelpName = "/help"

// Command is one named operation.
type Command struct {
	// Name is matched exactly, conventionally with a leading slash.
	Name string
	// Usage describes the arguments, e.g. "<address> <value>".
	Usage string
	// Description is a one-line summary.
	Description string
	// Main runs the command and returns a status; zero means success.
	Main func(args []string, out *Printer) int
}

// Dispatcher routes command lines to commands.
type Dispatcher struct {
	commands []*Command
	out      *Printer
}

// NewDispatcher creates a dispatcher writing to w with the given commands
// registered after the synthesised /help.
func NewDispatcher(w io.Writer, commands ...*Command) (*Dispatcher, error) {
	d := &Dispatcher{out: NewPrinter(w)}
	d.commands = append(d.commands, &Command{
		Name:        HelpName,
		Usage:       "[command]",
		Description: "List commands or describe one",
		Main:        d.help,
	})
	for _, c := range commands {
		if err := d.Register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Register appends a command.
func (d *Dispatcher) Register(c *Command) error {
	if c == nil || c.Name == "" || c.Main == nil || strings.ContainsAny(c.Name, " \t") {
		return ErrInvalidCommand
	}
	if d.find(c.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, c.Name)
	}
	d.commands = append(d.commands, c)
	return nil
}

// Commands returns the registered commands in order, /help first.
func (d *Dispatcher) Commands() []*Command { return d.commands }

// Printer returns the dispatcher's output.
func (d *Dispatcher) Printer() *Printer { return d.out }

// Dispatch splits line into words and invokes the named command. An empty
// line is a no-op returning StatusOK.
func (d *Dispatcher) Dispatch(line string) int {
	words, err := Split(line)
	if err != nil {
		d.out.Println("error:", err)
		return StatusUsage
	}
	if len(words) == 0 {
		return StatusOK
	}
	return d.Invoke(words[0], words[1:])
}

// Invoke runs the command called name with args.
func (d *Dispatcher) Invoke(name string, args []string) int {
	c := d.find(name)
	if c == nil {
		d.out.Println("unknown command:", name, "(try /help)")
		return StatusNotFound
	}
	return c.Main(args, d.out)
}

func (d *Dispatcher) find(name string) *Command {
	for _, c := range d.commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (d *Dispatcher) help(args []string, out *Printer) int {
	if len(args) > 1 {
		out.Println("usage:", HelpName, "[command]")
		return StatusUsage
	}
	if len(args) == 1 {
		name := args[0]
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		c := d.find(name)
		if c == nil {
			out.Println("unknown command:", name)
			return StatusNotFound
		}
		out.Println(usageLine(c))
		out.Println("   ", c.Description)
		return StatusOK
	}

	width := 0
	for _, c := range d.commands {
		if n := len(usageLine(c)); n > width {
			width = n
		}
	}
	for _, c := range d.commands {
		out.Printf("%-*s  %s\n", width, usageLine(c), c.Description)
	}
	return StatusOK
}

func usageLine(c *Command) string {
	if c.Usage == "" {
		return c.Name
	}
	return c.Name + " " + c.Usage
}

// Split breaks a command line into words. Single or double quotes group
// words containing spaces; a backslash escapes the next character.
// Environment variables and backticks are left as literal text.
func Split(line string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	words, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLine, err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	return words, nil
}
