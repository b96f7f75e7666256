package cli

import (
	"strings"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/runtime"
)

// StatusReporter is the view of a runtime used by /status.
type StatusReporter interface {
	Stats() runtime.Stats
	Status() []runtime.Status
}

// Builtins returns the standard commands over table. They read and write the
// tree directly, so they must be dispatched on the runtime goroutine. /status
// is omitted when rt is nil.
func Builtins(table *address.Table, rt StatusReporter) []*Command {
	cmds := []*Command{
		{
			Name:        "/list",
			Usage:       "[prefix]",
			Description: "List endpoint addresses in declaration order",
			Main:        func(args []string, out *Printer) int { return list(table, args, out) },
		},
		{
			Name:        "/describe",
			Usage:       "<address>",
			Description: "Show an endpoint's kind, range and description",
			Main:        func(args []string, out *Printer) int { return describe(table, args, out) },
		},
		{
			Name:        "/get",
			Usage:       "<address>",
			Description: "Print an endpoint's current value",
			Main:        func(args []string, out *Printer) int { return get(table, args, out) },
		},
		{
			Name:        "/set",
			Usage:       "<address> <value>",
			Description: "Write an input endpoint",
			Main:        func(args []string, out *Printer) int { return set(table, args, out) },
		},
		{
			Name:        "/trigger",
			Usage:       "<address>",
			Description: "Fire an input bang",
			Main:        func(args []string, out *Printer) int { return trigger(table, args, out) },
		},
		{
			Name:        "/validate",
			Description: "Report ranged endpoints outside their range",
			Main:        func(args []string, out *Printer) int { return validate(table, out) },
		},
	}
	if rt != nil {
		cmds = append(cmds, &Command{
			Name:        "/status",
			Description: "Show tick statistics and component health",
			Main:        func(args []string, out *Printer) int { return status(rt, out) },
		})
	}
	return cmds
}

func list(table *address.Table, args []string, out *Printer) int {
	if len(args) > 1 {
		out.Println("usage: /list [prefix]")
		return StatusUsage
	}
	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}
	entries := table.Match(prefix)
	if prefix != "" && len(entries) == 0 {
		out.Println("no endpoints under", prefix)
		return StatusError
	}
	for _, e := range entries {
		out.Println(e.Address, e.Endpoint.Group, e.Endpoint.Kind())
	}
	return StatusOK
}

func lookup(table *address.Table, args []string, want int, usage string, out *Printer) (*component.Endpoint, bool) {
	if len(args) != want {
		out.Println("usage:", usage)
		return nil, false
	}
	e, ok := table.Lookup(args[0])
	if !ok {
		out.Println("no endpoint at", args[0])
		return nil, false
	}
	return e, true
}

func describe(table *address.Table, args []string, out *Printer) int {
	e, ok := lookup(table, args, 1, "/describe <address>", out)
	if !ok {
		return StatusError
	}
	out.Println("address:", args[0])
	out.Println("name:", e.Name)
	out.Println("kind:", e.Group, e.Kind())
	out.Println("capabilities:", e.Caps.String())
	if r, ok := e.Ref().(component.Ranged); ok {
		lo, hi, init := r.Bounds()
		out.Println("range:", lo, "..", hi, "init", init)
	}
	if e.Description != "" {
		out.Println("description:", e.Description)
	}
	out.Println("value:", e.Value())
	return StatusOK
}

func get(table *address.Table, args []string, out *Printer) int {
	e, ok := lookup(table, args, 1, "/get <address>", out)
	if !ok {
		return StatusError
	}
	out.Println(args[0], "=", e.Value())
	return StatusOK
}

func set(table *address.Table, args []string, out *Printer) int {
	if len(args) < 2 {
		out.Println("usage: /set <address> <value>")
		return StatusUsage
	}
	e, ok := table.Lookup(args[0])
	if !ok {
		out.Println("no endpoint at", args[0])
		return StatusError
	}
	if e.Caps.Has(component.CapBang) {
		out.Println(args[0], "is a bang; use /trigger")
		return StatusError
	}
	if err := binding.Set(e, strings.Join(args[1:], " ")); err != nil {
		out.Println("error:", err)
		return StatusError
	}
	out.Println(args[0], "=", e.Value())
	return StatusOK
}

func trigger(table *address.Table, args []string, out *Printer) int {
	e, ok := lookup(table, args, 1, "/trigger <address>", out)
	if !ok {
		return StatusError
	}
	if !e.Caps.Has(component.CapBang) {
		out.Println(args[0], "is not a bang")
		return StatusError
	}
	if err := binding.Set(e, ""); err != nil {
		out.Println("error:", err)
		return StatusError
	}
	return StatusOK
}

func validate(table *address.Table, out *Printer) int {
	violations := table.Tree().CheckRanges()
	if len(violations) == 0 {
		out.Println("all values in range")
		return StatusOK
	}
	for _, v := range violations {
		out.Println(table.Address(v.Endpoint.Index), v.Value, "not in", v.Min, "..", v.Max)
	}
	return StatusError
}

func status(rt StatusReporter, out *Printer) int {
	st := rt.Stats()
	out.Println("ticks:", st.Ticks, "overruns:", st.Overruns, "last:", st.LastTick, "max:", st.MaxTick)
	unhealthy := 0
	for _, s := range rt.Status() {
		if s.Healthy && s.Panics == 0 {
			continue
		}
		unhealthy++
		line := []any{s.Name}
		if s.InitErr != "" {
			line = append(line, "init:", s.InitErr)
		}
		if s.Panics > 0 {
			line = append(line, "panics:", s.Panics, "last:", s.LastPanic)
		}
		out.Println(line...)
	}
	if unhealthy == 0 {
		out.Println("all components healthy")
	}
	return StatusOK
}
