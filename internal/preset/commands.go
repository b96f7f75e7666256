package preset

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/cli"
)

// commandTimeout bounds the storage work of one command; commands run on
// the runtime goroutine and hold up the tick.
const commandTimeout = 2 * time.Second

// Commands returns /save, /load, /presets and /forget over repo.
func Commands(repo Repository, table *address.Table, instrument string) []*cli.Command {
	return []*cli.Command{
		{
			Name:        "/save",
			Usage:       "<name> [description]",
			Description: "Store the current parameter values as a preset",
			Main: func(args []string, out *cli.Printer) int {
				return save(repo, table, instrument, args, out)
			},
		},
		{
			Name:        "/load",
			Usage:       "<name>",
			Description: "Apply a stored preset",
			Main: func(args []string, out *cli.Printer) int {
				return load(repo, table, args, out)
			},
		},
		{
			Name:        "/presets",
			Description: "List stored presets",
			Main: func(args []string, out *cli.Printer) int {
				return presets(repo, out)
			},
		},
		{
			Name:        "/forget",
			Usage:       "<name>",
			Description: "Delete a stored preset",
			Main: func(args []string, out *cli.Printer) int {
				return forget(repo, args, out)
			},
		},
	}
}

func save(repo Repository, table *address.Table, instrument string, args []string, out *cli.Printer) int {
	if len(args) < 1 {
		out.Println("usage: /save <name> [description]")
		return cli.StatusUsage
	}
	p := Capture(table, args[0])
	p.Instrument = instrument
	p.Description = strings.Join(args[1:], " ")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := repo.Save(ctx, p); err != nil {
		out.Println("error:", err)
		return cli.StatusError
	}
	out.Println("saved", p.Name, len(p.Values), "values")
	return cli.StatusOK
}

func load(repo Repository, table *address.Table, args []string, out *cli.Printer) int {
	if len(args) != 1 {
		out.Println("usage: /load <name>")
		return cli.StatusUsage
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := Load(ctx, repo, table, args[0])
	if err != nil {
		out.Println("error:", err)
		return cli.StatusError
	}
	out.Println("loaded", args[0], res.Applied, "values")
	for _, addr := range res.Skipped {
		out.Println("skipped", addr)
	}
	failed := make([]string, 0, len(res.Failed))
	for addr := range res.Failed {
		failed = append(failed, addr)
	}
	sort.Strings(failed)
	for _, addr := range failed {
		out.Println("failed", addr, res.Failed[addr])
	}
	if len(failed) > 0 {
		return cli.StatusError
	}
	return cli.StatusOK
}

func presets(repo Repository, out *cli.Printer) int {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	list, err := repo.List(ctx)
	if err != nil {
		out.Println("error:", err)
		return cli.StatusError
	}
	if len(list) == 0 {
		out.Println("no presets")
		return cli.StatusOK
	}
	for _, s := range list {
		line := []any{s.Name, s.Values, "values", s.UpdatedAt.Format(time.RFC3339)}
		if s.Description != "" {
			line = append(line, s.Description)
		}
		out.Println(line...)
	}
	return cli.StatusOK
}

func forget(repo Repository, args []string, out *cli.Printer) int {
	if len(args) != 1 {
		out.Println("usage: /forget <name>")
		return cli.StatusUsage
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := repo.Delete(ctx, args[0]); err != nil {
		out.Println("error:", err)
		return cli.StatusError
	}
	out.Println("forgot", args[0])
	return cli.StatusOK
}
