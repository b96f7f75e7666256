package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"

	"github.com/nerrad567/instrument-core/internal/infrastructure/config"
)

// printAddresses writes the address table of the default instrument. A
// missing config file falls back to the default addressing style.
func printAddresses(configPath string, sorted bool, out io.Writer) error {
	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return fmt.Errorf("loading config: %w", err)
	}

	table, err := buildTable(cfg.Addressing)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tGROUP\tKIND\tDESCRIPTION")
	if sorted {
		for _, addr := range table.Sorted() {
			e, _ := table.Lookup(addr)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", addr, e.Group, e.Kind(), e.Description)
		}
	} else {
		for _, en := range table.Entries() {
			e := en.Endpoint
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", en.Address, e.Group, e.Kind(), e.Description)
		}
	}
	return tw.Flush()
}
