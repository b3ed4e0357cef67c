package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/client"
	"github.com/ssargent/prodfile/pkg/di"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <name> <description> <cost>",
		Short: "Append a product record",
		Long: `Append a product record to the end of the data file.

Fields longer than their column (ID 6, name 35, description 75 characters) are
rejected. The description may be empty.

Example:
  prodfile add P001 Widget "A small widget" 19.99`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runAdd(cmd.Context(), rt, cmd.OutOrStdout(), jsonOutput(cmd), args)
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <slot>",
		Short: "Print the record stored in a slot",
		Long: `Print the record stored in a slot. Slots are numbered from 0 in
the order records were added.

Example:
  prodfile get 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runGet(rt, cmd.OutOrStdout(), jsonOutput(cmd), args[0])
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runCount(rt, cmd.OutOrStdout(), jsonOutput(cmd))
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find products whose name contains the given text",
		Long: `Find products whose name contains the given text, ignoring case.
Matches are printed in slot order.

Example:
  prodfile search tool`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), rt, cmd.OutOrStdout(), jsonOutput(cmd), strings.Join(args, " "))
		},
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Print every record in slot order",
		Long: `Print every record in slot order. Slots that cannot be decoded are
reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runScan(cmd.Context(), rt, cmd.OutOrStdout(), jsonOutput(cmd))
		},
	}
}

func runAdd(ctx context.Context, rt *di.Runtime, out io.Writer, asJSON bool, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: add <id> <name> <description> <cost>")
	}

	res, err := rt.Entry.Submit(ctx, client.AddRecord{
		ID:          args[0],
		Name:        args[1],
		Description: args[2],
		Cost:        args[3],
	})
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "Added %s to slot %d\n", res.Record.ID, res.Slot)
	fmt.Fprintf(out, "Record Count: %d\n", res.Count)
	return nil
}

func runGet(rt *di.Runtime, out io.Writer, asJSON bool, arg string) error {
	slot, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid slot %q: must be an integer", arg)
	}

	record, err := rt.Store.ReadSlot(slot)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, client.Match{Slot: slot, Record: record})
	}
	return client.RenderRecord(out, record)
}

func runCount(rt *di.Runtime, out io.Writer, asJSON bool) error {
	count, err := rt.Store.SlotCount()
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, map[string]int64{"count": count})
	}
	fmt.Fprintf(out, "Record Count: %d\n", count)
	return nil
}

func runSearch(ctx context.Context, rt *di.Runtime, out io.Writer, asJSON bool, query string) error {
	res, err := rt.Search.Submit(ctx, client.SearchByName{Query: query})
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, res)
	}
	if err := res.Render(out); err != nil {
		return err
	}
	printCorrupt(out, res.Corrupt)
	return nil
}

func runScan(ctx context.Context, rt *di.Runtime, out io.Writer, asJSON bool) error {
	it, err := rt.Store.Scan()
	if err != nil {
		return err
	}
	defer it.Close()

	matches := []client.Match{}
	corrupt := []client.SlotFailure{}
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := it.Record()
		if err != nil {
			corrupt = append(corrupt, client.SlotFailure{Slot: it.Slot(), Err: err.Error()})
			continue
		}
		matches = append(matches, client.Match{Slot: it.Slot(), Record: record})
	}
	if err := it.Err(); err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, map[string]interface{}{"products": matches, "corrupt": corrupt})
	}
	for _, m := range matches {
		if err := client.RenderRecord(out, m.Record); err != nil {
			return err
		}
	}
	printCorrupt(out, corrupt)
	fmt.Fprintf(out, "Record Count: %d\n", it.Count())
	return nil
}

func printCorrupt(out io.Writer, corrupt []client.SlotFailure) {
	for _, c := range corrupt {
		fmt.Fprintf(out, "Slot %d is corrupt: %s\n", c.Slot, c.Err)
	}
}
