package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/di"
)

const shellPrompt = "prodfile> "

var shellHelp = []string{
	"add <id> <name> <description> <cost>",
	"search <name>",
	"get <slot>",
	"count",
	"help",
	"quit",
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session against the data file",
		Long: `Start an interactive session that keeps the data file open. Words are
split like a POSIX shell, so quote fields that contain spaces.

Example session:
  prodfile> add P001 Widget "A small widget" 19.99
  prodfile> search widget
  prodfile> quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), rt, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runShell reads commands from in until quit or EOF. Command errors are
// printed and the session continues.
func runShell(ctx context.Context, rt *di.Runtime, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		args, err := shellquote.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		quit, err := shellExec(ctx, rt, out, args)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func shellExec(ctx context.Context, rt *di.Runtime, out io.Writer, args []string) (bool, error) {
	switch strings.ToLower(args[0]) {
	case "add":
		return false, runAdd(ctx, rt, out, false, args[1:])
	case "search":
		return false, runSearch(ctx, rt, out, false, strings.Join(args[1:], " "))
	case "get":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: get <slot>")
		}
		return false, runGet(rt, out, false, args[1])
	case "count":
		return false, runCount(rt, out, false)
	case "help":
		for _, line := range shellHelp {
			fmt.Fprintf(out, "  %s\n", line)
		}
		return false, nil
	case "quit", "exit":
		return true, rt.Store.Sync()
	default:
		return false, fmt.Errorf("unknown command %q (try help)", args[0])
	}
}
