package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "havelock> "

// shellCommand - интерактивный режим: одна сессия, общий кэш и исполнители
// мутаций для всех введенных команд
func (rt *runtime) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively with a shared cache",
		Long: `Starts an interactive prompt. Every line is run as a havelock-admin command.
Data loaded by one command is reused by the next until a change invalidates it.
Type "help" for the command list and "exit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.inShell {
				return errors.New("already in shell")
			}
			rt.inShell = true
			defer func() { rt.inShell = false }()

			ctx := cmd.Context()
			out := rt.opts.IO
			out.Println("Havelock admin shell. Type 'help' for commands, 'exit' to quit.")
			for {
				if err := ctx.Err(); err != nil {
					return nil
				}
				line, err := out.ReadInput(shellPrompt)
				if errors.Is(err, io.EOF) {
					out.Println()
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to read command: %w", err)
				}

				args := strings.Fields(line)
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}

				sub := rt.root()
				sub.SetArgs(args)
				if err := sub.ExecuteContext(ctx); err != nil && !errors.Is(err, ErrReported) {
					_, _ = fmt.Fprintf(rt.opts.Stderr, "Error: %v\n", err)
				}
			}
		},
	}
}
