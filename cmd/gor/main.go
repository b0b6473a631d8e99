// Command gor is the read-eval-print front end for the interpreter
// (§6.1, §6.5): it either evaluates a script file and exits, or drops
// into an interactive loop that echoes each top-level value the way a
// terminal session would expect.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gor-lang/gor/interp"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		locale      string
		historyFile string
		warranty    bool
		experiment  []string
	)

	root := &cobra.Command{
		Use:           "gor [file]",
		Short:         "Run or interactively evaluate a gor script",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := interp.Options{
				Locale:      locale,
				HistoryFile: historyFile,
				Warranty:    warranty,
				Experiments: experimentSet(experiment),
			}
			if warranty {
				fmt.Fprintln(cmd.OutOrStdout(), warrantyNotice)
				return nil
			}
			sess := interp.NewSession(opts)
			sess.Out = cmd.OutOrStdout()

			if len(args) == 1 {
				return runFile(sess, args[0])
			}
			return runREPL(sess)
		},
	}

	root.Flags().StringVar(&locale, "locale", "en", "keyword vocabulary for parsing")
	root.Flags().StringVar(&historyFile, "history-file", "", "path for REPL history")
	root.Flags().BoolVar(&warranty, "warranty", false, "display the long license notice and exit")
	root.Flags().StringArrayVar(&experiment, "experiment", nil, "enable a named experimental parse rule")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by the REPL/script runners so RunE's plain error
// return (which cobra always treats as exit 1) doesn't have to carry
// the exact code; Terminate and clean EOF both want exit 0 even though
// they unwind through the same return path as a script error.
var exitCode int

func experimentSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

const warrantyNotice = `gor comes with ABSOLUTELY NO WARRANTY. This is free software, and you
are welcome to redistribute it under the terms of its license.`

// runFile evaluates an entire script file as one source unit and
// reports an uncaught error, matching the non-interactive exit
// contract of §6.5.
func runFile(sess *interp.Session, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		exitCode = 1
		return err
	}
	_, sig := sess.Eval(string(content))
	if sig == nil {
		exitCode = 0
		return nil
	}
	if sig.IsTerminate() {
		exitCode = 0
		return nil
	}
	fmt.Fprintln(os.Stderr, interp.FormatError(sig))
	exitCode = 1
	return nil
}

// runREPL reads one line at a time. When stdin is a terminal it prints
// a prompt and echoes each top-level value; when stdin is piped it
// evaluates each line with no prompt and no echo (§6.1).
func runREPL(sess *interp.Session) error {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if interactive {
			fmt.Fprint(sess.Out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		val, sig := sess.Eval(line)
		if sig != nil {
			if sig.IsTerminate() {
				exitCode = 0
				return nil
			}
			if sig.Kind == interp.SignalError {
				fmt.Fprintln(os.Stderr, interp.FormatError(sig))
				continue
			}
			continue
		}
		if interactive && val != nil {
			fmt.Fprintln(sess.Out, val.String())
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		exitCode = 1
		return err
	}
	exitCode = 0
	return nil
}
