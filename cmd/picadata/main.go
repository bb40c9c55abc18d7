package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	isatty "github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/logger"
	"github.com/teranos/picadata/pica/format"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if !isTerminal(stderr) {
		pterm.DisableStyling()
	}

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(normalizeArgs(args))
	if err := cmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// switches are the shorthands that take no value and may precede -t in a
// cluster such as -ct
const switches = "cuv?"

// normalizeArgs attaches a type name following --to or -t, which takes an
// optional value and would otherwise leave the name as the FILE argument.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		if i+1 < len(args) {
			if rest, ok := toFlag(a); ok {
				if _, known := format.Lookup(args[i+1]); known {
					if rest != "" {
						out = append(out, "-"+rest)
					}
					out = append(out, "--to="+args[i+1])
					i++
					continue
				}
			}
		}
		out = append(out, a)
	}
	return out
}

// toFlag reports whether a ends with the --to flag and returns the switches
// clustered in front of it
func toFlag(a string) (string, bool) {
	if a == "--to" || a == "-t" {
		return "", true
	}
	if len(a) < 3 || a[0] != '-' || a[1] == '-' || a[len(a)-1] != 't' {
		return "", false
	}
	rest := a[1 : len(a)-1]
	for i := 0; i < len(rest); i++ {
		if !strings.ContainsRune(switches, rune(rest[i])) {
			return "", false
		}
	}
	return rest, true
}

// printError renders a fatal error and its hints
func printError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
	logger.Debugw("Fatal error", logger.FieldError, errors.FlattenDetails(err), "stack", stackTrace(err))
}

func stackTrace(err error) string {
	return fmt.Sprintf("%+v", err)
}

// stdinIsTerminal decides whether FILE-less invocations print usage
var stdinIsTerminal = isTerminal

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
