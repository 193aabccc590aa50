package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/escrowd"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and command line arguments
// except the program name and the command name. It is the responsibility of
// the command function to parse the arguments using the flag package. Use
// os.Stderr to write error messages.
//
// All commands operating on the chain state open the database stored in the
// home directory, process at most one transaction as a single block and close
// the database before returning.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"create-escrow":  cmdCreateEscrow,
	"init":           cmdInit,
	"keyaddr":        cmdKeyaddr,
	"keygen":         cmdKeygen,
	"refund-escrow":  cmdRefundEscrow,
	"release-escrow": cmdReleaseEscrow,
	"version":        cmdVersion,
	"view-escrow":    cmdViewEscrow,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line escrow ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, escrowd.Version())
	return err
}

// env returns the value of given environment variable or the fallback.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
