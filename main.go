package main

import (
	"fmt"
	"io"
	"os"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	exit(RealMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// RealMain runs the command line and returns the process exit code.
func RealMain(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCmd(in, out, errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
