package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"paydates/internal/export"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// User-facing messages.
const (
	MsgInvalidFilename = "The filename is invalid."
	MsgSaved           = "The file with 'Salary dates' data has been saved."
)

var ErrUsage = errors.New("usage: paydates [filename]")

// ParseArgs returns the normalized output filename from the command line
// arguments (without the program name). With no argument the default
// filename is used. Any argument other than a help flag is taken as the
// filename, so names starting with '-' are accepted; "--" ends option
// parsing. An invalid name returns an error wrapping export.ErrInvalidFilename;
// -h and --help print usage and return flag.ErrHelp.
func ParseArgs(args []string, output io.Writer) (string, error) {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			printUsage(output)
			return "", flag.ErrHelp
		case "--":
			args = args[1:]
		}
	}

	switch len(args) {
	case 0:
		return export.DefaultFilename, nil
	case 1:
		return export.PrepareFilename(args[0])
	default:
		return "", ErrUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: paydates [filename]\n\n"+
		"Writes salary and bonus payment dates for the coming months to a CSV file\n"+
		"(default %q). The name may contain only letters, digits, '_', '.' and '-'.\n",
		export.DefaultFilename)
}
