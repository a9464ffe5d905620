// Package command implements the assinafy command-line tool.
package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/mitchellh/cli"

	"github.com/adamwoolhether/assinafy"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(stdin),
		Writer:      stdout,
		ErrorWriter: stderr,
	}

	return run(ctx, filepath.Base(args[0]), args[1:], ui, stderr)
}

func run(ctx context.Context, name string, args []string, ui cli.Ui, logOut io.Writer) int {
	if len(args) == 1 && slices.Contains([]string{"-version", "--version", "-v"}, args[0]) {
		args = []string{"version"}
	}

	m := &meta{ctx: ctx, ui: ui, logOut: logOut}

	c := &cli.CLI{
		Name:       name,
		Args:       args,
		Version:    assinafy.Version,
		Commands:   commands(m),
		HelpWriter: logOut,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(fmt.Sprintf("error running command: %v", err))
		return 1
	}

	return exitCode
}
