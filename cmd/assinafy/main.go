// Command assinafy drives the Assinafy API from the shell.
package main

import (
	"os"

	"github.com/adamwoolhether/assinafy/internal/command"
)

func main() {
	os.Exit(command.Main(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
