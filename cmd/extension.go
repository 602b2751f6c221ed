package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables carrying the global flags to extensions.
const (
	EnvConfigFile = "CGT_CONFIG_FILE"
	EnvEnvFile    = "CGT_ENV_FILE"
	EnvVerbose    = "CGT_VERBOSE"
)

// ExtensionPrefix prefixes the name of the binaries run for unknown
// subcommands.
const ExtensionPrefix = "cgt-"

// RunExtension runs the cgt-<subcommand> binary found in PATH with args.
//
// It reports whether such a binary was found, and its exit code.
func RunExtension(subcommand string, args []string) (found bool, code int) {
	name := ExtensionPrefix + subcommand
	path, err := exec.LookPath(name)
	if err != nil {
		log.Printf("no extension %q in PATH: %v", name, err)
		return false, 0
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvEnvFile+"="+*envFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, 0
	case errors.As(err, &exitErr):
		return true, exitErr.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "Error running extension %q: %v\n", name, err)
		return true, 1
	}
}
