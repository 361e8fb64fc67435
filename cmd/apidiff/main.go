package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and reports a failure on stderr.
func execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprint(rootCmd.ErrOrStderr(), formatError(err))
	}
	return err
}
