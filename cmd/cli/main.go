package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit-code of 10 stands for solved (or valid), 20 for infeasible and 15 for a schedule that failed verification
const (
	exitSolved     = 10
	exitVerifyFail = 15
	exitInfeasible = 20
)

type exitError struct {
	code int
}

func (err exitError) Error() string {
	return fmt.Sprintf("exit status %d", err.code)
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	err := root.Execute()

	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
