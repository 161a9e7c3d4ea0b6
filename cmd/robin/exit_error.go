package main

import "fmt"

// Exit codes besides 0, 1 and 130
const (
	exitRejected = 2 // the query was refused before or by the server
	exitNotFound = 3 // a repository or team lookup came up empty
)

type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}
