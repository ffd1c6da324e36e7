//go:build !linux

package main

import (
	"errors"
	"io"
)

func runList(_ []string, _, _ io.Writer) error {
	return errors.New("list is only supported on Linux")
}
