//go:build !windows

package view

import "errors"

func makeClickThrough(string) error {
	return errors.New("click-through overlay needs windows")
}
