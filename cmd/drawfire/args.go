package main

import (
	"fmt"
	"strconv"
)

// ResolveArgs maps the positional arguments to the project folder and the
// vtk and gif switches (0 or 1). Missing arguments default to cwd, 0 and 0.
func ResolveArgs(args []string, cwd string) (folder string, vtk, gif bool, err error) {
	if len(args) > 3 {
		return "", false, false, fmt.Errorf("expected at most 3 arguments, got %d", len(args))
	}

	folder = cwd
	if len(args) > 0 {
		folder = args[0]
	}

	switches := [2]bool{}
	for i := 1; i < len(args); i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil || (n != 0 && n != 1) {
			return "", false, false, fmt.Errorf("argument %d must be 0 or 1, got %q", i+1, args[i])
		}
		switches[i-1] = n == 1
	}
	return folder, switches[0], switches[1], nil
}
