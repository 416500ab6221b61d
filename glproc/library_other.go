//go:build !darwin && !(linux && !android)

package glproc

import (
	"fmt"
	"runtime"
)

func defaultResolver(string) (uintptr, error) {
	return 0, fmt.Errorf("%w on %s: install one with SetResolver", ErrNoLibrary, runtime.GOOS)
}
