//go:build darwin || (linux && !android)

package glproc

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
)

// LibraryEnv overrides the OpenGL library opened by the default resolver.
const LibraryEnv = "GLBIND_GL_LIBRARY"

var (
	libOnce        sync.Once
	libHandle      uintptr
	libErr         error
	getProcAddress func(*byte) uintptr
)

func libraryCandidates() []string {
	if p := os.Getenv(LibraryEnv); p != "" {
		return []string{p}
	}
	if runtime.GOOS == "darwin" {
		return []string{"/System/Library/Frameworks/OpenGL.framework/OpenGL"}
	}
	return []string{"libGL.so.1", "libGL.so", "libOpenGL.so.0"}
}

func openLibrary() {
	var failures []string
	for _, name := range libraryCandidates() {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		libHandle = h
		break
	}
	if libHandle == 0 {
		libErr = fmt.Errorf("%w: %s", ErrNoLibrary, strings.Join(failures, "; "))
		return
	}

	// GLX exposes extension entry points only through its lookup function.
	if runtime.GOOS == "linux" {
		if addr, err := purego.Dlsym(libHandle, "glXGetProcAddressARB"); err == nil && addr != 0 {
			purego.RegisterFunc(&getProcAddress, addr)
		}
	}
}

func defaultResolver(name string) (uintptr, error) {
	libOnce.Do(openLibrary)
	if libErr != nil {
		return 0, libErr
	}
	if addr, err := purego.Dlsym(libHandle, name); err == nil && addr != 0 {
		return addr, nil
	}
	if getProcAddress != nil {
		cname := append([]byte(name), 0)
		addr := getProcAddress(&cname[0])
		runtime.KeepAlive(cname)
		if addr != 0 {
			return addr, nil
		}
	}
	return 0, nil
}
