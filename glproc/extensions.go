package glproc

import (
	"strings"
	"unsafe"
)

const (
	glExtensions    = 0x1F03
	glNumExtensions = 0x821D
)

var (
	procGetIntegerv = New("glGetIntegerv")
	procGetString   = New("glGetString")
	procGetStringi  = New("glGetStringi")
)

// contextExtensions reads the extension list of the current context. Contexts
// from 3.0 on enumerate it with glGetStringi; older ones return one
// space-separated string.
func contextExtensions() ([]string, error) {
	if procGetIntegerv.Available() && procGetStringi.Available() {
		var n int32
		Load[func(uint32, *int32)](procGetIntegerv)(glNumExtensions, &n)
		if n > 0 {
			getStringi := Load[func(uint32, uint32) *byte](procGetStringi)
			out := make([]string, 0, n)
			for i := int32(0); i < n; i++ {
				if s := goString(getStringi(glExtensions, uint32(i))); s != "" {
					out = append(out, s)
				}
			}
			return out, nil
		}
	}

	if _, err := procGetString.Addr(); err != nil {
		return nil, err
	}
	return strings.Fields(goString(Load[func(uint32) *byte](procGetString)(glExtensions))), nil
}

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
