package registry

import "strings"

// FilterAPIs returns a shallow copy of r keeping only features whose API is in apis
// and extensions supported by at least one of them. An empty apis keeps everything.
func (r *Registry) FilterAPIs(apis []string) *Registry {
	if len(apis) == 0 {
		return r
	}
	want := make(map[string]bool, len(apis))
	for _, a := range apis {
		want[a] = true
	}

	out := *r
	out.Features = nil
	for _, f := range r.Features {
		if want[f.API] {
			out.Features = append(out.Features, f)
		}
	}
	out.Extensions = nil
	for _, x := range r.Extensions {
		if x.SupportedBy(want) {
			out.Extensions = append(out.Extensions, x)
		}
	}
	return &out
}

// FilterExtensions returns a shallow copy of r keeping extensions for which keep is true.
func (r *Registry) FilterExtensions(keep func(name string) bool) *Registry {
	out := *r
	out.Extensions = nil
	for _, x := range r.Extensions {
		if keep(x.Name) {
			out.Extensions = append(out.Extensions, x)
		}
	}
	return &out
}

// SupportedBy reports whether the extension's support list names one of apis.
// "glcore" counts as "gl". An empty support list matches everything.
func (x Extension) SupportedBy(apis map[string]bool) bool {
	if x.Supported == "" {
		return true
	}
	for _, s := range strings.Split(x.Supported, "|") {
		if s == "glcore" {
			s = "gl"
		}
		if apis[s] {
			return true
		}
	}
	return false
}
