// Package layout names the generated artifacts and owns the closed table that maps a
// (feature, profile) pair to the artifact receiving its symbols.
//
// Artifact names are hierarchical, dot separated: "Core33", "Ext.ARB.DebugOutput",
// "Internal.Shared". Profile artifacts form inheritance chains through their preludes:
// Core33 re-exports Core32, Compatibility33 re-exports Compatibility32 and Core33.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/glbind/errors"
)

// Fixed artifacts that exist independently of the registry.
const (
	Shared = "Internal.Shared" // shared bindings promoted out of their owners
	FFI    = "Internal.FFI"    // per-signature call helpers
	Proc   = "Internal.Proc"   // native lookup runtime
	Types  = "Types"           // type vocabulary
	ExtAll = "Ext"             // top-level extension aggregate
)

// Profile names recognised in require/remove entries.
const (
	ProfileNone   = ""
	ProfileCore   = "core"
	ProfileCompat = "compatibility"
	ProfileCommon = "common"
)

// Target is the record the version table yields for a (feature, profile) pair.
type Target struct {
	// Artifact receives required symbols and loses removed ones.
	Artifact string
	// Also receives required symbols too (pre-3.2 universal features land in Core32).
	Also []string
	// Fallback receives symbols removed from Artifact, if set.
	Fallback string
}

type family int

const (
	familyStandard family = iota
	familyCore
	familyCompat
	familyEmbedded
)

var familyPrefix = [...]string{
	familyStandard: "Standard",
	familyCore:     "Core",
	familyCompat:   "Compatibility",
	familyEmbedded: "Embedded",
}

type profileArtifact struct {
	name    string
	family  family
	version Version
}

type key struct {
	feature string
	profile string
}

// coreSplit is the first desktop version with core and compatibility profiles.
var coreSplit = Version{3, 2}

var (
	desktopVersions = []string{
		"1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "2.0", "2.1", "3.0", "3.1",
		"3.2", "3.3", "4.0", "4.1", "4.2", "4.3", "4.4", "4.5", "4.6",
	}
	embeddedVersions = []string{"2.0", "3.0", "3.1", "3.2"}
)

// table is the closed (feature, profile) mapping; artifacts lists every profile
// artifact a feature may touch. Both are built once from the version lists above.
var (
	table     map[key]Target
	artifacts map[string][]profileArtifact
)

func init() {
	table = make(map[key]Target)
	artifacts = make(map[string][]profileArtifact)

	core32 := profileArtifact{name: familyPrefix[familyCore] + coreSplit.Digits(), family: familyCore, version: coreSplit}

	for _, s := range desktopVersions {
		v, _ := ParseVersion(s)
		feature := fmt.Sprintf("GL_VERSION_%d_%d", v.Major, v.Minor)
		if v.Less(coreSplit) {
			std := newArtifact(familyStandard, v)
			table[key{feature, ProfileNone}] = Target{Artifact: std.name, Also: []string{core32.name}}
			artifacts[feature] = []profileArtifact{std, core32}
			continue
		}
		core := newArtifact(familyCore, v)
		compat := newArtifact(familyCompat, v)
		table[key{feature, ProfileNone}] = Target{Artifact: core.name, Fallback: compat.name}
		table[key{feature, ProfileCore}] = Target{Artifact: core.name, Fallback: compat.name}
		table[key{feature, ProfileCompat}] = Target{Artifact: compat.name}
		artifacts[feature] = []profileArtifact{core, compat}
	}

	for _, s := range embeddedVersions {
		v, _ := ParseVersion(s)
		feature := fmt.Sprintf("GL_ES_VERSION_%d_%d", v.Major, v.Minor)
		es := newArtifact(familyEmbedded, v)
		table[key{feature, ProfileNone}] = Target{Artifact: es.name}
		table[key{feature, ProfileCommon}] = Target{Artifact: es.name}
		artifacts[feature] = []profileArtifact{es}
	}
}

func newArtifact(f family, v Version) profileArtifact {
	return profileArtifact{name: familyPrefix[f] + v.Digits(), family: f, version: v}
}

// Lookup returns the table record for a (feature, profile) pair. Unmapped pairs are
// a configuration error: the table must cover every version the registry declares.
func Lookup(feature, profile string) (Target, error) {
	t, ok := table[key{feature, profile}]
	if !ok {
		return Target{}, errors.UnknownProfile(feature, profile)
	}
	return t, nil
}

// Layout is the set of profile artifacts for one registry, with their preludes.
type Layout struct {
	names    []string
	prelude  map[string][]string
	families map[string]profileArtifact
}

// New builds the layout for the given feature names. Every feature must be in the
// version table; the prelude of each artifact is the nearest lower registered
// artifact of its family (plus CoreXY for CompatibilityXY).
func New(features []string) (*Layout, error) {
	l := &Layout{
		prelude:  make(map[string][]string),
		families: make(map[string]profileArtifact),
	}
	for _, f := range features {
		arts, ok := artifacts[f]
		if !ok {
			return nil, errors.UnknownProfile(f, ProfileNone)
		}
		for _, a := range arts {
			l.families[a.name] = a
		}
	}

	byFamily := make(map[family][]profileArtifact)
	for name, a := range l.families {
		l.names = append(l.names, name)
		byFamily[a.family] = append(byFamily[a.family], a)
	}
	sort.Strings(l.names)

	for _, arts := range byFamily {
		sort.Slice(arts, func(i, j int) bool { return arts[i].version.Less(arts[j].version) })
		for i, a := range arts {
			var pre []string
			if i > 0 {
				pre = append(pre, arts[i-1].name)
			}
			if a.family == familyCompat {
				core := familyPrefix[familyCore] + a.version.Digits()
				if _, ok := l.families[core]; ok {
					pre = append(pre, core)
				}
			}
			if len(pre) > 0 {
				l.prelude[a.name] = pre
			}
		}
	}
	return l, nil
}

// Artifacts returns every profile artifact name, sorted.
func (l *Layout) Artifacts() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Has reports whether name is a profile artifact of this layout.
func (l *Layout) Has(name string) bool {
	_, ok := l.families[name]
	return ok
}

// Prelude returns the artifacts name directly re-exports.
func (l *Layout) Prelude(name string) []string {
	pre := l.prelude[name]
	if len(pre) == 0 {
		return nil
	}
	out := make([]string, len(pre))
	copy(out, pre)
	return out
}

// Chain returns every artifact name transitively re-exports, nearest first,
// without duplicates.
func (l *Layout) Chain(name string) []string {
	var out []string
	seen := map[string]bool{name: true}
	queue := append([]string(nil), l.prelude[name]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, l.prelude[next]...)
	}
	return out
}

// Segments splits a hierarchical artifact name.
func Segments(name string) []string {
	return strings.Split(name, ".")
}
