package layout

import "strconv"

// Version is a feature version such as 3.2.
type Version struct {
	Major uint32
	Minor uint32
}

// ParseVersion parses a version string like "3.2" or "4".
func ParseVersion(s string) (Version, bool) {
	if s == "" {
		return Version{}, false
	}

	var v Version
	part := 0
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '.' {
			continue
		}
		if i == start || part > 1 {
			return Version{}, false
		}
		n, ok := parseUint(s[start:i])
		if !ok {
			return Version{}, false
		}
		if part == 0 {
			v.Major = n
		} else {
			v.Minor = n
		}
		part++
		start = i + 1
	}
	return v, true
}

func parseUint(s string) (uint32, bool) {
	var n uint32
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		// Check for overflow before multiplication
		if n > 429496729 || (n == 429496729 && c > '5') {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
	}
	return n, true
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool {
	return !v.Less(o)
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return strconv.FormatUint(uint64(v.Major), 10) + "." + strconv.FormatUint(uint64(v.Minor), 10)
}

// Digits returns the version as it appears in artifact names, e.g. "32".
func (v Version) Digits() string {
	return strconv.FormatUint(uint64(v.Major), 10) + strconv.FormatUint(uint64(v.Minor), 10)
}
