package packages

import (
	"fmt"
	"strconv"
	"strings"
)

// NuGetVersion is a parsed package version: SemVer 2.0
// (Major.Minor.Patch[-Prerelease][+Metadata]) or a legacy four-part
// Major.Minor.Build.Revision.
type NuGetVersion struct {
	Major    int
	Minor    int
	Patch    int
	Revision int

	// ReleaseLabels holds the dot-separated prerelease labels.
	ReleaseLabels []string

	// Metadata is ignored when comparing.
	Metadata string
}

// ParseVersion parses s. Version ranges, floating versions and MSBuild
// property references are rejected.
func ParseVersion(s string) (*NuGetVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	v := &NuGetVersion{}
	versionPart, metadata, _ := strings.Cut(s, "+")
	v.Metadata = metadata

	numberPart, labels, hasLabels := strings.Cut(versionPart, "-")
	if hasLabels {
		if labels == "" {
			return nil, fmt.Errorf("invalid version format: %q", s)
		}
		v.ReleaseLabels = strings.Split(labels, ".")
	}

	numbers := strings.Split(numberPart, ".")
	if len(numbers) < 1 || len(numbers) > 4 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}
	fields := []*int{&v.Major, &v.Minor, &v.Patch, &v.Revision}
	for i, n := range numbers {
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("invalid version format: %q", s)
		}
		*fields[i] = value
	}

	return v, nil
}

// Normalize renders the version the way NuGet compares it: three parts,
// a fourth only when non-zero, labels kept, metadata dropped.
func (v *NuGetVersion) Normalize() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Revision > 0 {
		s += "." + strconv.Itoa(v.Revision)
	}
	if len(v.ReleaseLabels) > 0 {
		s += "-" + strings.Join(v.ReleaseLabels, ".")
	}
	return s
}

// Compare returns -1, 0 or 1. A prerelease sorts before its release;
// labels compare numerically when both are numbers, otherwise
// case-insensitively.
func (v *NuGetVersion) Compare(other *NuGetVersion) int {
	for _, pair := range [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
		{v.Revision, other.Revision},
	} {
		if c := compareInt(pair[0], pair[1]); c != 0 {
			return c
		}
	}

	switch {
	case len(v.ReleaseLabels) == 0 && len(other.ReleaseLabels) == 0:
		return 0
	case len(v.ReleaseLabels) == 0:
		return 1
	case len(other.ReleaseLabels) == 0:
		return -1
	}

	for i := 0; i < len(v.ReleaseLabels) && i < len(other.ReleaseLabels); i++ {
		if c := compareLabel(v.ReleaseLabels[i], other.ReleaseLabels[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(v.ReleaseLabels), len(other.ReleaseLabels))
}

func compareLabel(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return compareInt(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareVersions compares two version strings. ok is false when either
// does not parse as a plain version.
func CompareVersions(a, b string) (cmp int, ok bool) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, false
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, false
	}
	return va.Compare(vb), true
}

// versionRelation describes pinned relative to central for messages.
func versionRelation(pinned, central string) string {
	cmp, ok := CompareVersions(pinned, central)
	if !ok {
		return ""
	}
	switch cmp {
	case -1:
		return " The pinned version is older than the central version."
	case 1:
		return " The pinned version is newer than the central version."
	}
	return " The pinned version is equivalent to the central version."
}
