package fhir

import (
	"strings"
)

// Include is a parsed _include parameter value. The wire form is
// "SourceType:searchParam" or "SourceType:searchParam:targetType"; the
// single value "*" matches everything.
type Include struct {
	Source  string
	Param   string
	Target  string
	Iterate bool // from the :iterate modifier on the parameter name
}

// ParseInclude parses an _include parameter value.
func ParseInclude(value string) Include {
	value = strings.TrimSpace(value)
	if value == "*" {
		return Include{Source: "*"}
	}
	parts := strings.SplitN(value, ":", 3)
	inc := Include{Source: parts[0]}
	if len(parts) > 1 {
		inc.Param = parts[1]
	}
	if len(parts) > 2 {
		inc.Target = parts[2]
	}
	return inc
}

// ParseIncludes parses a set of _include values, marking each with the
// iterate flag.
func ParseIncludes(values []string, iterate bool) []Include {
	out := make([]Include, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		inc := ParseInclude(v)
		inc.Iterate = iterate
		out = append(out, inc)
	}
	return out
}

// Matches reports whether the include spec covers the given reference.
func (inc Include) Matches(ref Reference) bool {
	if inc.Source == "*" {
		return true
	}
	if inc.Source != ref.Source {
		return false
	}
	if inc.Param != "" && inc.Param != "*" && inc.Param != ref.ParamName() {
		return false
	}
	if inc.Target != "" && ref.Target != nil && ref.Target.TypeName() != inc.Target {
		return false
	}
	return true
}

// InclusionRule decides whether a referenced-but-not-requested resource
// is pulled into the bundle. A nil rule means include everything that
// resolves.
type InclusionRule func(ref Reference, includes []Include) bool

// IncludeAll accepts every resolvable reference regardless of the
// request's _include set.
func IncludeAll(ref Reference, includes []Include) bool { return true }

// BasedOnIncludes accepts a reference only when some include spec from
// the request matches it.
func BasedOnIncludes(ref Reference, includes []Include) bool {
	for _, inc := range includes {
		if inc.Matches(ref) {
			return true
		}
	}
	return false
}
