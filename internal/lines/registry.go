// Package lines maps public subway line labels to the feed group that
// publishes them and to the route id used inside that feed.
package lines

import (
	"fmt"
	"sort"
)

// UnknownLineError is returned for a line outside the registry
type UnknownLineError struct {
	Line string
}

func (e *UnknownLineError) Error() string {
	return fmt.Sprintf("unknown subway line %q", e.Line)
}

// Registry is an immutable line table. Build one with NewRegistry or Default
// and pass it to the components that need it.
type Registry struct {
	groups    map[string]string
	overrides map[string]string
	lines     []string
}

// NewRegistry copies the given tables. overrides only needs entries for
// lines whose route id differs from the line label.
func NewRegistry(groups map[string]string, overrides map[string]string) *Registry {
	r := &Registry{
		groups:    make(map[string]string, len(groups)),
		overrides: make(map[string]string, len(overrides)),
		lines:     make([]string, 0, len(groups)),
	}
	for line, group := range groups {
		r.groups[line] = group
		r.lines = append(r.lines, line)
	}
	for line, route := range overrides {
		r.overrides[line] = route
	}
	sort.Strings(r.lines)
	return r
}

// FeedGroup returns the endpoint suffix of the feed that carries line
func (r *Registry) FeedGroup(line string) (string, error) {
	group, ok := r.groups[line]
	if !ok {
		return "", &UnknownLineError{Line: line}
	}
	return group, nil
}

// RouteID returns the route id used for line inside its feed
func (r *Registry) RouteID(line string) (string, error) {
	if _, ok := r.groups[line]; !ok {
		return "", &UnknownLineError{Line: line}
	}
	if route, ok := r.overrides[line]; ok {
		return route, nil
	}
	return line, nil
}

// FeedURL joins baseURL and the line's group suffix
func (r *Registry) FeedURL(baseURL, line string) (string, error) {
	group, err := r.FeedGroup(line)
	if err != nil {
		return "", err
	}
	return baseURL + group, nil
}

// Lines returns every known line in sorted order
func (r *Registry) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Groups returns the distinct feed group suffixes in sorted order
func (r *Registry) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range r.lines {
		g := r.groups[line]
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

// LinesInGroup returns the lines published by one feed group
func (r *Registry) LinesInGroup(group string) []string {
	var out []string
	for _, line := range r.lines {
		if r.groups[line] == group {
			out = append(out, line)
		}
	}
	return out
}
