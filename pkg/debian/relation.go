package debian

import "strings"

// Relation is one entry of a dependency field such as Depends or
// Suggests. Alternatives holds the remaining choices of an "a | b" entry.
type Relation struct {
	Name         string     `json:"name" yaml:"name"`
	Arch         string     `json:"arch,omitempty" yaml:"arch,omitempty"`
	Op           string     `json:"op,omitempty" yaml:"op,omitempty"`
	Version      string     `json:"version,omitempty" yaml:"version,omitempty"`
	Alternatives []Relation `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// String renders the relation the way it appears in control files.
func (r Relation) String() string {
	var sb strings.Builder
	r.writeSingle(&sb)
	for _, alt := range r.Alternatives {
		sb.WriteString(" | ")
		alt.writeSingle(&sb)
	}
	return sb.String()
}

// Names returns the package name followed by the alternative names.
func (r Relation) Names() []string {
	names := []string{r.Name}
	for _, alt := range r.Alternatives {
		names = append(names, alt.Name)
	}
	return names
}

func (r Relation) writeSingle(sb *strings.Builder) {
	sb.WriteString(r.Name)
	if r.Arch != "" {
		sb.WriteString(":")
		sb.WriteString(r.Arch)
	}
	if r.Op != "" {
		sb.WriteString(" (")
		sb.WriteString(r.Op)
		sb.WriteString(" ")
		sb.WriteString(r.Version)
		sb.WriteString(")")
	}
}

// ParseRelations parses a comma-separated dependency field. Architecture
// restrictions ("[amd64]") and build profiles ("<!nocheck>") are dropped.
func ParseRelations(s string) []Relation {
	var result []Relation
	for _, part := range strings.Split(s, ",") {
		var rel *Relation
		for _, alt := range strings.Split(part, "|") {
			single, ok := parseSingle(alt)
			if !ok {
				continue
			}
			if rel == nil {
				rel = &single
				continue
			}
			rel.Alternatives = append(rel.Alternatives, single)
		}
		if rel != nil {
			result = append(result, *rel)
		}
	}
	return result
}

func parseSingle(s string) (Relation, bool) {
	s = strings.TrimSpace(dropQualifiers(s))

	var rel Relation
	if open := strings.Index(s, "("); open != -1 {
		constraint := s[open+1:]
		if end := strings.Index(constraint, ")"); end != -1 {
			constraint = constraint[:end]
		}
		rel.Op, rel.Version = splitConstraint(strings.TrimSpace(constraint))
		s = strings.TrimSpace(s[:open])
	}
	if s == "" {
		return Relation{}, false
	}
	rel.Name, rel.Arch, _ = strings.Cut(s, ":")
	return rel, true
}

// dropQualifiers removes architecture restrictions and build profiles.
// Brackets inside a version constraint such as "(<< 2.0)" are kept.
func dropQualifiers(s string) string {
	var sb strings.Builder
	depth := 0
	inParen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(':
			inParen = true
		case c == ')':
			inParen = false
		case !inParen && (c == '[' || c == '<'):
			depth++
			continue
		case !inParen && (c == ']' || c == '>') && depth > 0:
			depth--
			continue
		}
		if depth == 0 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

var operators = []string{"<<", "<=", ">=", ">>", "=", "<", ">"}

func splitConstraint(c string) (op, version string) {
	for _, candidate := range operators {
		if strings.HasPrefix(c, candidate) {
			return candidate, strings.TrimSpace(c[len(candidate):])
		}
	}
	return "", c
}
