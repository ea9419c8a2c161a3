package resolution

import "strings"

// Path is the immutable ancestry of registrations traversed in one resolve
// call tree. The zero value is the empty path.
//
// Paths share structure: CreateChild allocates one node and points it at the
// receiver, so siblings never observe each other's extensions.
type Path struct {
	head *pathNode
}

type pathNode struct {
	reg    Registration
	parent *pathNode
	depth  int
}

// CreateChild returns p extended with reg. p itself is unchanged.
func (p Path) CreateChild(reg Registration) Path {
	depth := 1
	if p.head != nil {
		depth = p.head.depth + 1
	}
	return Path{head: &pathNode{reg: reg, parent: p.head, depth: depth}}
}

// Len returns the number of registrations on the path.
func (p Path) Len() int {
	if p.head == nil {
		return 0
	}
	return p.head.depth
}

// IsEmpty reports whether the path has no registrations.
func (p Path) IsEmpty() bool { return p.head == nil }

// Top returns the most recently traversed registration.
func (p Path) Top() (Registration, bool) {
	if p.head == nil {
		return nil, false
	}
	return p.head.reg, true
}

// Contains reports whether reg is already on the path (identity comparison).
func (p Path) Contains(reg Registration) bool {
	if reg == nil {
		return false
	}
	for n := p.head; n != nil; n = n.parent {
		if n.reg == reg {
			return true
		}
	}
	return false
}

// Registrations returns the path root-first.
func (p Path) Registrations() []Registration {
	out := make([]Registration, p.Len())
	i := len(out) - 1
	for n := p.head; n != nil; n = n.parent {
		out[i] = n.reg
		i--
	}
	return out
}

// String renders the path as "a -> b -> c".
func (p Path) String() string {
	regs := p.Registrations()
	if len(regs) == 0 {
		return "<root>"
	}
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = Describe(r)
	}
	return strings.Join(parts, " -> ")
}
