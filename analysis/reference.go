// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/esvet/parser/token"
)

// Reference records one use of a name.
type Reference struct {
	Token *token.Token
	// Reassign is set for assignment targets.
	Reassign bool
	// Undef records whether undefined names were reported at the point of
	// use.
	Undef bool
	// Nested is set once the reference leaves the function it appeared in.
	Nested bool
}

func (ref *Reference) pos() int {
	if ref.Token == nil || ref.Token.Source == nil {
		return -1
	}
	return ref.Token.Source.Pos
}

// usage collects the unresolved references to a name within a frame.
type usage struct {
	refs []*Reference
}

func (u *usage) first() int {
	if len(u.refs) == 0 {
		return -1
	}
	return u.refs[0].pos()
}

// merge moves the references of other into u.
func (u *usage) merge(other *usage, leavingFunction bool) {
	for _, ref := range other.refs {
		if leavingFunction {
			ref.Nested = true
		}
		u.refs = append(u.refs, ref)
	}
}

// Unused describes a binding that was never referenced.
type Unused struct {
	Name   string
	Kind   SymbolKind
	Source *token.Location
}

// Implied describes an undeclared name that resolves to a global.
type Implied struct {
	Name  string
	Lines []int
}
