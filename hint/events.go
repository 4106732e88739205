// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/parser/token"
)

// Events lets embedders observe a parse without changing it.  Handlers are
// called synchronously from the parsing goroutine; nil handlers are
// skipped.
type Events struct {
	Identifier func(name string, tok *token.Token)
	String     func(value string, tok *token.Token)
	Number     func(value string, tok *token.Token)
	Diagnostic func(d *Diagnostic)
}

func (s *Session) fireToken(n *Node) {
	ev := s.cfg.Events
	if ev == nil {
		return
	}
	switch n.Type {
	case token.IDENT:
		if ev.Identifier != nil && !n.sym.Reserved {
			ev.Identifier(n.Value, n.Token)
		}
	case token.STRING:
		if ev.String != nil {
			ev.String(n.Value, n.Token)
		}
	case token.NUMBER:
		if ev.Number != nil {
			ev.Number(n.Value, n.Token)
		}
	}
}
