// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/esvet/hint"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request.  It returns the functions of the document, nested the way they
// are nested in the source.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	res := s.ensureResult(doc)
	return functionSymbols(res.Functions), nil
}

// functionSymbols builds the symbol tree of functions.  Functions are
// listed in source order, so a parent always precedes its children.
func functionSymbols(fns []*hint.Functor) []protocol.DocumentSymbol {
	type entry struct {
		sym      protocol.DocumentSymbol
		children []int
	}
	index := make(map[*hint.Functor]int, len(fns))
	entries := make([]entry, 0, len(fns))
	var roots []int
	for _, f := range fns {
		if f.Line == 0 {
			continue
		}
		i := len(entries)
		index[f] = i
		entries = append(entries, entry{sym: functionSymbol(f)})
		if p, ok := index[f.Parent()]; ok {
			entries[p].children = append(entries[p].children, i)
		} else {
			roots = append(roots, i)
		}
	}
	var build func(i int) protocol.DocumentSymbol
	build = func(i int) protocol.DocumentSymbol {
		sym := entries[i].sym
		for _, c := range entries[i].children {
			sym.Children = append(sym.Children, build(c))
		}
		return sym
	}
	symbols := make([]protocol.DocumentSymbol, 0, len(roots))
	for _, i := range roots {
		symbols = append(symbols, build(i))
	}
	return symbols
}

func functionSymbol(f *hint.Functor) protocol.DocumentSymbol {
	start := toLSPPosition(f.Line, f.Col)
	end := start
	if f.LastLine > 0 {
		end = protocol.Position{Line: safeUint(f.LastLine - 1), Character: safeUint(f.LastCol)}
	}
	detail := "(" + strings.Join(f.Params, ", ") + ")"
	return protocol.DocumentSymbol{
		Name:           f.Name,
		Detail:         &detail,
		Kind:           protocol.SymbolKindFunction,
		Range:          protocol.Range{Start: start, End: end},
		SelectionRange: protocol.Range{Start: start, End: start},
	}
}
