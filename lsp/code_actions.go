// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// Every warning in the request context can be suppressed on its line or
// for the whole file.  Errors cannot be suppressed.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if len(params.Context.Only) > 0 && !slicesContains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	doc.mu.Lock()
	content := doc.Content
	doc.mu.Unlock()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		if diag.Severity != nil && *diag.Severity == protocol.DiagnosticSeverityError {
			continue
		}
		code := fmt.Sprintf("%v", diag.Code.Value)
		if !strings.HasPrefix(code, "W") {
			continue
		}
		if a, ok := suppressLineAction(params.TextDocument.URI, diag, code, content); ok {
			actions = append(actions, a)
		}
		actions = append(actions, suppressFileAction(params.TextDocument.URI, diag, code))
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// suppressLineAction appends an ignore:line comment to the diagnostic's
// line.  Lines already ending in a line comment are left alone.
func suppressLineAction(uri string, diag protocol.Diagnostic, code, content string) (protocol.CodeAction, bool) {
	line := int(diag.Range.Start.Line)
	if strings.Contains(lineText(content, line), "//") {
		return protocol.CodeAction{}, false
	}
	end := lineEnd(content, line)
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Suppress %s on this line", code),
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {{
					Range:   protocol.Range{Start: end, End: end},
					NewText: " // esvet ignore:line",
				}},
			},
		},
	}, true
}

// suppressFileAction inserts a directive removing the warning for the
// whole file at its top.
func suppressFileAction(uri string, diag protocol.Diagnostic, code string) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	top := protocol.Position{}
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Suppress %s in this file", code),
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {{
					Range:   protocol.Range{Start: top, End: top},
					NewText: "/* esvet -" + code + " */\n",
				}},
			},
		},
	}
}

func slicesContains(kinds []protocol.CodeActionKind, k protocol.CodeActionKind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}
