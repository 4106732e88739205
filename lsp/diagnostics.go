// Copyright © 2024 The ELPS authors

package lsp

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/messages"
)

const debounceDelay = 300 * time.Millisecond

const diagnosticSource = "esvet"

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.lintAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.delay, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("linting %s: %v", doc.URI, r)
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.lintAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.lintAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// ensureResult lints the document if it has no current result and returns
// the result.
func (s *Server) ensureResult(doc *Document) *hint.Result {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.result == nil {
		doc.result = s.lintDocument(doc.URI, doc.Content)
	}
	return doc.result
}

// lintAndPublish lints a document and publishes the resulting diagnostics
// to the client.
func (s *Server) lintAndPublish(doc *Document) {
	res := s.ensureResult(doc)
	if res.Aborted() {
		log.Debugf("%s: %s", doc.URI, res.Fatal)
	}

	diags := make([]protocol.Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, convertDiagnostic(d))
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// convertDiagnostic converts a linter diagnostic to an LSP Diagnostic.
func convertDiagnostic(d *hint.Diagnostic) protocol.Diagnostic {
	sev := mapSeverity(d.Class)
	return protocol.Diagnostic{
		Range:    diagnosticRange(d),
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Message:  d.Message,
	}
}

// mapSeverity converts a message class to a protocol.DiagnosticSeverity.
func mapSeverity(c messages.Class) protocol.DiagnosticSeverity {
	switch c {
	case messages.Error:
		return protocol.DiagnosticSeverityError
	case messages.Info:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
