// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for esvet.
// It lints open JavaScript documents and publishes the diagnostics.  It
// also offers quick fixes that suppress warnings, and a document outline
// of the functions it finds.
package lsp

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/lint"
	"github.com/luthersystems/esvet/options"
)

const serverName = "esvet-lsp"

// LoggerName names the commonlog logger used by the server.
const LoggerName = "esvet.lsp"

var log = commonlog.GetLogger(LoggerName)

// Server is the esvet language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	// config is injected with WithConfig or read from the workspace root
	// during initialization.
	configMu sync.RWMutex
	config   *options.Config
	fixed    bool

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer
	delay      time.Duration

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig lints every document with cfg instead of the configuration
// found in the workspace root.
func WithConfig(cfg *options.Config) Option {
	return func(s *Server) {
		s.config = cfg
		s.fixed = cfg != nil
	}
}

// WithDebounce sets how long the server waits after a change before
// linting the document.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// New creates a new esvet LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		debounce: make(map[string]*time.Timer),
		delay:    debounceDelay,
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentCodeAction:     s.textDocumentCodeAction,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	log.Info("serving on stdio")
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	log.Infof("listening on %s", addr)
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.loadWorkspaceConfig()

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// loadWorkspaceConfig reads the configuration file at the workspace root.
// A missing or invalid file leaves the defaults in place.
func (s *Server) loadWorkspaceConfig() {
	if s.fixed || s.rootPath == "" {
		return
	}
	path := filepath.Join(s.rootPath, options.ConfigName)
	if _, err := os.Stat(path); err != nil {
		return
	}
	cfg, err := options.Load(path)
	if err != nil {
		log.Errorf("%s", err)
		return
	}
	log.Infof("using configuration %s", cfg.File)
	s.configMu.Lock()
	s.config = cfg
	s.configMu.Unlock()
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// lintDocument lints content as the file behind uri.  Excluded files
// produce an empty result.
func (s *Server) lintDocument(uri, content string) *hint.Result {
	s.configMu.RLock()
	cfg := s.config
	s.configMu.RUnlock()

	path := uriToPath(uri)
	if cfg != nil && lint.Excluded(path, cfg.Exclude) {
		return &hint.Result{OK: true, File: path}
	}
	return lint.NewRunner(cfg).LintSource(context.Background(), path, []byte(content))
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
