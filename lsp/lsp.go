// Package lsp implements a language server publishing syntax tree construction errors as diagnostics.
package lsp

import (
	"errors"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/grammar"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

const (
	lsName           = "jamplate"
	diagnosticSource = "jamplate"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("jamplate.lsp")
}

// Server parses every opened document with the grammar on each change.
// Documents are synchronized in full.
type Server struct {
	grammar *grammar.Grammar
	version string
	handler protocol.Handler
	server  *server.Server
}

func New(g *grammar.Grammar, version string) *Server {
	s := &Server{grammar: g, version: version}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.publish(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}

	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.publish(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.publish(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	doc := source.NewString(uri, text)
	_, e := s.grammar.Parse(doc)
	diagnostics := Diagnostics(doc, e)
	logger().Debugf("%s: %d diagnostics", uri, len(diagnostics))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts an error returned by parsing doc to diagnostics.
// Nil error yields empty slice.
// Clashing trees of *tree.IllegalTreeError are reported as the diagnostic range
// and its related information.
func Diagnostics(doc *source.Source, e error) []protocol.Diagnostic {
	res := make([]protocol.Diagnostic, 0, 1)
	if e == nil {
		return res
	}

	d := protocol.Diagnostic{
		Range:    Range(doc, source.NewReference(0, 0)),
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   stringPtr(diagnosticSource),
		Message:  e.Error(),
	}

	var je *jamplate.Error
	if errors.As(e, &je) {
		d.Code = &protocol.IntegerOrString{Value: protocol.Integer(je.Code)}
	}

	var ite *tree.IllegalTreeError
	if errors.As(e, &ite) {
		d.Range = Range(doc, ite.Offered.Reference())
		d.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
			Location: protocol.Location{
				URI:   doc.Name(),
				Range: Range(doc, ite.Existing.Reference()),
			},
			Message: "clashes with " + ite.Existing.String(),
		}}
	}

	return append(res, d)
}

// Range converts ref to LSP range, characters are counted in UTF-16 code units.
func Range(doc *source.Source, ref source.Reference) protocol.Range {
	return protocol.Range{
		Start: Position(doc, ref.Position),
		End:   Position(doc, ref.End()),
	}
}

// Position converts byte offset to zero-based LSP position.
func Position(doc *source.Source, pos int) protocol.Position {
	if pos > doc.Len() {
		pos = doc.Len()
	}
	line, _ := doc.LineCol(pos)
	start := doc.Pos(line, 1)
	prefix := doc.Content()[start:pos]

	units := 0
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		prefix = prefix[size:]
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}

	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(units),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
