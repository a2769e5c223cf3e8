package lsp

import (
	"context"
	"fmt"

	"mynd/internal/diag"
	"mynd/internal/logging"
	"mynd/internal/parser"
	"mynd/internal/source"
	"mynd/internal/trace"
)

// syncDocument is the per-notification pipeline: parse the buffer, reconcile
// it against the store, publish diagnostics. A reconcile that fails as a whole
// (store locked) is reported to the editor; the parse diagnostics are still
// published and the document's membership stays as it was.
func (s *Server) syncDocument(ctx context.Context, uri string, version int, text string) error {
	ctx = logging.WithDocument(ctx, uri)
	ctx, span := trace.Start(ctx, trace.ScopeDocument, "sync")
	defer span.End(uri)

	file := source.NewVirtual(uriToPathOr(uri), text)
	_, parseSpan := trace.Start(ctx, trace.ScopePhase, "parse")
	outcome := parser.ParseFile(file, parser.Options{})
	parseSpan.End("")

	doc := &document{version: version, file: file, outcome: outcome}
	diags := make([]diag.Diagnostic, 0, len(outcome.Entries))

	if s.store == nil {
		doc.plan = s.engine.Reconcile(uri, outcome, nil)
		diags = append(diags, doc.plan.Diagnostics...)
	} else {
		report, err := s.engine.Sync(ctx, uri, outcome, s.store)
		if err != nil {
			s.logMessage(messageError, fmt.Sprintf("todos not synced: %v", err))
			doc.plan = s.engine.Plan(uri, outcome, nil)
			diags = append(diags, doc.plan.Diagnostics...)
		} else {
			doc.plan = report.Plan
			diags = append(diags, report.Diagnostics...)
			for _, f := range report.Failures {
				s.logMessage(messageError, f.Error())
			}
			if s.currentTrace() {
				s.logMessage(messageInfo, fmt.Sprintf("%s: +%d -%d", uri, report.Upserted, report.Retracted))
			}
		}
	}

	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()

	return s.publish(uri, doc, diags)
}

func (s *Server) publish(uri string, doc *document, diags []diag.Diagnostic) error {
	limit := s.currentMaxDiagnostics()
	if len(diags) > limit {
		diags = diags[:limit]
	}
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, toLSPDiagnostic(doc.file, d))
	}

	s.mu.Lock()
	if len(list) > 0 {
		s.published[uri] = struct{}{}
	} else {
		delete(s.published, uri)
	}
	s.mu.Unlock()

	version := doc.version
	return s.sendPublish(uri, &version, list)
}

func toLSPDiagnostic(file *source.File, d diag.Diagnostic) lspDiagnostic {
	return lspDiagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   "mynd",
		Message:  d.Message,
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func uriToPathOr(uri string) string {
	if path := uriToPath(uri); path != "" {
		return path
	}
	return uri
}
