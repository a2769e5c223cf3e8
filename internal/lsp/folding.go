package lsp

import (
	"encoding/json"

	"mynd/internal/ast"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(doc))
}

// buildFoldingRanges returns one range per text block that spans more than one line.
func buildFoldingRanges(doc *document) []foldingRange {
	ranges := make([]foldingRange, 0, 4)
	for _, item := range doc.outcome.Items() {
		if item.Kind != ast.Multiline || item.Span.End.Line <= item.Span.Start.Line {
			continue
		}
		ranges = append(ranges, foldingRange{
			StartLine: int(item.Span.Start.Line),
			EndLine:   int(item.Span.End.Line),
			Kind:      "region",
		})
	}
	return ranges
}
