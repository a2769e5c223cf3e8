package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"mynd/internal/todo"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil || doc.plan == nil {
		return s.sendResponse(msg.ID, nil)
	}
	var records []todo.Record
	if s.store != nil {
		// хавер не критичен: при занятом хранилище покажем только id
		records, _ = s.store.GetAll()
	}
	result := buildHover(doc, records, params.Position)
	if result == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, result)
}

// buildHover describes the todo under pos, or returns nil when pos is not
// inside an item's text.
func buildHover(doc *document, records []todo.Record, pos position) *hover {
	offset := offsetForPositionInFile(doc.file, pos)
	id, sp, ok := doc.plan.IDAt(offset)
	if !ok {
		return nil
	}
	rng := rangeForSpan(doc.file, sp)

	var b strings.Builder
	fmt.Fprintf(&b, "**todo** `%s`", id.Short())
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		status := "open"
		if rec.Done {
			status = "done"
		}
		fmt.Fprintf(&b, "\n\ncreated: %s\n\nstatus: %s", rec.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), status)
		break
	}

	return &hover{
		Contents: markupContent{Kind: "markdown", Value: b.String()},
		Range:    &rng,
	}
}
