package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"mynd/internal/parser"
	"mynd/internal/todo"
)

// ItemJSON is a parsed todo.
type ItemJSON struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Span    SpanJSON `json:"span"`
}

// ErrorJSON is a parse error.
type ErrorJSON struct {
	Kind    string   `json:"kind"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Span    SpanJSON `json:"span"`
}

// EntryJSON holds exactly one of Item or Error.
type EntryJSON struct {
	Item  *ItemJSON  `json:"item,omitempty"`
	Error *ErrorJSON `json:"error,omitempty"`
}

type OutcomeJSON struct {
	File    string      `json:"file"`
	Entries []EntryJSON `json:"entries"`
	Items   int         `json:"items"`
	Errors  int         `json:"errors"`
}

// FormatOutcomePretty печатает записи разбора в порядке документа:
// одна строка на item или ошибку.
func FormatOutcomePretty(w io.Writer, outcome parser.Outcome) error {
	for i, e := range outcome.Entries {
		var err error
		if e.Ok() {
			_, err = fmt.Fprintf(w, "%3d: item  %-9s %s %s %q\n",
				i+1, e.Item.Kind, todo.HashMessage(e.Item.Message).Short(), formatRange(e.Item.Span), e.Item.Message)
		} else {
			_, err = fmt.Fprintf(w, "%3d: error %s %s %s\n",
				i+1, e.Err.Code().ID(), formatRange(e.Err.Span), e.Err.Error())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// BuildOutcomeJSON converts an outcome without serializing it.
func BuildOutcomeJSON(outcome parser.Outcome) OutcomeJSON {
	out := OutcomeJSON{Entries: make([]EntryJSON, 0, len(outcome.Entries))}
	if outcome.File != nil {
		out.File = outcome.File.Path
	}
	for _, e := range outcome.Entries {
		if e.Ok() {
			out.Items++
			out.Entries = append(out.Entries, EntryJSON{Item: &ItemJSON{
				ID:      string(todo.HashMessage(e.Item.Message)),
				Kind:    e.Item.Kind.String(),
				Message: e.Item.Message,
				Span:    spanJSON(e.Item.Span),
			}})
			continue
		}
		out.Errors++
		out.Entries = append(out.Entries, EntryJSON{Error: &ErrorJSON{
			Kind:    e.Err.Kind.String(),
			Code:    e.Err.Code().ID(),
			Message: e.Err.Error(),
			Span:    spanJSON(e.Err.Span),
		}})
	}
	return out
}

func FormatOutcomeJSON(w io.Writer, outcome parser.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutcomeJSON(outcome))
}
