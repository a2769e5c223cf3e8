package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestContextHook(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name:     "document and command",
			ctx:      WithCommand(WithDocument(context.Background(), "file:///a.todo"), "didChange"),
			wantKeys: []string{"doc", "command"},
		},
		{
			name:      "only document",
			ctx:       WithDocument(context.Background(), "file:///a.todo"),
			wantKeys:  []string{"doc"},
			wantEmpty: []string{"command"},
		},
		{
			name:      "no context values",
			ctx:       context.Background(),
			wantEmpty: []string{"doc", "command"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}
			for _, key := range tt.wantKeys {
				if _, ok := entry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}
			for _, key := range tt.wantEmpty {
				if _, ok := entry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}

func TestSetupAndComponent(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	var buf bytes.Buffer
	if _, _, err := Setup(Options{Level: "warn", Writer: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	l := Component("store")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"cmp":"store"`) || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSetupToFile(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	path := filepath.Join(t.TempDir(), "logs", "mynd.log")
	l, closer, err := Setup(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	l.Debug().Msg("to file")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("log file = %q", data)
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	if _, _, err := Setup(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
