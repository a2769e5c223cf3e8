package lsp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestJSONRPCFramingMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	msg1 := []byte(`{"jsonrpc":"2.0","method":"one"}`)
	msg2 := []byte(`{"jsonrpc":"2.0","method":"two"}`)

	if err := writeMessage(&buf, msg1); err != nil {
		t.Fatalf("write message 1: %v", err)
	}
	if err := writeMessage(&buf, msg2); err != nil {
		t.Fatalf("write message 2: %v", err)
	}

	reader := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	got1, err := readMessage(reader)
	if err != nil {
		t.Fatalf("read message 1: %v", err)
	}
	got2, err := readMessage(reader)
	if err != nil {
		t.Fatalf("read message 2: %v", err)
	}

	if string(got1) != string(msg1) {
		t.Fatalf("unexpected message 1: %s", string(got1))
	}
	if string(got2) != string(msg2) {
		t.Fatalf("unexpected message 2: %s", string(got2))
	}
}

func TestJSONRPCHeaderErrors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"missing length", "Content-Type: x\r\n\r\n{}", "missing Content-Length"},
		{"bad length", "Content-Length: abc\r\n\r\n{}", "invalid Content-Length"},
		{"too large", "Content-Length: 999999999\r\n\r\n", "exceeds limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readMessage(bufio.NewReader(strings.NewReader(tt.input)))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestJSONRPCHeaderCaseInsensitive(t *testing.T) {
	in := "content-length: 2\r\nX-Other: 1\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(in)))
	if err != nil || string(got) != "{}" {
		t.Fatalf("got %q, %v", got, err)
	}
}
