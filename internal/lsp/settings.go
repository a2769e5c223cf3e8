package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

// applySettings reads the "mynd" section; unknown or malformed settings are ignored.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := settings.Mynd.MaxDiagnostics; n != nil && *n > 0 {
		s.maxDiagnostics = *n
	}
	if settings.Mynd.Trace != nil {
		s.traceLSP = *settings.Mynd.Trace
	}
}

func (s *Server) currentMaxDiagnostics() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxDiagnostics
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}
