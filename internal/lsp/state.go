package lsp

// currentTrace reports whether diagnostic tracing to stderr is enabled.
func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}

// openVersion returns the last didOpen/didChange version sent for uri.
func (s *Server) openVersion(uri string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[uri]
	return v, ok
}
