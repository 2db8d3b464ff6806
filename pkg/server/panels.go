package server

import (
	"net/http"
)

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.calculator.Catalog().List())
}
