package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wikireflex/reflex/schema"
)

func (s *Server) writeEnvelope(w http.ResponseWriter, env schema.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	origin := s.cfg.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	_ = json.NewEncoder(w).Encode(env)
}

func (s *Server) success(w http.ResponseWriter, msg string, result any) {
	s.writeEnvelope(w, schema.Envelope{
		Message:     msg,
		ErrorStatus: schema.StatusSuccess,
		Result:      result,
	})
}

// fail reports an error in the envelope. The status code stays 200: legacy
// consumers dispatch on errorstatus, not on HTTP codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.writeEnvelope(w, schema.Envelope{
		Message:     err.Error(),
		ErrorStatus: schema.StatusFail,
	})
}
