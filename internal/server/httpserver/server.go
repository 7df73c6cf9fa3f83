// Package httpserver exposes the public document verification HTTP API.
package httpserver

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/momohthinQ/meyone-secure-vault/internal/digest"
	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/metrics"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
	"github.com/momohthinQ/meyone-secure-vault/internal/service"
)

// maxUploadBytes caps /verify-file bodies. Hashing is streaming, the cap
// only bounds abuse of the public endpoint.
const maxUploadBytes = 100 << 20

// Server wires services into HTTP handlers.
type Server struct {
	verify service.VerifyService
	shares service.ShareLinkService
	log    *zap.Logger
	met    *metrics.Metrics
	mux    *http.ServeMux
}

// New constructs the HTTP server with injected services. gatherer serves
// /metrics; pass the registry the Metrics were registered on.
func New(verify service.VerifyService, shares service.ShareLinkService, log *zap.Logger, met *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{verify: verify, shares: shares, log: log, met: met, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /verify-document", s.handleVerifyDocument)
	s.mux.HandleFunc("GET /verify-hash", s.handleVerifyHash)
	s.mux.HandleFunc("POST /verify-file", s.handleVerifyFile)
	s.mux.HandleFunc("GET /documents/{id}/history", s.handleHistory)
	s.mux.HandleFunc("POST /share-links", s.handleIssueShareLink)
	s.mux.HandleFunc("GET /shared/{token}", s.handleOpenShareLink)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Handler returns the full middleware chain: recover, then logging, then CORS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = CORS()(h)
	h = Logging(s.log, s.met, s.route)(h)
	h = Recover(s.log)(h)
	return h
}

// route returns the mux pattern the request matches. Path parameters
// (share tokens, document ids) must never reach metric labels or logs,
// so observability gets the pattern, not the raw URL.
func (s *Server) route(r *http.Request) string {
	if _, pattern := s.mux.Handler(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

type errorBody struct {
	Valid *bool  `json:"valid,omitempty"`
	Error string `json:"error"`
}

func invalidBody(msg string) errorBody {
	v := false
	return errorBody{Valid: &v, Error: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// verifierContext extracts boundary-supplied provenance for the ledger.
func verifierContext(r *http.Request) model.VerifierContext {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// first hop only
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		ip = strings.TrimSpace(ip)
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	if ip == "" {
		ip = "unknown"
	}
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		ua = "unknown"
	}
	return model.VerifierContext{IP: ip, UserAgent: ua}
}

func (s *Server) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Token is required"})
		return
	}

	res, err := s.verify.VerifyByToken(r.Context(), token, verifierContext(r))
	s.writeVerifyResult(w, res, err)
}

func (s *Server) handleVerifyHash(w http.ResponseWriter, r *http.Request) {
	hash := strings.ToLower(r.URL.Query().Get("hash"))
	if !digest.Valid(hash) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "A valid SHA-256 hash is required"})
		return
	}

	res, err := s.verify.VerifyByDigest(r.Context(), hash, verifierContext(r))
	s.writeVerifyResult(w, res, err)
}

func (s *Server) handleVerifyFile(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer func() { _ = body.Close() }()

	res, err := s.verify.VerifyByContent(r.Context(), body, verifierContext(r))
	s.writeVerifyResult(w, res, err)
}

func (s *Server) writeVerifyResult(w http.ResponseWriter, res model.VerificationResult, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, errs.ErrNotFound):
		body := invalidBody("Document not found")
		if res.Hash != "" {
			// negative digest result keeps the computed hash visible
			writeJSON(w, http.StatusNotFound, struct {
				errorBody
				Hash string `json:"hash"`
			}{body, res.Hash})
			return
		}
		writeJSON(w, http.StatusNotFound, body)
	default:
		// integrity conflicts and store faults are already logged; the
		// caller gets a generic failure either way.
		if !errors.Is(err, errs.ErrIntegrityConflict) {
			s.log.Error("verification failed", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Verification failed"})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid document id"})
		return
	}
	space := model.SpacePersonal
	if r.URL.Query().Get("space") == string(model.SpaceInstitution) {
		space = model.SpaceInstitution
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.verify.History(r.Context(), model.LedgerRef{Space: space, ID: id}, limit)
	if err != nil {
		s.log.Error("history failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Verification failed"})
		return
	}

	type entryJSON struct {
		ID         string `json:"id"`
		Result     string `json:"result"`
		Hash       string `json:"hash,omitempty"`
		VerifierIP string `json:"verifierIp"`
		UserAgent  string `json:"userAgent"`
		VerifiedAt string `json:"verifiedAt"`
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			ID:         e.ID.String(),
			Result:     e.Result,
			Hash:       e.Hash,
			VerifierIP: e.VerifierIP,
			UserAgent:  e.UserAgent,
			VerifiedAt: e.VerifiedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

// callerID reads the opaque caller identity supplied by the boundary
// layer. Authentication itself happens upstream of this core.
func callerID(r *http.Request) (uuid.UUID, error) {
	return uuid.FromString(r.Header.Get("X-User-Id"))
}

func (s *Server) handleIssueShareLink(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Caller identity is required"})
		return
	}

	var req struct {
		DocumentID string `json:"documentId"`
		TTLHours   int    `json:"ttlHours"`
		PIN        string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	docID, err := uuid.FromString(req.DocumentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid document id"})
		return
	}
	if req.TTLHours <= 0 {
		req.TTLHours = 24
	}

	l, err := s.shares.Issue(r.Context(), docID, userID, time.Duration(req.TTLHours)*time.Hour, req.PIN)
	if err != nil {
		s.log.Error("share link issue failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Request failed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":     l.Token,
		"expiresAt": l.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleOpenShareLink(w http.ResponseWriter, r *http.Request) {
	docID, err := s.shares.Open(r.Context(), r.PathValue("token"), r.URL.Query().Get("pin"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"documentId": docID.String()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, invalidBody("Document not found"))
	case errors.Is(err, errs.ErrExpired):
		writeJSON(w, http.StatusGone, errorBody{Error: "Link has expired"})
	case errors.Is(err, errs.ErrInvalidPIN):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "Invalid PIN"})
	default:
		s.log.Error("share link open failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Request failed"})
	}
}
