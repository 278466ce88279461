// Package httpapi exposes the form engine over HTTP: administrators read
// and replace an activity's form definition, registrants submit
// registrations. Definition writes require a verified admin bearer token;
// the registrant-facing routes are open.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/go-formflow/pkg/docstore"
	"github.com/clubworks/go-formflow/pkg/identity"
	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/repository"
	"github.com/clubworks/go-formflow/pkg/submission"
)

const maxSubmissionBytes = 32 << 20

// PaymentPolicy resolves an activity's payment configuration. The default
// policy treats every activity as free.
type PaymentPolicy func(ctx context.Context, activityID string) (submission.PaymentConfig, error)

// Option configures a Server.
type Option func(*Server)

// WithVerifier enables bearer-token authentication on definition writes.
// Without a verifier the write routes reject every request.
func WithVerifier(verifier *identity.TokenVerifier) Option {
	return func(s *Server) {
		s.verifier = verifier
	}
}

// WithPaymentPolicy sets how per-activity payment configuration is looked
// up for incoming registrations.
func WithPaymentPolicy(policy PaymentPolicy) Option {
	return func(s *Server) {
		s.payments = policy
	}
}

// Server wires the repository and submission processor into HTTP routes.
type Server struct {
	repo      *repository.Repository
	processor *submission.Processor
	verifier  *identity.TokenVerifier
	payments  PaymentPolicy
}

func NewServer(repo *repository.Repository, processor *submission.Processor, opts ...Option) *Server {
	s := &Server{
		repo:      repo,
		processor: processor,
		payments: func(context.Context, string) (submission.PaymentConfig, error) {
			return submission.PaymentConfig{}, nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler for all form routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/activities/{activityID}", func(r chi.Router) {
		r.Get("/form", s.handleGetForm)
		r.With(s.requireAdmin).Put("/form", s.handlePutForm)
		r.Post("/registrations", s.handleSubmit)
	})
	return r
}

// requireAdmin verifies the bearer token and stores the resulting actor on
// the request context for downstream authorisation checks.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok || s.verifier == nil {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		actor, err := s.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if !actor.Authorized {
			writeError(w, http.StatusForbidden, "not authorised to edit forms")
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return token, ok && token != ""
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityID")

	def, err := s.repo.LoadDefinition(r.Context(), activityID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handlePutForm(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	def, err := model.ParseJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.repo.SaveDefinition(r.Context(), activityID, def); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleSubmit accepts a multipart registration: ordinary form values are
// answers (repeated values become multi-select arrays), file parts become
// upload blobs. The reserved parts paymentProof, transactionId, and
// paymentWaiver carry the payment material.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityID")

	def, err := s.repo.LoadDefinition(r.Context(), activityID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	cfg, err := s.payments(r.Context(), activityID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "payment lookup: "+err.Error())
		return
	}

	answers, payment, err := parseRegistration(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := s.processor.Process(r.Context(), activityID, def, answers, payment, cfg)
	if err != nil {
		s.writeSubmissionError(w, err)
		return
	}

	id, err := s.repo.SaveSubmission(r.Context(), sub)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          id,
		"status":      sub.Status,
		"submittedAt": sub.SubmittedAt,
	})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case docstore.IsPermission(err):
		writeError(w, http.StatusForbidden, "store rejected the operation")
	case docstore.IsTransient(err):
		writeError(w, http.StatusServiceUnavailable, "store temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeSubmissionError(w http.ResponseWriter, err error) {
	var (
		verr *submission.ValidationError
		perr *submission.PaymentRequiredError
		uerr *submission.UniquenessError
		ferr *submission.UploadError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "missing required answers",
			"missing": verr.Missing,
		})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":            perr.Error(),
			"missingProof":     perr.MissingProof,
			"missingReference": perr.MissingReference,
		})
	case errors.As(err, &uerr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "duplicate answers",
			"duplicate": uerr.Fields,
		})
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "file upload failed",
			"field": ferr.Field,
		})
	default:
		s.writeStoreError(w, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
