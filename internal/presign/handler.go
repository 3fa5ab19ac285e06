package presign

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/presigner/service/internal/response"
	"github.com/presigner/service/internal/storage"
)

// AuditReader reads back persisted audit entries.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Handler holds HTTP handlers for presign endpoints.
type Handler struct {
	svc   *Service
	audit AuditReader // nil when auditing is disabled
}

// NewHandler creates a new presign Handler. audit may be nil.
func NewHandler(svc *Service, audit AuditReader) *Handler {
	return &Handler{svc: svc, audit: audit}
}

type presignDownloadRequest struct {
	Key       string `json:"key"       example:"gym_memory.png"`
	ExpiresIn int64  `json:"expiresIn" example:"3600"` // seconds; defaults to 3600
}

type presignUploadRequest struct {
	Key         string `json:"key"         example:"gym_memory.png"`
	ContentType string `json:"contentType" example:"image/png"` // defaults to application/octet-stream
	ExpiresIn   int64  `json:"expiresIn"   example:"3600"`
}

type presignData struct {
	URL       string `json:"url"       example:"https://demo-bucket.s3.ap-south-1.amazonaws.com/gym_memory.png?X-Amz-..."`
	ExpiresIn int64  `json:"expiresIn" example:"3600"`
}

type bucketsData struct {
	Buckets []string `json:"buckets"`
}

// Buckets godoc
//
//	@Summary		List buckets
//	@Description	Returns the names of all buckets the configured credentials can access, in provider order.
//	@Tags			buckets
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=bucketsData}
//	@Failure		401	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/buckets [get]
func (h *Handler) Buckets(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListBuckets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, bucketsData{Buckets: names})
}

// PresignDownload godoc
//
//	@Summary		Presign a download
//	@Description	Issues a time-limited URL granting GET access to one object in the configured bucket.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		presignDownloadRequest	true	"Object key and optional validity window"
//	@Success		200		{object}	response.Envelope{data=presignData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/presign/download [post]
func (h *Handler) PresignDownload(w http.ResponseWriter, r *http.Request) {
	var req presignDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	expiresIn := expiryOrDefault(req.ExpiresIn)
	u, err := h.svc.PresignGet(r.Context(), req.Key, expiresIn)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, presignData{URL: u, ExpiresIn: int64(expiresIn.Seconds())})
}

// PresignUpload godoc
//
//	@Summary		Presign an upload
//	@Description	Issues a time-limited URL granting PUT access to one object. The declared content type is part of the signature; uploads with a different Content-Type are rejected by the provider.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		presignUploadRequest	true	"Object key, content type, and optional validity window"
//	@Success		200		{object}	response.Envelope{data=presignData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/presign/upload [post]
func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var req presignUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	expiresIn := expiryOrDefault(req.ExpiresIn)
	u, err := h.svc.PresignPut(r.Context(), req.Key, req.ContentType, expiresIn)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, presignData{URL: u, ExpiresIn: int64(expiresIn.Seconds())})
}

// Audit godoc
//
//	@Summary		Recent audit entries
//	@Description	Returns the newest issued-URL audit entries, most recent first. Responds 501 when the audit log is not enabled.
//	@Tags			audit
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum entries to return (default 50, max 500)"
//	@Success		200		{object}	response.Envelope{data=[]Entry}
//	@Failure		401		{object}	response.Envelope
//	@Failure		501		{object}	response.Envelope
//	@Router			/audit [get]
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		response.Error(w, http.StatusNotImplemented, "audit log is not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}

	entries, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, entries)
}

// expiryOrDefault maps an absent expiresIn field to the default window.
// Negative values pass through so the service rejects them.
func expiryOrDefault(seconds int64) time.Duration {
	if seconds == 0 {
		return DefaultExpiry
	}
	return time.Duration(seconds) * time.Second
}

// writeError maps service errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var reqErr *storage.RequestError
	switch {
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidExpiry):
		response.BadRequest(w, err.Error())
	case errors.Is(err, storage.ErrConfiguration):
		response.Error(w, http.StatusInternalServerError, "service storage is misconfigured")
	case errors.As(err, &reqErr):
		response.Error(w, http.StatusBadGateway, "storage provider rejected the request")
	default:
		response.InternalError(w)
	}
}
