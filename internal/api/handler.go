// Package api exposes the provisioner's HTTP surface: the synchronous v1
// lifecycle routes, the not-yet-supported async stubs, and a liveness probe.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/service"
)

// Handler adapts the provisioner service to HTTP.
type Handler struct {
	provisioner service.Provisioner
	logger      *slog.Logger
}

// NewHandler creates the HTTP handler on the given provisioner.
func NewHandler(provisioner service.Provisioner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{provisioner: provisioner, logger: logger}
}

// Register mounts the lifecycle routes on the given router. The liveness
// probe is mounted separately so it stays outside auth.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", h.validate)
		r.Post("/provision", h.provision)
		r.Post("/unprovision", h.unprovision)
		r.Post("/updateacl", h.updateACL)
		r.Post("/reverse-provisioning", h.reverseProvisioning)
		r.Get("/provision/{token}/status", h.provisionStatus)
	})

	r.Route("/v2", func(r chi.Router) {
		r.Post("/validate", h.notImplemented)
		r.Get("/validate/{token}/status", h.notImplemented)
	})
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req ProvisioningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.ErrValidation("Unable to parse the request body. %v", err))
		return
	}

	// Validation never rejects: descriptor problems come back as an
	// invalid result, not as a 400.
	dp, component, verr := unpackDescriptor(req.DescriptorKind, req.Descriptor)
	if verr != nil {
		writeJSON(w, http.StatusOK, validationResultBody{Valid: false, Error: &validationErrorBody{Errors: verr.Problems}})
		return
	}

	result, err := h.provisioner.Validate(r.Context(), component, dp)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	body := validationResultBody{Valid: result.Valid}
	if result.Error != nil {
		body.Error = &validationErrorBody{Errors: result.Error.Problems}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) provision(w http.ResponseWriter, r *http.Request) {
	var req ProvisioningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.ErrValidation("Unable to parse the request body. %v", err))
		return
	}

	dp, component, verr := unpackDescriptor(req.DescriptorKind, req.Descriptor)
	if verr != nil {
		writeError(w, h.logger, verr)
		return
	}

	status, err := h.provisioner.Provision(r.Context(), component, dp)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) unprovision(w http.ResponseWriter, r *http.Request) {
	var req ProvisioningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.ErrValidation("Unable to parse the request body. %v", err))
		return
	}

	dp, component, verr := unpackDescriptor(req.DescriptorKind, req.Descriptor)
	if verr != nil {
		writeError(w, h.logger, verr)
		return
	}

	status, err := h.provisioner.Unprovision(r.Context(), component, dp, req.RemoveData)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) updateACL(w http.ResponseWriter, r *http.Request) {
	var req UpdateACLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.ErrValidation("Unable to parse the request body. %v", err))
		return
	}

	dp, component, verr := unpackDescriptor(descriptorKindComponent, req.ProvisionInfo.Request)
	if verr != nil {
		writeError(w, h.logger, verr)
		return
	}

	status, err := h.provisioner.UpdateACL(r.Context(), component, dp, req.Refs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) reverseProvisioning(w http.ResponseWriter, r *http.Request) {
	var req ReverseProvisioningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.ErrValidation("Unable to parse the request body. %v", err))
		return
	}

	status, err := h.provisioner.ReverseProvision(r.Context(), &domain.ReverseProvisioningRequest{
		UseCaseTemplateID: req.UseCaseTemplateID,
		Environment:       req.Environment,
		Params:            req.Params,
		CatalogInfo:       req.CatalogInfo,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// provisionStatus exists for interface completeness: operations are
// synchronous and their outcomes are not persisted, so no token can ever be
// resolved.
func (h *Handler) provisionStatus(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	writeJSON(w, http.StatusInternalServerError, systemErrorBody{
		Error: "Operations are synchronous, no status is stored for token " + token + ".",
	})
}

func (h *Handler) notImplemented(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusInternalServerError, systemErrorBody{
		Error: "Asynchronous validation is not supported.",
	})
}
