package handlers

import (
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
	auditService    *service.AuditService
}

func NewCampaignHandler(campaignService *service.CampaignService, auditService *service.AuditService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		auditService:    auditService,
	}
}

type CreateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateCampaignRequest
	if !parseBody(w, r, &req) {
		return
	}

	campaign, err := h.campaignService.Create(r.Context(), userID, service.CreateCampaignInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, campaign)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	campaign, err := h.campaignService.Get(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	campaigns, err := h.campaignService.ListMine(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	members, err := h.campaignService.GetMembers(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

type UpsertMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *CampaignHandler) UpsertMember(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	var req UpsertMemberRequest
	if !parseBody(w, r, &req) {
		return
	}

	member, err := h.campaignService.UpsertMember(r.Context(), campaignID, userID, service.UpsertMemberInput{
		Email: req.Email,
		Role:  domain.CampaignRole(req.Role),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *CampaignHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	entries, err := h.auditService.List(r.Context(), campaignID, userID, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: name + " is not a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}
