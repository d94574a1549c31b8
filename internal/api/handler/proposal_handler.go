package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"loan-marketplace/internal/api/handler/dto"
	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/pkg/apperrors"
)

type ProposalHandler struct {
	engine origination.Engine
	logger *slog.Logger
}

func NewProposalHandler(engine origination.Engine, l *slog.Logger) *ProposalHandler {
	return &ProposalHandler{
		engine: engine,
		logger: l.With("component", "ProposalHandler"),
	}
}

// ownProposal loads the proposal and checks the caller is its creditor.
func (h *ProposalHandler) ownProposal(r *http.Request) (*origination.Proposal, error) {
	identity, err := callerIdentity(r)
	if err != nil {
		return nil, err
	}
	proposalID, err := idFromURL(r, "proposalID")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	p, err := h.engine.GetProposal(r.Context(), proposalID)
	if err != nil {
		return nil, err
	}
	if p.CreditorID != identity.AccountID {
		return nil, fmt.Errorf("%w: proposal belongs to another creditor", apperrors.ErrForbidden)
	}
	return p, nil
}

// ListPublicProposals lists all ACTIVE proposals.
//
// @Summary List public proposals
// @Description The marketplace listing visible to borrowers. Served from cache when available.
// @Tags Proposals
// @Produce json
// @Success 200 {array} dto.ProposalResponse "Proposals successfully retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /proposals [get]
// @Security BearerAuth
func (h *ProposalHandler) ListPublicProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.engine.ListPublicProposals(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(proposals))
}

// ListMyProposals lists the authenticated creditor's proposals.
//
// @Summary List own proposals
// @Tags Proposals
// @Produce json
// @Success 200 {array} dto.ProposalResponse "Proposals successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /proposals/mine [get]
// @Security BearerAuth
func (h *ProposalHandler) ListMyProposals(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	proposals, err := h.engine.ListProposalsByCreditor(r.Context(), identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewProposalListResponse(proposals))
}

// GetProposalDetails returns a proposal with its installment options.
//
// @Summary Retrieve proposal details
// @Description Includes the per-installment simulation for every allowed count and the projected first due date.
// @Tags Proposals
// @Produce json
// @Param proposalID path int true "Proposal ID"
// @Success 200 {object} dto.ProposalDetailsResponse "Details successfully retrieved"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Router /proposals/{proposalID} [get]
// @Security BearerAuth
func (h *ProposalHandler) GetProposalDetails(w http.ResponseWriter, r *http.Request) {
	proposalID, err := idFromURL(r, "proposalID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	details, err := h.engine.ProposalDetailsByID(r.Context(), proposalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewProposalDetailsResponse(details))
}

// GetProposalStats returns interest counters for a proposal.
//
// @Summary Retrieve proposal statistics
// @Tags Proposals
// @Produce json
// @Param proposalID path int true "Proposal ID"
// @Success 200 {object} origination.ProposalStats "Statistics successfully retrieved"
// @Failure 403 {object} dto.ErrorResponse "Proposal belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Router /proposals/{proposalID}/stats [get]
// @Security BearerAuth
func (h *ProposalHandler) GetProposalStats(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownProposal(r)
	if err != nil {
		respondError(w, err)
		return
	}
	stats, err := h.engine.ProposalStatsByID(r.Context(), p.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// CancelProposal withdraws an ACTIVE proposal from the marketplace.
//
// @Summary Cancel a proposal
// @Description Only possible while no interest is pending and the proposal was not accepted.
// @Tags Proposals
// @Produce json
// @Param proposalID path int true "Proposal ID"
// @Success 204 "Proposal successfully cancelled"
// @Failure 403 {object} dto.ErrorResponse "Proposal belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Failure 422 {object} dto.ErrorResponse "Proposal cannot be cancelled in its current state"
// @Router /proposals/{proposalID} [delete]
// @Security BearerAuth
func (h *ProposalHandler) CancelProposal(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownProposal(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.engine.CancelProposal(r.Context(), p.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterInterest expresses the authenticated debtor's interest.
//
// @Summary Register interest in a proposal
// @Description One interest per debtor per proposal. Requires a complete debtor profile.
// @Tags Interests
// @Accept json
// @Produce json
// @Param proposalID path int true "Proposal ID"
// @Param request body dto.RegisterInterestRequest false "Optional message to the creditor"
// @Success 201 {object} dto.InterestResponse "Interest successfully registered"
// @Failure 409 {object} dto.ErrorResponse "Interest already registered"
// @Failure 422 {object} dto.ErrorResponse "Proposal not active or profile incomplete"
// @Router /proposals/{proposalID}/interests [post]
// @Security BearerAuth
func (h *ProposalHandler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	proposalID, err := idFromURL(r, "proposalID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RegisterInterestRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
			return
		}
	}

	i, err := h.engine.RegisterInterest(r.Context(), proposalID, identity.AccountID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewInterestResponse(i))
}

// ListProposalInterests lists the interests registered on a proposal.
//
// @Summary List interests of a proposal
// @Tags Interests
// @Produce json
// @Param proposalID path int true "Proposal ID"
// @Success 200 {array} dto.InterestResponse "Interests successfully retrieved"
// @Failure 403 {object} dto.ErrorResponse "Proposal belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Proposal not found"
// @Router /proposals/{proposalID}/interests [get]
// @Security BearerAuth
func (h *ProposalHandler) ListProposalInterests(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownProposal(r)
	if err != nil {
		respondError(w, err)
		return
	}
	interests, err := h.engine.ListInterestsByProposal(r.Context(), p.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInterestListResponse(interests))
}
