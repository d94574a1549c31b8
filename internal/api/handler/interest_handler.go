package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"loan-marketplace/internal/api/handler/dto"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/pkg/apperrors"
)

type InterestHandler struct {
	engine origination.Engine
	logger *slog.Logger
}

func NewInterestHandler(engine origination.Engine, l *slog.Logger) *InterestHandler {
	return &InterestHandler{
		engine: engine,
		logger: l.With("component", "InterestHandler"),
	}
}

// proposalOwnedInterest loads the interest and checks the caller owns the
// proposal it was registered against.
func (h *InterestHandler) proposalOwnedInterest(r *http.Request) (*origination.Interest, error) {
	identity, err := callerIdentity(r)
	if err != nil {
		return nil, err
	}
	interestID, err := idFromURL(r, "interestID")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	i, err := h.engine.GetInterest(r.Context(), interestID)
	if err != nil {
		return nil, err
	}
	p, err := h.engine.GetProposal(r.Context(), i.ProposalID)
	if err != nil {
		return nil, err
	}
	if p.CreditorID != identity.AccountID {
		return nil, fmt.Errorf("%w: interest belongs to another creditor's proposal", apperrors.ErrForbidden)
	}
	return i, nil
}

// ownInterest loads the interest and checks the caller is the debtor who
// registered it.
func (h *InterestHandler) ownInterest(r *http.Request) (*origination.Interest, error) {
	identity, err := callerIdentity(r)
	if err != nil {
		return nil, err
	}
	interestID, err := idFromURL(r, "interestID")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	i, err := h.engine.GetInterest(r.Context(), interestID)
	if err != nil {
		return nil, err
	}
	if i.DebtorID != identity.AccountID {
		return nil, fmt.Errorf("%w: interest belongs to another debtor", apperrors.ErrForbidden)
	}
	return i, nil
}

// ListMyInterests lists the authenticated debtor's interests.
//
// @Summary List own interests
// @Tags Interests
// @Produce json
// @Success 200 {array} dto.InterestResponse "Interests successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /interests [get]
// @Security BearerAuth
func (h *InterestHandler) ListMyInterests(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	interests, err := h.engine.ListInterestsByDebtor(r.Context(), identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInterestListResponse(interests))
}

// ApproveInterest approves a pending interest.
//
// @Summary Approve an interest
// @Description Moves the interest to APPROVED and opens the bilateral confirmation window.
// @Tags Interests
// @Produce json
// @Param interestID path int true "Interest ID"
// @Success 200 {object} dto.InterestResponse "Interest successfully approved"
// @Failure 403 {object} dto.ErrorResponse "Interest belongs to another creditor's proposal"
// @Failure 404 {object} dto.ErrorResponse "Interest not found"
// @Failure 422 {object} dto.ErrorResponse "Interest is not pending"
// @Router /interests/{interestID}/approval [post]
// @Security BearerAuth
func (h *InterestHandler) ApproveInterest(w http.ResponseWriter, r *http.Request) {
	i, err := h.proposalOwnedInterest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	approved, err := h.engine.Approve(r.Context(), i.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInterestResponse(approved))
}

// RejectInterest rejects a pending or approved interest.
//
// @Summary Reject an interest
// @Description Rejection is blocked once either party has confirmed.
// @Tags Interests
// @Produce json
// @Param interestID path int true "Interest ID"
// @Success 200 {object} dto.InterestResponse "Interest successfully rejected"
// @Failure 403 {object} dto.ErrorResponse "Interest belongs to another creditor's proposal"
// @Failure 404 {object} dto.ErrorResponse "Interest not found"
// @Failure 422 {object} dto.ErrorResponse "Interest cannot be rejected in its current state"
// @Router /interests/{interestID}/rejection [post]
// @Security BearerAuth
func (h *InterestHandler) RejectInterest(w http.ResponseWriter, r *http.Request) {
	i, err := h.proposalOwnedInterest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rejected, err := h.engine.Reject(r.Context(), i.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInterestResponse(rejected))
}

// CancelInterest withdraws a pending interest.
//
// @Summary Cancel an interest
// @Tags Interests
// @Produce json
// @Param interestID path int true "Interest ID"
// @Success 204 "Interest successfully cancelled"
// @Failure 403 {object} dto.ErrorResponse "Interest belongs to another debtor"
// @Failure 404 {object} dto.ErrorResponse "Interest not found"
// @Failure 422 {object} dto.ErrorResponse "Interest is not pending"
// @Router /interests/{interestID} [delete]
// @Security BearerAuth
func (h *InterestHandler) CancelInterest(w http.ResponseWriter, r *http.Request) {
	i, err := h.ownInterest(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.engine.CancelInterest(r.Context(), i.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmInterest records the caller's confirmation on an approved
// interest. The second confirmation creates the loan.
//
// @Summary Confirm an approved interest
// @Description Each party confirms once. When both have confirmed the loan and its installment schedule are created atomically, the creditor balance is debited and the proposal is closed.
// @Tags Interests
// @Accept json
// @Produce json
// @Param interestID path int true "Interest ID"
// @Param request body dto.ConfirmInterestRequest true "Chosen installment count"
// @Success 200 {object} dto.ConfirmInterestResponse "Confirmation recorded; loan present when both parties confirmed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a party to this interest"
// @Failure 404 {object} dto.ErrorResponse "Interest not found"
// @Failure 409 {object} dto.ErrorResponse "Party already confirmed"
// @Failure 422 {object} dto.ErrorResponse "Interest not approved, installment count out of range or insufficient balance"
// @Router /interests/{interestID}/confirmations [post]
// @Security BearerAuth
func (h *InterestHandler) ConfirmInterest(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	interestID, err := idFromURL(r, "interestID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.ConfirmInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	i, err := h.engine.GetInterest(r.Context(), interestID)
	if err != nil {
		respondError(w, err)
		return
	}

	var party origination.Party
	switch identity.Role {
	case account.RoleCreditor:
		p, err := h.engine.GetProposal(r.Context(), i.ProposalID)
		if err != nil {
			respondError(w, err)
			return
		}
		if p.CreditorID != identity.AccountID {
			respondError(w, fmt.Errorf("%w: interest belongs to another creditor's proposal", apperrors.ErrForbidden))
			return
		}
		party = origination.PartyCreditor
	case account.RoleDebtor:
		if i.DebtorID != identity.AccountID {
			respondError(w, fmt.Errorf("%w: interest belongs to another debtor", apperrors.ErrForbidden))
			return
		}
		party = origination.PartyDebtor
	default:
		respondError(w, fmt.Errorf("%w: unknown role %q", apperrors.ErrForbidden, identity.Role))
		return
	}

	confirmed, createdLoan, err := h.engine.Confirm(r.Context(), interestID, party, req.Installments)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := dto.ConfirmInterestResponse{Interest: dto.NewInterestResponse(confirmed)}
	if createdLoan != nil {
		lr := dto.NewLoanResponse(createdLoan, true)
		resp.Loan = &lr
	}
	respondJSON(w, http.StatusOK, resp)
}
