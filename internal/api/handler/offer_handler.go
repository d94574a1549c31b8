package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"loan-marketplace/internal/api/handler/dto"
	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/pkg/apperrors"
)

type OfferHandler struct {
	engine origination.Engine
	logger *slog.Logger
}

func NewOfferHandler(engine origination.Engine, l *slog.Logger) *OfferHandler {
	return &OfferHandler{
		engine: engine,
		logger: l.With("component", "OfferHandler"),
	}
}

// ownOffer loads the offer and checks the caller is its creditor.
func (h *OfferHandler) ownOffer(r *http.Request) (*origination.Offer, error) {
	identity, err := callerIdentity(r)
	if err != nil {
		return nil, err
	}
	offerID, err := idFromURL(r, "offerID")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	o, err := h.engine.GetOffer(r.Context(), offerID)
	if err != nil {
		return nil, err
	}
	if o.CreditorID != identity.AccountID {
		return nil, fmt.Errorf("%w: offer belongs to another creditor", apperrors.ErrForbidden)
	}
	return o, nil
}

// CreateOffer registers a new loan offer for the authenticated creditor.
//
// @Summary Create a loan offer
// @Description Creates a private offer template. Proposals are later published from it.
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferRequest true "Offer payload"
// @Success 201 {object} dto.OfferResponse "Offer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /offers [post]
// @Security BearerAuth
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	o := &origination.Offer{
		CreditorID:        identity.AccountID,
		Amount:            req.Amount,
		MinInstallments:   req.MinInstallments,
		MaxInstallments:   req.MaxInstallments,
		Rate:              req.Rate,
		DaysToFirstCharge: req.DaysToFirstCharge,
	}
	created, err := h.engine.CreateOffer(r.Context(), o)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewOfferResponse(created))
}

// ListOffers lists the authenticated creditor's offers.
//
// @Summary List own offers
// @Tags Offers
// @Produce json
// @Param active query bool false "Only list active offers"
// @Success 200 {array} dto.OfferResponse "Offers successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /offers [get]
// @Security BearerAuth
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	offers, err := h.engine.ListOffers(r.Context(), identity.AccountID, activeOnly)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]dto.OfferResponse, len(offers))
	for i := range offers {
		out[i] = dto.NewOfferResponse(&offers[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// GetOffer retrieves one of the creditor's offers.
//
// @Summary Retrieve an offer
// @Tags Offers
// @Produce json
// @Param offerID path int true "Offer ID"
// @Success 200 {object} dto.OfferResponse "Offer successfully retrieved"
// @Failure 403 {object} dto.ErrorResponse "Offer belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{offerID} [get]
// @Security BearerAuth
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownOffer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewOfferResponse(o))
}

// GetOfferOptions simulates the installment options of an offer.
//
// @Summary Simulate installment options
// @Description Returns the per-installment value and total for every allowed installment count.
// @Tags Offers
// @Produce json
// @Param offerID path int true "Offer ID"
// @Success 200 {array} dto.InstallmentOptionResponse "Options successfully computed"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{offerID}/options [get]
// @Security BearerAuth
func (h *OfferHandler) GetOfferOptions(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownOffer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	options, err := h.engine.OfferOptions(r.Context(), o.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInstallmentOptionResponses(options))
}

// PublishProposal publishes a public proposal generated from an offer.
//
// @Summary Publish a proposal from an offer
// @Description Snapshots the offer terms into a public proposal with a fresh public id. The rate may be overridden at publication.
// @Tags Offers
// @Accept json
// @Produce json
// @Param offerID path int true "Offer ID"
// @Param request body dto.PublishProposalRequest false "Optional rate override"
// @Success 201 {object} dto.ProposalResponse "Proposal successfully published"
// @Failure 403 {object} dto.ErrorResponse "Offer belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Failure 422 {object} dto.ErrorResponse "Offer is not active"
// @Router /offers/{offerID}/proposals [post]
// @Security BearerAuth
func (h *OfferHandler) PublishProposal(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownOffer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.PublishProposalRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
			return
		}
	}

	p, err := h.engine.PublishProposal(r.Context(), o.ID, req.Rate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewProposalResponse(p))
}

// DeactivateOffer stops new proposals being published from an offer.
//
// @Summary Deactivate an offer
// @Tags Offers
// @Produce json
// @Param offerID path int true "Offer ID"
// @Success 204 "Offer successfully deactivated"
// @Failure 403 {object} dto.ErrorResponse "Offer belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{offerID} [delete]
// @Security BearerAuth
func (h *OfferHandler) DeactivateOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownOffer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.engine.DeactivateOffer(r.Context(), o.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOffer removes an offer that never produced a proposal.
//
// @Summary Delete an offer
// @Description Deletion is only allowed while no proposal was published from the offer.
// @Tags Offers
// @Produce json
// @Param offerID path int true "Offer ID"
// @Success 204 "Offer successfully deleted"
// @Failure 403 {object} dto.ErrorResponse "Offer belongs to another creditor"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Failure 409 {object} dto.ErrorResponse "Offer already has proposals"
// @Router /offers/{offerID}/delete [delete]
// @Security BearerAuth
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownOffer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.engine.DeleteOffer(r.Context(), o.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
