package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/pkg/loancalc"
)

type CreateOfferRequest struct {
	Amount            float64 `json:"amount"`
	MinInstallments   int     `json:"minInstallments"`
	MaxInstallments   int     `json:"maxInstallments"`
	Rate              float64 `json:"rate"`
	DaysToFirstCharge int     `json:"daysToFirstCharge"`
}

func (r *CreateOfferRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.MinInstallments < 1 {
		return fmt.Errorf("minInstallments must be at least 1")
	}
	if r.MaxInstallments < r.MinInstallments {
		return fmt.Errorf("maxInstallments must be greater than or equal to minInstallments")
	}
	if r.Rate < 0 {
		return fmt.Errorf("rate must be greater than or equal to zero")
	}
	if r.DaysToFirstCharge < 0 {
		return fmt.Errorf("daysToFirstCharge must be greater than or equal to zero")
	}
	return nil
}

type PublishProposalRequest struct {
	Rate *float64 `json:"rate,omitempty"`
}

type RegisterInterestRequest struct {
	Message string `json:"message,omitempty"`
}

type ConfirmInterestRequest struct {
	Installments int `json:"installments"`
}

func (r *ConfirmInterestRequest) Validate() error {
	if r.Installments <= 0 {
		return fmt.Errorf("installments must be greater than zero")
	}
	return nil
}

type OfferResponse struct {
	ID                string    `json:"id"`
	CreditorID        string    `json:"creditorId"`
	Amount            string    `json:"amount"`
	MinInstallments   int       `json:"minInstallments"`
	MaxInstallments   int       `json:"maxInstallments"`
	Rate              string    `json:"rate"`
	DaysToFirstCharge int       `json:"daysToFirstCharge"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
}

func NewOfferResponse(o *origination.Offer) OfferResponse {
	return OfferResponse{
		ID:                strconv.FormatInt(o.ID, 10),
		CreditorID:        strconv.FormatInt(o.CreditorID, 10),
		Amount:            decimal.NewFromFloat(o.Amount).StringFixed(2),
		MinInstallments:   o.MinInstallments,
		MaxInstallments:   o.MaxInstallments,
		Rate:              decimal.NewFromFloat(o.Rate).String(),
		DaysToFirstCharge: o.DaysToFirstCharge,
		Active:            o.Active,
		CreatedAt:         o.CreatedAt,
	}
}

type ProposalResponse struct {
	ID                string    `json:"id"`
	PublicID          string    `json:"publicId"`
	OfferID           string    `json:"offerId"`
	CreditorName      string    `json:"creditorName"`
	Amount            string    `json:"amount"`
	MinInstallments   int       `json:"minInstallments"`
	MaxInstallments   int       `json:"maxInstallments"`
	DaysToFirstCharge int       `json:"daysToFirstCharge"`
	Rate              string    `json:"rate"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

func NewProposalResponse(p *origination.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:                strconv.FormatInt(p.ID, 10),
		PublicID:          p.PublicID,
		OfferID:           strconv.FormatInt(p.OfferID, 10),
		CreditorName:      p.CreditorName,
		Amount:            decimal.NewFromFloat(p.Amount).StringFixed(2),
		MinInstallments:   p.MinInstallments,
		MaxInstallments:   p.MaxInstallments,
		DaysToFirstCharge: p.DaysToFirstCharge,
		Rate:              decimal.NewFromFloat(p.Rate).String(),
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
	}
}

func NewProposalListResponse(proposals []origination.Proposal) []ProposalResponse {
	out := make([]ProposalResponse, len(proposals))
	for i := range proposals {
		out[i] = NewProposalResponse(&proposals[i])
	}
	return out
}

type InstallmentOptionResponse struct {
	Installments int    `json:"installments"`
	Value        string `json:"value"`
	Total        string `json:"total"`
}

func NewInstallmentOptionResponses(options []loancalc.InstallmentOption) []InstallmentOptionResponse {
	out := make([]InstallmentOptionResponse, len(options))
	for i, opt := range options {
		out[i] = InstallmentOptionResponse{
			Installments: opt.Installments,
			Value:        decimal.NewFromFloat(opt.InstallmentValue).StringFixed(2),
			Total:        decimal.NewFromFloat(opt.TotalValue).StringFixed(2),
		}
	}
	return out
}

type ProposalDetailsResponse struct {
	Proposal       ProposalResponse            `json:"proposal"`
	Options        []InstallmentOptionResponse `json:"installmentOptions"`
	FirstDueDate   string                      `json:"firstDueDate"`
	TotalInterests int64                       `json:"totalInterests"`
}

func NewProposalDetailsResponse(d *origination.ProposalDetails) ProposalDetailsResponse {
	return ProposalDetailsResponse{
		Proposal:       NewProposalResponse(&d.Proposal),
		Options:        NewInstallmentOptionResponses(d.Options),
		FirstDueDate:   d.FirstDueDate.Format(time.RFC3339[:10]),
		TotalInterests: d.TotalInterests,
	}
}

type InterestResponse struct {
	ID                  string     `json:"id"`
	ProposalID          string     `json:"proposalId"`
	DebtorID            string     `json:"debtorId"`
	Message             string     `json:"message,omitempty"`
	Status              string     `json:"status"`
	CreditorConfirmed   bool       `json:"creditorConfirmed"`
	DebtorConfirmed     bool       `json:"debtorConfirmed"`
	CreditorConfirmedAt *time.Time `json:"creditorConfirmedAt,omitempty"`
	DebtorConfirmedAt   *time.Time `json:"debtorConfirmedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func NewInterestResponse(i *origination.Interest) InterestResponse {
	return InterestResponse{
		ID:                  strconv.FormatInt(i.ID, 10),
		ProposalID:          strconv.FormatInt(i.ProposalID, 10),
		DebtorID:            strconv.FormatInt(i.DebtorID, 10),
		Message:             i.Message,
		Status:              string(i.Status),
		CreditorConfirmed:   i.CreditorConfirmed,
		DebtorConfirmed:     i.DebtorConfirmed,
		CreditorConfirmedAt: i.CreditorConfirmedAt,
		DebtorConfirmedAt:   i.DebtorConfirmedAt,
		CreatedAt:           i.CreatedAt,
	}
}

func NewInterestListResponse(interests []origination.Interest) []InterestResponse {
	out := make([]InterestResponse, len(interests))
	for i := range interests {
		out[i] = NewInterestResponse(&interests[i])
	}
	return out
}

type ConfirmInterestResponse struct {
	Interest InterestResponse `json:"interest"`
	Loan     *LoanResponse    `json:"loan,omitempty"`
}
