package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/domain/loan"
)

type LoanResponse struct {
	ID               string                `json:"id"`
	CreditorID       string                `json:"creditorId"`
	DebtorID         string                `json:"debtorId"`
	ProposalID       string                `json:"proposalId"`
	Principal        string                `json:"principal"`
	InterestApplied  string                `json:"interestApplied"`
	TotalValue       string                `json:"totalValue"`
	Installments     int                   `json:"installments"`
	PaidInstallments int                   `json:"paidInstallments"`
	StartDate        string                `json:"startDate"`
	FinalDueDate     string                `json:"finalDueDate"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	Schedule         []InstallmentResponse `json:"schedule,omitempty"`
}

type InstallmentResponse struct {
	ID          string     `json:"id"`
	Number      int        `json:"number"`
	Value       string     `json:"value"`
	DueDate     string     `json:"dueDate"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	Paid        bool       `json:"paid"`
	Overdue     bool       `json:"overdue"`
}

type SummaryResponse struct {
	LoanID       string               `json:"loanId"`
	Status       string               `json:"status"`
	TotalPaid    string               `json:"totalPaid"`
	TotalPending string               `json:"totalPending"`
	PaidCount    int                  `json:"paidCount"`
	PendingCount int                  `json:"pendingCount"`
	OverdueCount int                  `json:"overdueCount"`
	NextDue      *InstallmentResponse `json:"nextDue,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func NewLoanResponse(domainLoan *loan.Loan, includeSchedule bool) LoanResponse {
	formatDecimalMoney := func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	}

	resp := LoanResponse{
		ID:               strconv.FormatInt(domainLoan.ID, 10),
		CreditorID:       strconv.FormatInt(domainLoan.CreditorID, 10),
		DebtorID:         strconv.FormatInt(domainLoan.DebtorID, 10),
		ProposalID:       strconv.FormatInt(domainLoan.ProposalID, 10),
		Principal:        formatDecimalMoney(domainLoan.Principal),
		InterestApplied:  formatDecimalMoney(domainLoan.InterestApplied),
		TotalValue:       formatDecimalMoney(domainLoan.TotalValue),
		Installments:     domainLoan.Installments,
		PaidInstallments: domainLoan.PaidInstallments,
		StartDate:        domainLoan.StartDate.Format(time.RFC3339[:10]),
		FinalDueDate:     domainLoan.FinalDueDate.Format(time.RFC3339[:10]),
		Status:           string(domainLoan.Status),
		CreatedAt:        domainLoan.CreatedAt,
		UpdatedAt:        domainLoan.UpdatedAt,
	}

	if includeSchedule && domainLoan.Schedule != nil {
		resp.Schedule = make([]InstallmentResponse, len(domainLoan.Schedule))
		for i := range domainLoan.Schedule {
			resp.Schedule[i] = NewInstallmentResponse(&domainLoan.Schedule[i])
		}
	}

	return resp
}

func NewInstallmentResponse(entry *loan.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:          strconv.FormatInt(entry.ID, 10),
		Number:      entry.Number,
		Value:       decimal.NewFromFloat(entry.Value).StringFixed(2),
		DueDate:     entry.DueDate.Format(time.RFC3339[:10]),
		PaymentDate: entry.PaymentDate,
		Paid:        entry.Paid,
		Overdue:     entry.Overdue,
	}
}

func NewInstallmentListResponse(schedule []loan.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, len(schedule))
	for i := range schedule {
		out[i] = NewInstallmentResponse(&schedule[i])
	}
	return out
}

func NewLoanListResponse(loans []loan.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = NewLoanResponse(&loans[i], false)
	}
	return out
}

func NewSummaryResponse(s *loan.Summary) SummaryResponse {
	resp := SummaryResponse{
		LoanID:       strconv.FormatInt(s.LoanID, 10),
		Status:       string(s.Status),
		TotalPaid:    decimal.NewFromFloat(s.TotalPaid).StringFixed(2),
		TotalPending: decimal.NewFromFloat(s.TotalPending).StringFixed(2),
		PaidCount:    s.PaidCount,
		PendingCount: s.PendingCount,
		OverdueCount: s.OverdueCount,
	}
	if s.NextDue != nil {
		next := NewInstallmentResponse(s.NextDue)
		resp.NextDue = &next
	}
	return resp
}
