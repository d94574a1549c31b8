package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"loan-marketplace/internal/api/handler/dto"
	mw "loan-marketplace/internal/api/middleware"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/pkg/apperrors"
)

type LoanHandler struct {
	service loan.LedgerService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LedgerService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrPreconditionFailed):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrResourceExhausted):
		status, message = http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("%s not found in URL path", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

func callerIdentity(r *http.Request) (mw.Identity, error) {
	id, ok := mw.IdentityFromContext(r.Context())
	if !ok {
		return mw.Identity{}, fmt.Errorf("%w: missing caller identity", apperrors.ErrUnauthorized)
	}
	return id, nil
}

// loanParty checks that the caller is one of the two parties of the loan.
func loanParty(id mw.Identity, l *loan.Loan) error {
	if id.Role == account.RoleCreditor && l.CreditorID == id.AccountID {
		return nil
	}
	if id.Role == account.RoleDebtor && l.DebtorID == id.AccountID {
		return nil
	}
	return fmt.Errorf("%w: loan belongs to another account", apperrors.ErrForbidden)
}

// GetLoan retrieves the details of a specific loan.
//
// @Summary Retrieve loan details
// @Description Retrieves a loan by its ID. The repayment schedule can be included with the query parameter `include=schedule`.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param include query string false "Optional parameter to include the schedule (use 'schedule')"
// @Success 200 {object} dto.LoanResponse "Loan details successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 403 {object} dto.ErrorResponse "Loan belongs to another account"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := loanParty(identity, domainLoan); err != nil {
		respondError(w, err)
		return
	}

	includeSchedule := r.URL.Query().Get("include") == "schedule"
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(domainLoan, includeSchedule))
}

// ListLoans lists the caller's loans.
//
// @Summary List loans of the authenticated account
// @Description Lists loans where the caller is the creditor or the debtor, depending on their role.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "Loans successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var loans []loan.Loan
	if identity.Role == account.RoleCreditor {
		loans, err = h.service.GetLoansByCreditor(r.Context(), identity.AccountID)
	} else {
		loans, err = h.service.GetLoansByDebtor(r.Context(), identity.AccountID)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}

// GetInstallments lists the schedule of a loan.
//
// @Summary Retrieve the installment schedule
// @Description Lists all installments of a loan with current overdue flags.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {array} dto.InstallmentResponse "Schedule successfully retrieved"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/installments [get]
// @Security BearerAuth
func (h *LoanHandler) GetInstallments(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := loanParty(identity, domainLoan); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewInstallmentListResponse(domainLoan.Schedule))
}

// GetArrears lists overdue unpaid installments of a loan.
//
// @Summary Retrieve overdue installments
// @Description Lists unpaid installments whose due date has passed.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {array} dto.InstallmentResponse "Arrears successfully retrieved"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/arrears [get]
// @Security BearerAuth
func (h *LoanHandler) GetArrears(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := loanParty(identity, domainLoan); err != nil {
		respondError(w, err)
		return
	}

	arrears, err := h.service.Arrears(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInstallmentListResponse(arrears))
}

// GetSummary returns the payment progress of a loan.
//
// @Summary Retrieve loan summary
// @Description Aggregates paid and pending totals, counters and the next due installment.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.SummaryResponse "Summary successfully retrieved"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/summary [get]
// @Security BearerAuth
func (h *LoanHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := loanParty(identity, domainLoan); err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.service.GetSummary(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}

// PayInstallment settles one installment of a loan.
//
// @Summary Pay an installment
// @Description Marks the installment as paid. Each installment is paid in full, exactly once, in any order.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param installmentID path int true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse "Payment successfully processed"
// @Failure 403 {object} dto.ErrorResponse "Only the loan's debtor can pay"
// @Failure 404 {object} dto.ErrorResponse "Loan or installment not found"
// @Failure 409 {object} dto.ErrorResponse "Installment already paid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/installments/{installmentID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	installmentID, err := idFromURL(r, "installmentID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if identity.Role != account.RoleDebtor || domainLoan.DebtorID != identity.AccountID {
		respondError(w, fmt.Errorf("%w: only the loan's debtor can pay installments", apperrors.ErrForbidden))
		return
	}

	belongs := false
	for i := range domainLoan.Schedule {
		if domainLoan.Schedule[i].ID == installmentID {
			belongs = true
			break
		}
	}
	if !belongs {
		respondError(w, fmt.Errorf("%w: installment does not belong to loan %d", apperrors.ErrNotFound, loanID))
		return
	}

	paid, err := h.service.PayInstallment(r.Context(), installmentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInstallmentResponse(paid))
}
