package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"loan-marketplace/internal/api/handler/dto"
	"loan-marketplace/internal/config"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/pkg/apperrors"
)

type AuthHandler struct {
	accounts account.Service
	cfg      config.Config
	logger   *slog.Logger
}

func NewAuthHandler(accounts account.Service, cfg config.Config, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		cfg:      cfg,
		logger:   l.With("component", "AuthHandler"),
	}
}

// RegisterCreditor creates a new creditor account.
//
// @Summary Register a creditor
// @Description Creates a creditor account. The balance starts at zero and is funded through deposits.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterCreditorRequest true "Creditor registration payload"
// @Success 201 {object} dto.CreditorResponse "Creditor successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/creditor [post]
func (h *AuthHandler) RegisterCreditor(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCreditorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	c := &account.Creditor{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	created, err := h.accounts.RegisterCreditor(r.Context(), c, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewCreditorResponse(created))
}

// RegisterDebtor creates a new debtor account.
//
// @Summary Register a debtor
// @Description Creates a debtor account. Address data may be provided now or completed later; it is required before expressing interest in a proposal.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterDebtorRequest true "Debtor registration payload"
// @Success 201 {object} dto.DebtorResponse "Debtor successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/debtor [post]
func (h *AuthHandler) RegisterDebtor(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDebtorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	d := &account.Debtor{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
	}
	if req.BirthDate != "" {
		birthDate, _ := time.Parse(time.RFC3339[:10], req.BirthDate)
		d.BirthDate = &birthDate
	}
	created, err := h.accounts.RegisterDebtor(r.Context(), d, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewDebtorResponse(created))
}

// Login authenticates an account and issues a bearer token.
//
// @Summary Authenticate and obtain a JWT bearer token
// @Description Verifies the credentials for the given role and returns a signed token carrying the account id and role.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login payload"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	acct, err := h.accounts.Authenticate(r.Context(), account.Role(req.Role), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(acct.AccountID(), 10),
		"role": string(acct.AccountRole()),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.cfg.Server.Auth.JWTSecret))
	if err != nil {
		h.logger.Error("Failed to sign token", "error", err)
		respondError(w, fmt.Errorf("%w: could not sign token", apperrors.ErrInternalServer))
		return
	}

	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     fmt.Sprintf("Bearer %s", tokenString),
		AccountID: strconv.FormatInt(acct.AccountID(), 10),
		Role:      string(acct.AccountRole()),
	})
}
