package origination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/domain/notification"
	"loan-marketplace/internal/event"
	"loan-marketplace/internal/infrastructure/monitoring"
	"loan-marketplace/internal/pkg/apperrors"
	"loan-marketplace/internal/pkg/clock"
	"loan-marketplace/internal/pkg/loancalc"
	"loan-marketplace/internal/pkg/publicid"
)

const (
	// Bounded retry for row-lock and serialization conflicts during
	// confirmation. Exhaustion surfaces as ErrConflict.
	maxTxAttempts  = 3
	txRetryBackoff = 25 * time.Millisecond
)

// ProposalDetails is the borrower-facing detail view of a proposal.
type ProposalDetails struct {
	Proposal       Proposal                      `json:"proposal"`
	Options        []loancalc.InstallmentOption  `json:"installmentOptions"`
	FirstDueDate   time.Time                     `json:"firstDueDate"`
	TotalInterests int64                         `json:"totalInterests"`
}

// Engine drives the Offer -> Proposal -> Interest -> Loan state machine.
type Engine interface {
	CreateOffer(ctx context.Context, o *Offer) (*Offer, error)
	GetOffer(ctx context.Context, offerID int64) (*Offer, error)
	ListOffers(ctx context.Context, creditorID int64, activeOnly bool) ([]Offer, error)
	DeactivateOffer(ctx context.Context, offerID int64) error
	DeleteOffer(ctx context.Context, offerID int64) error
	OfferOptions(ctx context.Context, offerID int64) ([]loancalc.InstallmentOption, error)

	PublishProposal(ctx context.Context, offerID int64, overrideRate *float64) (*Proposal, error)
	GetProposal(ctx context.Context, proposalID int64) (*Proposal, error)
	ListPublicProposals(ctx context.Context) ([]Proposal, error)
	ListProposalsByCreditor(ctx context.Context, creditorID int64) ([]Proposal, error)
	ProposalDetailsByID(ctx context.Context, proposalID int64) (*ProposalDetails, error)
	ProposalStatsByID(ctx context.Context, proposalID int64) (*ProposalStats, error)
	CancelProposal(ctx context.Context, proposalID int64) error

	RegisterInterest(ctx context.Context, proposalID, debtorID int64, message string) (*Interest, error)
	GetInterest(ctx context.Context, interestID int64) (*Interest, error)
	ListInterestsByProposal(ctx context.Context, proposalID int64) ([]Interest, error)
	ListInterestsByDebtor(ctx context.Context, debtorID int64) ([]Interest, error)
	Approve(ctx context.Context, interestID int64) (*Interest, error)
	Reject(ctx context.Context, interestID int64) (*Interest, error)
	CancelInterest(ctx context.Context, interestID int64) error

	// Confirm records one party's confirmation. When the other party
	// already confirmed, the loan is created in the same transaction
	// and returned; otherwise the returned loan is nil.
	Confirm(ctx context.Context, interestID int64, party Party, chosenInstallments int) (*Interest, *loan.Loan, error)
}

type engine struct {
	offers    OfferRepository
	proposals ProposalRepository
	interests InterestRepository
	creditors CreditorStore
	debtors   DebtorStore
	loans     LoanStore
	cache     ProposalCache
	sink      notification.Sink
	events    event.Publisher
	ids       *publicid.Generator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewEngine(
	offers OfferRepository,
	proposals ProposalRepository,
	interests InterestRepository,
	creditors CreditorStore,
	debtors DebtorStore,
	loans LoanStore,
	cache ProposalCache,
	sink notification.Sink,
	events event.Publisher,
	ids *publicid.Generator,
	clk clock.Clock,
	logger *slog.Logger,
) Engine {
	if offers == nil || proposals == nil || interests == nil || creditors == nil ||
		debtors == nil || loans == nil || sink == nil || events == nil || ids == nil || clk == nil {
		panic("origination engine dependencies cannot be nil")
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &engine{
		offers:    offers,
		proposals: proposals,
		interests: interests,
		creditors: creditors,
		debtors:   debtors,
		loans:     loans,
		cache:     cache,
		sink:      sink,
		events:    events,
		ids:       ids,
		clock:     clk,
		logger:    logger.With(slog.String("component", "originationEngine")),
	}
}

func (e *engine) CreateOffer(ctx context.Context, o *Offer) (*Offer, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.creditors.FindByID(ctx, o.CreditorID); err != nil {
		return nil, err
	}

	// Balance is deliberately not checked here; the offer is only a
	// template, funds are committed at loan creation.
	o.Active = true
	if err := e.offers.Create(ctx, o); err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "Offer created", "offerID", o.ID, "creditorID", o.CreditorID)
	return o, nil
}

func (e *engine) GetOffer(ctx context.Context, offerID int64) (*Offer, error) {
	return e.offers.FindByID(ctx, offerID)
}

func (e *engine) ListOffers(ctx context.Context, creditorID int64, activeOnly bool) ([]Offer, error) {
	return e.offers.FindByCreditor(ctx, creditorID, activeOnly)
}

func (e *engine) DeactivateOffer(ctx context.Context, offerID int64) error {
	if _, err := e.offers.FindByID(ctx, offerID); err != nil {
		return err
	}
	return e.offers.SetActive(ctx, offerID, false)
}

func (e *engine) DeleteOffer(ctx context.Context, offerID int64) error {
	if _, err := e.offers.FindByID(ctx, offerID); err != nil {
		return err
	}
	count, err := e.proposals.CountByOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: offer already has proposals and cannot be deleted", apperrors.ErrConflict)
	}
	return e.offers.Delete(ctx, offerID)
}

func (e *engine) OfferOptions(ctx context.Context, offerID int64) ([]loancalc.InstallmentOption, error) {
	o, err := e.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return loancalc.Options(o.Amount, o.MinInstallments, o.MaxInstallments, o.Rate)
}

func (e *engine) PublishProposal(ctx context.Context, offerID int64, overrideRate *float64) (*Proposal, error) {
	o, err := e.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !o.Active {
		return nil, fmt.Errorf("%w: offer is not active", apperrors.ErrInvalidState)
	}

	rate := o.Rate
	if overrideRate != nil {
		if *overrideRate < 0 {
			return nil, apperrors.NewValidationError("rate", "override rate must be greater than or equal to zero")
		}
		rate = *overrideRate
	}

	creditor, err := e.creditors.FindByID(ctx, o.CreditorID)
	if err != nil {
		return nil, err
	}

	attempts := 0
	pub, err := e.ids.GenerateUnique(func(candidate string) (bool, error) {
		attempts++
		return e.proposals.ExistsPublicID(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	monitoring.RecordPublicIDAttempts(attempts)

	p := &Proposal{
		PublicID:          pub,
		OfferID:           o.ID,
		CreditorID:        o.CreditorID,
		CreditorName:      creditor.Name,
		Amount:            o.Amount,
		MinInstallments:   o.MinInstallments,
		MaxInstallments:   o.MaxInstallments,
		DaysToFirstCharge: o.DaysToFirstCharge,
		Rate:              rate,
		Status:            ProposalActive,
	}
	if err := e.proposals.Create(ctx, p); err != nil {
		return nil, err
	}

	e.cache.Invalidate(ctx)
	monitoring.RecordProposalPublished()
	e.logger.InfoContext(ctx, "Proposal published",
		"proposalID", p.ID, "publicID", p.PublicID, "offerID", o.ID)
	return p, nil
}

func (e *engine) GetProposal(ctx context.Context, proposalID int64) (*Proposal, error) {
	return e.proposals.FindByID(ctx, proposalID)
}

func (e *engine) ListPublicProposals(ctx context.Context) ([]Proposal, error) {
	if cached, ok := e.cache.GetActive(ctx); ok {
		return cached, nil
	}
	active, err := e.proposals.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	e.cache.SetActive(ctx, active)
	return active, nil
}

func (e *engine) ListProposalsByCreditor(ctx context.Context, creditorID int64) ([]Proposal, error) {
	return e.proposals.FindByCreditor(ctx, creditorID)
}

func (e *engine) ProposalDetailsByID(ctx context.Context, proposalID int64) (*ProposalDetails, error) {
	p, err := e.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	options, err := loancalc.Options(p.Amount, p.MinInstallments, p.MaxInstallments, p.Rate)
	if err != nil {
		return nil, err
	}
	total, err := e.interestCount(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return &ProposalDetails{
		Proposal:       *p,
		Options:        options,
		FirstDueDate:   loancalc.FirstDueDate(e.clock.Now(), p.DaysToFirstCharge),
		TotalInterests: total,
	}, nil
}

func (e *engine) interestCount(ctx context.Context, proposalID int64) (int64, error) {
	all, err := e.interests.FindByProposal(ctx, proposalID)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (e *engine) ProposalStatsByID(ctx context.Context, proposalID int64) (*ProposalStats, error) {
	p, err := e.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	total, err := e.interestCount(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	pending, err := e.interests.CountByProposalAndStatus(ctx, proposalID, InterestPending)
	if err != nil {
		return nil, err
	}
	approved, err := e.interests.CountByProposalAndStatus(ctx, proposalID, InterestApproved)
	if err != nil {
		return nil, err
	}
	loansCreated, err := e.loans.CountByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return &ProposalStats{
		ProposalID:        proposalID,
		Status:            p.Status,
		TotalInterests:    total,
		PendingInterests:  pending,
		ApprovedInterests: approved,
		LoansCreated:      loansCreated,
	}, nil
}

func (e *engine) CancelProposal(ctx context.Context, proposalID int64) error {
	p, err := e.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}
	switch p.Status {
	case ProposalCancelled:
		return fmt.Errorf("%w: proposal is already cancelled", apperrors.ErrInvalidState)
	case ProposalAccepted:
		return fmt.Errorf("%w: an accepted proposal cannot be cancelled", apperrors.ErrInvalidState)
	}

	pending, err := e.interests.CountByProposalAndStatus(ctx, proposalID, InterestPending)
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%w: proposal has pending interests; reject them first", apperrors.ErrInvalidState)
	}

	if err := e.proposals.UpdateStatus(ctx, proposalID, ProposalCancelled); err != nil {
		return err
	}
	e.cache.Invalidate(ctx)
	e.logger.InfoContext(ctx, "Proposal cancelled", "proposalID", proposalID)
	return nil
}

func (e *engine) RegisterInterest(ctx context.Context, proposalID, debtorID int64, message string) (*Interest, error) {
	p, err := e.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.Status != ProposalActive {
		return nil, fmt.Errorf("%w: proposal is not active", apperrors.ErrInvalidState)
	}

	d, err := e.debtors.FindByID(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	if !d.ProfileComplete() {
		return nil, fmt.Errorf("%w: debtor profile must include address, city, state and zip code", apperrors.ErrPreconditionFailed)
	}

	exists, err := e.interests.ExistsForProposalAndDebtor(ctx, proposalID, debtorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: interest already registered for this proposal", apperrors.ErrConflict)
	}

	i := &Interest{
		ProposalID: proposalID,
		DebtorID:   debtorID,
		Message:    message,
		Status:     InterestPending,
	}
	if err := e.interests.Create(ctx, i); err != nil {
		return nil, err
	}

	_ = e.sink.Notify(ctx, notification.Notification{
		RecipientType: notification.RecipientCreditor,
		RecipientID:   p.CreditorID,
		Kind:          notification.KindNewInterest,
		Title:         "New Interest in Your Proposal",
		Message:       fmt.Sprintf("%s expressed interest in proposal %s for %.2f.", d.Name, p.PublicID, p.Amount),
		ReferenceID:   fmt.Sprintf("%d", p.ID),
		ReferenceType: notification.RefProposal,
	})
	e.logger.InfoContext(ctx, "Interest registered",
		"interestID", i.ID, "proposalID", proposalID, "debtorID", debtorID)
	return i, nil
}

func (e *engine) GetInterest(ctx context.Context, interestID int64) (*Interest, error) {
	return e.interests.FindByID(ctx, interestID)
}

func (e *engine) ListInterestsByProposal(ctx context.Context, proposalID int64) ([]Interest, error) {
	return e.interests.FindByProposal(ctx, proposalID)
}

func (e *engine) ListInterestsByDebtor(ctx context.Context, debtorID int64) ([]Interest, error) {
	return e.interests.FindByDebtor(ctx, debtorID)
}

func (e *engine) Approve(ctx context.Context, interestID int64) (*Interest, error) {
	i, err := e.interests.FindByID(ctx, interestID)
	if err != nil {
		return nil, err
	}
	if i.Status != InterestPending {
		return nil, fmt.Errorf("%w: only pending interests can be approved", apperrors.ErrInvalidState)
	}

	if err := e.interests.UpdateStatus(ctx, interestID, InterestApproved); err != nil {
		return nil, err
	}
	i.Status = InterestApproved

	p, err := e.proposals.FindByID(ctx, i.ProposalID)
	if err == nil {
		_ = e.sink.Notify(ctx, notification.Notification{
			RecipientType: notification.RecipientDebtor,
			RecipientID:   i.DebtorID,
			Kind:          notification.KindApproval,
			Title:         "Your Interest Was Approved",
			Message:       fmt.Sprintf("The creditor approved your interest in proposal %s. Awaiting your confirmation.", p.PublicID),
			ReferenceID:   fmt.Sprintf("%d", i.ID),
			ReferenceType: notification.RefInterest,
		})
	}
	return i, nil
}

func (e *engine) Reject(ctx context.Context, interestID int64) (*Interest, error) {
	i, err := e.interests.FindByID(ctx, interestID)
	if err != nil {
		return nil, err
	}
	if i.Status != InterestPending && i.Status != InterestApproved {
		return nil, fmt.Errorf("%w: only pending or approved interests can be rejected", apperrors.ErrInvalidState)
	}
	// Once a party committed, rejection would orphan that confirmation.
	if i.AnyConfirmation() {
		return nil, fmt.Errorf("%w: interest already has confirmations and cannot be rejected", apperrors.ErrInvalidState)
	}

	if err := e.interests.UpdateStatus(ctx, interestID, InterestRejected); err != nil {
		return nil, err
	}
	i.Status = InterestRejected

	p, err := e.proposals.FindByID(ctx, i.ProposalID)
	if err == nil {
		_ = e.sink.Notify(ctx, notification.Notification{
			RecipientType: notification.RecipientDebtor,
			RecipientID:   i.DebtorID,
			Kind:          notification.KindRejection,
			Title:         "Interest Not Approved",
			Message:       fmt.Sprintf("Your interest in proposal %s was not approved by the creditor.", p.PublicID),
			ReferenceID:   fmt.Sprintf("%d", i.ID),
			ReferenceType: notification.RefInterest,
		})
	}
	return i, nil
}

func (e *engine) CancelInterest(ctx context.Context, interestID int64) error {
	i, err := e.interests.FindByID(ctx, interestID)
	if err != nil {
		return err
	}
	if i.Status != InterestPending {
		return fmt.Errorf("%w: only pending interests can be cancelled", apperrors.ErrInvalidState)
	}
	return e.interests.UpdateStatus(ctx, interestID, InterestCancelled)
}

func (e *engine) Confirm(ctx context.Context, interestID int64, party Party, chosenInstallments int) (*Interest, *loan.Loan, error) {
	if party != PartyCreditor && party != PartyDebtor {
		return nil, nil, fmt.Errorf("%w: unknown party %q", apperrors.ErrInvalidArgument, party)
	}
	if chosenInstallments <= 0 {
		return nil, nil, apperrors.NewValidationError("installments", "installment count is required")
	}

	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		i, l, err := e.tryConfirm(ctx, interestID, party, chosenInstallments)
		if err == nil {
			return i, l, nil
		}
		if !isTransientTxError(err) {
			return nil, nil, err
		}
		lastErr = err
		e.logger.WarnContext(ctx, "Transient conflict during confirmation, retrying",
			"interestID", interestID, "attempt", attempt+1, slog.Any("error", err))
		time.Sleep(txRetryBackoff << attempt)
	}
	return nil, nil, fmt.Errorf("%w: confirmation kept conflicting with concurrent updates: %v", apperrors.ErrConflict, lastErr)
}

func (e *engine) tryConfirm(ctx context.Context, interestID int64, party Party, chosenInstallments int) (i *Interest, created *loan.Loan, err error) {
	tx, err := e.interests.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			_ = e.interests.RollbackTx(ctx, tx)
		}
	}()

	i, err = e.interests.FindByIDForUpdate(ctx, tx, interestID)
	if err != nil {
		return nil, nil, err
	}
	if i.Status != InterestApproved {
		return nil, nil, fmt.Errorf("%w: interest must be approved before confirmation", apperrors.ErrInvalidState)
	}
	if i.ConfirmedBy(party) {
		return nil, nil, fmt.Errorf("%w: %s already confirmed", apperrors.ErrConflict, party)
	}

	p, err := e.proposals.FindByID(ctx, i.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	if chosenInstallments < p.MinInstallments || chosenInstallments > p.MaxInstallments {
		return nil, nil, fmt.Errorf("%w: installment count must be between %d and %d",
			apperrors.ErrPreconditionFailed, p.MinInstallments, p.MaxInstallments)
	}

	if party == PartyCreditor {
		// Advisory check; the binding one is the conditional debit
		// inside createLoan.
		creditor, err2 := e.creditors.FindByID(ctx, p.CreditorID)
		if err2 != nil {
			return nil, nil, err2
		}
		if creditor.Balance < p.Amount {
			return nil, nil, fmt.Errorf("%w: creditor balance is insufficient for this proposal", apperrors.ErrPreconditionFailed)
		}
	}

	now := e.clock.Now()
	if party == PartyCreditor {
		i.CreditorConfirmed = true
		i.CreditorConfirmedAt = &now
	} else {
		i.DebtorConfirmed = true
		i.DebtorConfirmedAt = &now
	}
	if err = e.interests.UpdateConfirmationInTx(ctx, tx, i); err != nil {
		return nil, nil, err
	}

	if i.LoanEligible() {
		created, err = e.createLoan(ctx, tx, i, p, chosenInstallments)
		if err != nil {
			return nil, nil, err
		}
	}

	if err = e.interests.CommitTx(ctx, tx); err != nil {
		return nil, nil, err
	}

	if created != nil {
		e.afterLoanCreated(ctx, p, i, created)
	} else {
		e.notifyPendingConfirmation(ctx, p, i, party)
	}
	return i, created, nil
}

// createLoan runs inside the confirmation transaction: loan + schedule
// insert, conditional balance debit and proposal acceptance either all
// commit or all roll back.
func (e *engine) createLoan(ctx context.Context, tx pgx.Tx, i *Interest, p *Proposal, chosenInstallments int) (*loan.Loan, error) {
	l, err := loan.NewLoan(loan.Terms{
		CreditorID:   p.CreditorID,
		DebtorID:     i.DebtorID,
		ProposalID:   p.ID,
		InterestID:   i.ID,
		Principal:    p.Amount,
		Rate:         p.Rate,
		Installments: chosenInstallments,
		DaysToFirst:  p.DaysToFirstCharge,
		StartDate:    e.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := e.creditors.DebitBalanceInTx(ctx, tx, p.CreditorID, p.Amount); err != nil {
		return nil, err
	}
	created, err := e.loans.CreateLoanInTx(ctx, tx, l)
	if err != nil {
		return nil, err
	}
	if err := e.proposals.UpdateStatusInTx(ctx, tx, p.ID, ProposalAccepted); err != nil {
		return nil, err
	}
	return created, nil
}

func (e *engine) afterLoanCreated(ctx context.Context, p *Proposal, i *Interest, l *loan.Loan) {
	e.cache.Invalidate(ctx)
	monitoring.RecordLoanCreated()

	_ = e.sink.Notify(ctx, notification.Notification{
		RecipientType: notification.RecipientCreditor,
		RecipientID:   l.CreditorID,
		Kind:          notification.KindLoanConfirmed,
		Title:         "Loan Confirmed",
		Message:       fmt.Sprintf("Loan of %.2f was confirmed and is now active.", l.TotalValue),
		ReferenceID:   fmt.Sprintf("%d", l.ID),
		ReferenceType: notification.RefLoan,
	})
	_ = e.sink.Notify(ctx, notification.Notification{
		RecipientType: notification.RecipientDebtor,
		RecipientID:   l.DebtorID,
		Kind:          notification.KindLoanConfirmed,
		Title:         "Loan Confirmed",
		Message:       fmt.Sprintf("Your loan of %.2f was confirmed in %d installments.", l.TotalValue, l.Installments),
		ReferenceID:   fmt.Sprintf("%d", l.ID),
		ReferenceType: notification.RefLoan,
	})

	if pubErr := e.events.PublishLoanCreated(ctx, event.LoanCreatedEvent{
		LoanID:       l.ID,
		CreditorID:   l.CreditorID,
		DebtorID:     l.DebtorID,
		ProposalID:   p.ID,
		Principal:    l.Principal,
		TotalValue:   l.TotalValue,
		Installments: l.Installments,
		StartDate:    l.StartDate,
		Timestamp:    e.clock.Now(),
	}); pubErr != nil {
		e.logger.WarnContext(ctx, "Failed to publish loan.created event", slog.Any("error", pubErr))
	}
	e.logger.InfoContext(ctx, "Loan created from confirmed interest",
		"loanID", l.ID, "interestID", i.ID, "proposalID", p.ID)
}

func (e *engine) notifyPendingConfirmation(ctx context.Context, p *Proposal, i *Interest, party Party) {
	if party == PartyCreditor {
		_ = e.sink.Notify(ctx, notification.Notification{
			RecipientType: notification.RecipientDebtor,
			RecipientID:   i.DebtorID,
			Kind:          notification.KindConfirmationPending,
			Title:         "Awaiting Your Confirmation",
			Message:       "The creditor confirmed the loan. Confirm to finalize.",
			ReferenceID:   fmt.Sprintf("%d", i.ID),
			ReferenceType: notification.RefInterest,
		})
		return
	}
	_ = e.sink.Notify(ctx, notification.Notification{
		RecipientType: notification.RecipientCreditor,
		RecipientID:   p.CreditorID,
		Kind:          notification.KindConfirmationPending,
		Title:         "Awaiting Your Confirmation",
		Message:       fmt.Sprintf("The debtor confirmed interest in proposal %s.", p.PublicID),
		ReferenceID:   fmt.Sprintf("%d", i.ID),
		ReferenceType: notification.RefInterest,
	})
}

// isTransientTxError reports lock/serialization conflicts worth retrying.
func isTransientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}
