package account

import (
	"strings"
	"time"
)

// Role distinguishes the two account variants of the marketplace.
type Role string

const (
	RoleCreditor Role = "CREDITOR"
	RoleDebtor   Role = "DEBTOR"
)

// Account is the capability shared by creditors and debtors: both can be
// looked up by email and hold a password hash. There is no shared base
// struct; the two variants own their fields.
type Account interface {
	AccountID() int64
	EmailAddress() string
	HashedPassword() string
	AccountRole() Role
}

// Creditor lends money. Balance is the amount available for new loans and
// is mutated only by deposits and by the loan-creation debit.
type Creditor struct {
	ID           int64
	Name         string
	Document     string
	Phone        string
	Email        string
	PasswordHash string
	Balance      float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Creditor) AccountID() int64       { return c.ID }
func (c *Creditor) EmailAddress() string   { return c.Email }
func (c *Creditor) HashedPassword() string { return c.PasswordHash }
func (c *Creditor) AccountRole() Role      { return RoleCreditor }

// Debtor borrows money. Address fields are optional at registration but
// must be complete before the debtor may register interest in a proposal.
type Debtor struct {
	ID           int64
	Name         string
	Document     string
	Phone        string
	Email        string
	PasswordHash string
	Address      string
	City         string
	State        string
	ZipCode      string
	BirthDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Debtor) AccountID() int64       { return d.ID }
func (d *Debtor) EmailAddress() string   { return d.Email }
func (d *Debtor) HashedPassword() string { return d.PasswordHash }
func (d *Debtor) AccountRole() Role      { return RoleDebtor }

// ProfileComplete reports whether the debtor filled in the address data
// required before expressing interest in a proposal.
func (d *Debtor) ProfileComplete() bool {
	return strings.TrimSpace(d.Address) != "" &&
		strings.TrimSpace(d.City) != "" &&
		strings.TrimSpace(d.State) != "" &&
		strings.TrimSpace(d.ZipCode) != ""
}

var _ Account = (*Creditor)(nil)
var _ Account = (*Debtor)(nil)
