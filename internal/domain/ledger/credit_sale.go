package ledger

import (
	"fmt"
	"time"

	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the derived status of a credit sale
type SaleStatus string

const (
	SaleStatusActive  SaleStatus = "ACTIVE"  // At least one installment open, none overdue
	SaleStatusOverdue SaleStatus = "OVERDUE" // At least one unpaid installment past due
	SaleStatusPaid    SaleStatus = "PAID"    // All installments paid
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusActive, SaleStatusOverdue, SaleStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// InstallmentStatus represents the status of a single installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING" // Not yet paid, not yet due
	InstallmentStatusPaid    InstallmentStatus = "PAID"    // Payment recorded, terminal
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE" // Unpaid and past due date
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// PaymentMethod represents how an installment was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodPix      PaymentMethod = "PIX"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// remainderEpsilon is the threshold under which a remaining amount is
// treated as exactly zero, absorbing decimal drift from rounding.
var remainderEpsilon = decimal.NewFromFloat(0.01)

// Installment is one scheduled payment of a CreditSale. It is owned by
// exactly one sale; installment numbers form a contiguous 1..N sequence.
type Installment struct {
	shared.BaseEntity
	SaleID        uuid.UUID            `json:"sale_id"`
	Number        int                  `json:"number"`
	Amount        decimal.Decimal      `json:"amount"`
	DueDate       valueobject.CalDate  `json:"due_date"`
	Status        InstallmentStatus    `json:"status"`
	PaidDate      *valueobject.CalDate `json:"paid_date,omitempty"`
	PaymentMethod PaymentMethod        `json:"payment_method,omitempty"`
}

// IsPaid returns true if a payment has been recorded
func (i *Installment) IsPaid() bool {
	return i.PaidDate != nil
}

// ResolveStatus derives the installment status from its payment record and
// due date. Both the on-demand and the batch refresh paths go through this
// single function so the calendar-date comparison is identical everywhere.
func (i *Installment) ResolveStatus(today valueobject.CalDate) (InstallmentStatus, error) {
	if i.PaidDate != nil || i.PaymentMethod != "" {
		if i.PaidDate == nil || i.PaymentMethod == "" {
			return "", shared.NewDomainError("DATA_INTEGRITY",
				fmt.Sprintf("Installment %d has a partial payment record: paid date and payment method must both be set", i.Number))
		}
		return InstallmentStatusPaid, nil
	}
	if i.DueDate.Before(today) {
		return InstallmentStatusOverdue, nil
	}
	return InstallmentStatusPending, nil
}

// GetAmountMoney returns the installment amount as Money
func (i *Installment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.Amount)
}

// CreditSale is the aggregate root for a credit ("fiado") transaction.
// Status, TotalPaid and RemainingAmount are always derived from the owned
// installment set; callers never set them directly.
type CreditSale struct {
	shared.BaseAggregateRoot
	ClientID         *uuid.UUID          `json:"client_id,omitempty"`
	ClientName       string              `json:"client_name"`
	Products         string              `json:"products"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Discount         decimal.Decimal     `json:"discount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	InstallmentCount int                 `json:"installment_count"`
	FirstDueDate     valueobject.CalDate `json:"first_due_date"`
	SaleDate         valueobject.CalDate `json:"sale_date"`
	Status           SaleStatus          `json:"status"`
	TotalPaid        decimal.Decimal     `json:"total_paid"`
	RemainingAmount  decimal.Decimal     `json:"remaining_amount"`
	Installments     []Installment       `json:"installments"`
}

// NewCreditSale creates a credit sale and its full installment schedule as
// one unit. Installment k is due firstDueDate plus k-1 months with the
// day-of-month clamped to the target month; the rounding remainder of the
// equal split lands on the last installment so the schedule sums exactly
// to the total.
func NewCreditSale(
	clientName string,
	products string,
	subtotal valueobject.Money,
	discount valueobject.Money,
	installmentCount int,
	firstDueDate valueobject.CalDate,
	saleDate valueobject.CalDate,
	clientID *uuid.UUID,
	today valueobject.CalDate,
) (*CreditSale, error) {
	if clientName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(clientName) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot exceed 200 characters")
	}
	if products == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product description cannot be empty")
	}
	if installmentCount < 1 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Number of installments must be at least 1")
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Subtotal cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount cannot be negative")
	}
	if gte, err := discount.GreaterThanOrEqual(subtotal); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	} else if gte {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount must be less than subtotal")
	}
	total, err := subtotal.Subtract(discount)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Total amount must be positive")
	}
	if firstDueDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "First due date is required")
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale date is required")
	}

	sale := &CreditSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Products:          products,
		Subtotal:          subtotal.Amount(),
		Discount:          discount.Amount(),
		TotalAmount:       total.Amount(),
		InstallmentCount:  installmentCount,
		FirstDueDate:      firstDueDate,
		SaleDate:          saleDate,
		TotalPaid:         decimal.Zero,
		RemainingAmount:   total.Amount(),
	}

	parts, err := total.Split(installmentCount)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	sale.Installments = make([]Installment, installmentCount)
	for k := 0; k < installmentCount; k++ {
		inst := Installment{
			BaseEntity: shared.NewBaseEntity(),
			SaleID:     sale.ID,
			Number:     k + 1,
			Amount:     parts[k].Amount(),
			DueDate:    firstDueDate.AddMonths(k),
		}
		status, err := inst.ResolveStatus(today)
		if err != nil {
			return nil, err
		}
		inst.Status = status
		sale.Installments[k] = inst
	}

	sale.recomputeAggregates()
	sale.AddDomainEvent(NewCreditSaleCreatedEvent(sale))

	return sale, nil
}

// InstallmentByID returns the owned installment with the given ID, or nil
func (cs *CreditSale) InstallmentByID(id uuid.UUID) *Installment {
	for idx := range cs.Installments {
		if cs.Installments[idx].ID == id {
			return &cs.Installments[idx]
		}
	}
	return nil
}

// InstallmentByNumber returns the installment with the given 1-based number, or nil
func (cs *CreditSale) InstallmentByNumber(number int) *Installment {
	for idx := range cs.Installments {
		if cs.Installments[idx].Number == number {
			return &cs.Installments[idx]
		}
	}
	return nil
}

// PayInstallment records a payment against one owned installment and
// refreshes the sale aggregates. Paid installments are terminal: a second
// payment attempt fails with ALREADY_PAID and changes nothing.
func (cs *CreditSale) PayInstallment(installmentID uuid.UUID, paidDate valueobject.CalDate, method PaymentMethod, today valueobject.CalDate) error {
	inst := cs.InstallmentByID(installmentID)
	if inst == nil {
		return shared.NewDomainError("NOT_FOUND", "Installment not found")
	}
	if inst.IsPaid() || inst.Status == InstallmentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Installment %d has already been paid", inst.Number))
	}
	if paidDate.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Paid date is required")
	}
	if !method.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment method %q", method))
	}

	inst.PaidDate = &paidDate
	inst.PaymentMethod = method
	inst.Status = InstallmentStatusPaid

	cs.refreshOpenStatuses(today)
	cs.recomputeAggregates()
	cs.Touch()

	cs.AddDomainEvent(NewInstallmentPaidEvent(cs, inst))
	if cs.Status == SaleStatusPaid {
		cs.AddDomainEvent(NewCreditSalePaidEvent(cs))
	}

	return nil
}

// RefreshStatuses reapplies status derivation to every unpaid installment
// against the given date, then recomputes the sale aggregates. Returns true
// if anything changed; a second call with the same date is a no-op.
func (cs *CreditSale) RefreshStatuses(today valueobject.CalDate) (bool, error) {
	changed := cs.refreshOpenStatuses(today)

	previous := cs.Status
	cs.recomputeAggregates()
	if cs.Status != previous {
		changed = true
		if cs.Status == SaleStatusOverdue {
			cs.AddDomainEvent(NewCreditSaleOverdueEvent(cs))
		}
	}

	if changed {
		cs.Touch()
	}
	return changed, nil
}

// ResolveDisplayStatuses rederives installment and sale statuses against the
// given date without bumping the version, touching UpdatedAt or recording
// events. Read paths use this so the response never shows a stale status
// while the stored row and its version stay untouched until the next
// persisted refresh.
func (cs *CreditSale) ResolveDisplayStatuses(today valueobject.CalDate) {
	cs.refreshOpenStatuses(today)
	cs.recomputeAggregates()
}

// refreshOpenStatuses rederives the status of unpaid installments.
// Paid installments are never touched.
func (cs *CreditSale) refreshOpenStatuses(today valueobject.CalDate) bool {
	changed := false
	for idx := range cs.Installments {
		inst := &cs.Installments[idx]
		if inst.IsPaid() {
			continue
		}
		status, err := inst.ResolveStatus(today)
		if err != nil {
			// partial payment record; leave the stored status alone
			continue
		}
		if inst.Status != status {
			inst.Status = status
			changed = true
		}
	}
	return changed
}

// recomputeAggregates rebuilds TotalPaid, RemainingAmount and Status from
// the installment set. Remaining amounts within epsilon of zero collapse to
// exactly zero and never go negative.
func (cs *CreditSale) recomputeAggregates() {
	totalPaid := decimal.Zero
	allPaid := true
	anyOverdue := false

	for idx := range cs.Installments {
		inst := &cs.Installments[idx]
		switch inst.Status {
		case InstallmentStatusPaid:
			totalPaid = totalPaid.Add(inst.Amount)
		case InstallmentStatusOverdue:
			allPaid = false
			anyOverdue = true
		default:
			allPaid = false
		}
	}

	remaining := cs.TotalAmount.Sub(totalPaid)
	if remaining.Abs().LessThan(remainderEpsilon) || remaining.IsNegative() {
		remaining = decimal.Zero
	}

	cs.TotalPaid = totalPaid
	cs.RemainingAmount = remaining

	switch {
	case len(cs.Installments) > 0 && allPaid:
		cs.Status = SaleStatusPaid
	case anyOverdue:
		cs.Status = SaleStatusOverdue
	default:
		cs.Status = SaleStatusActive
	}
}

// Touch bumps the modification timestamp and version
func (cs *CreditSale) Touch() {
	cs.UpdatedAt = time.Now()
	cs.IncrementVersion()
}

// IsPaid returns true if every installment has been paid
func (cs *CreditSale) IsPaid() bool {
	return cs.Status == SaleStatusPaid
}

// IsOverdue returns true if any unpaid installment is past due
func (cs *CreditSale) IsOverdue() bool {
	return cs.Status == SaleStatusOverdue
}

// PaidCount returns the number of paid installments
func (cs *CreditSale) PaidCount() int {
	n := 0
	for idx := range cs.Installments {
		if cs.Installments[idx].IsPaid() {
			n++
		}
	}
	return n
}

// GetTotalAmountMoney returns the total amount as Money
func (cs *CreditSale) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(cs.TotalAmount)
}

// GetTotalPaidMoney returns the paid amount as Money
func (cs *CreditSale) GetTotalPaidMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(cs.TotalPaid)
}

// GetRemainingAmountMoney returns the remaining amount as Money
func (cs *CreditSale) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(cs.RemainingAmount)
}
