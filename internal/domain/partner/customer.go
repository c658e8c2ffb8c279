package partner

import (
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusBlocked  CustomerStatus = "blocked" // Blocked from further credit
)

// CustomerType decides which payment types a customer may use
type CustomerType string

const (
	CustomerTypeCash   CustomerType = "cash"
	CustomerTypeCredit CustomerType = "credit"
	CustomerTypeBoth   CustomerType = "both"
)

// IsValid reports whether the customer type is known
func (t CustomerType) IsValid() bool {
	switch t {
	case CustomerTypeCash, CustomerTypeCredit, CustomerTypeBoth:
		return true
	}
	return false
}

// Customer is the aggregate root for a buyer and its credit account.
// CreditUsed is the outstanding amount of unpaid credit sales.
type Customer struct {
	shared.TenantAggregateRoot
	Code             string
	Name             string
	Type             CustomerType
	Status           CustomerStatus
	Phone            string
	Email            string
	Address          string
	CreditLimit      decimal.Decimal
	CreditUsed       decimal.Decimal
	PaymentTermsDays int
	BlockReason      string
	Notes            string
}

// NewCustomer creates a new active customer with no credit extended
func NewCustomer(actor shared.Actor, code, name string, customerType CustomerType) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if !customerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be cash, credit or both")
	}

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                customerType,
		Status:              CustomerStatusActive,
		CreditLimit:         decimal.Zero,
		CreditUsed:          decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// SetContact sets phone, email and address
func (c *Customer) SetContact(phone, email, address string) {
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.touch()
}

// SetPaymentTerms sets the number of days a credit sale may stay unpaid
func (c *Customer) SetPaymentTerms(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	c.PaymentTermsDays = days
	c.touch()
	return nil
}

// SetCreditLimit sets the customer's credit limit
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	old := c.CreditLimit
	c.CreditLimit = limit
	c.touch()

	c.AddDomainEvent(NewCustomerCreditLimitChangedEvent(c, old))
	return nil
}

// RecordCreditSale adds a credit sale to the outstanding usage.
// Callers run the credit limit guard first; this only keeps usage consistent.
func (c *Customer) RecordCreditSale(amount decimal.Decimal, orderID uuid.UUID) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit sale amount must be positive")
	}
	if !c.AllowsCredit() {
		return shared.NewDomainError("CREDIT_NOT_ALLOWED", "Cash customers cannot buy on credit")
	}

	c.CreditUsed = c.CreditUsed.Add(amount)
	c.touch()

	c.AddDomainEvent(NewCustomerCreditUsageChangedEvent(c, amount, orderID, CreditMovementSale))
	return nil
}

// ApplyPayment reduces outstanding usage by a received payment
func (c *Customer) ApplyPayment(amount decimal.Decimal, orderID uuid.UUID) error {
	return c.reduceUsage(amount, orderID, CreditMovementPayment)
}

// ReleaseCredit returns the credit held by a cancelled order
func (c *Customer) ReleaseCredit(amount decimal.Decimal, orderID uuid.UUID) error {
	return c.reduceUsage(amount, orderID, CreditMovementRelease)
}

func (c *Customer) reduceUsage(amount decimal.Decimal, orderID uuid.UUID, movement CreditMovement) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if amount.GreaterThan(c.CreditUsed) {
		return shared.NewBusinessRuleViolation("payment_exceeds_usage",
			"Amount exceeds the customer's outstanding credit",
			map[string]any{
				"customer_id":   c.ID.String(),
				"amount":        amount,
				"current_usage": c.CreditUsed,
			})
	}

	c.CreditUsed = c.CreditUsed.Sub(amount)
	c.touch()

	c.AddDomainEvent(NewCustomerCreditUsageChangedEvent(c, amount.Neg(), orderID, movement))
	return nil
}

// Block stops the customer from taking new credit
func (c *Customer) Block(reason string) error {
	if c.Status == CustomerStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Customer is already blocked")
	}
	old := c.Status
	c.Status = CustomerStatusBlocked
	c.BlockReason = reason
	c.touch()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, old))
	return nil
}

// Activate activates the customer and clears any block
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	old := c.Status
	c.Status = CustomerStatusActive
	c.BlockReason = ""
	c.touch()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, old))
	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	old := c.Status
	c.Status = CustomerStatusInactive
	c.touch()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, old))
	return nil
}

// IsActive returns true if customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsBlocked returns true if customer is blocked
func (c *Customer) IsBlocked() bool {
	return c.Status == CustomerStatusBlocked
}

// IsCashOnly returns true for customers that never receive credit
func (c *Customer) IsCashOnly() bool {
	return c.Type == CustomerTypeCash
}

// AllowsCredit returns true for credit and both customers
func (c *Customer) AllowsCredit() bool {
	return c.Type == CustomerTypeCredit || c.Type == CustomerTypeBoth
}

// AvailableCredit returns limit minus usage. It may be negative when usage
// already exceeds a lowered limit.
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CreditUsed)
}

// CreditUtilization returns usage as a percentage of the limit.
// A zero limit with any usage counts as fully utilised.
func (c *Customer) CreditUtilization() decimal.Decimal {
	return Utilization(c.CreditLimit, c.CreditUsed)
}

// Utilization returns usage/limit*100 rounded to two places
func Utilization(limit, usage decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		if usage.IsPositive() {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	return usage.Div(limit).Mul(decimal.NewFromInt(100)).Round(2)
}

// PaymentDueDate returns when a credit sale booked at bookedAt falls due
func (c *Customer) PaymentDueDate(bookedAt time.Time) time.Time {
	return bookedAt.AddDate(0, 0, c.PaymentTermsDays)
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCustomerCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	return nil
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
