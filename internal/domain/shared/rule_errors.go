package shared

import (
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error type tags carried in API responses.
const (
	ErrorTypeBusinessRule   = "business_rule_violation"
	ErrorTypeCreditLimit    = "credit_limit_exceeded"
	ErrorTypeApproval       = "approval_required"
	ErrorTypeRoleSeparation = "role_separation_violation"
)

// RoleApprover is the role an ApprovalRequired error points the caller to.
const RoleApprover = "approver"

// RuleError is an expected business outcome rather than a failure.
// Rule errors are returned to the client as-is and never reported to error tracking.
type RuleError interface {
	error
	ErrorType() string
	HTTPStatus() int
	Context() map[string]any
}

// IsReportable reports whether err should reach error tracking and span status.
func IsReportable(err error) bool {
	if err == nil {
		return false
	}
	var re RuleError
	return !errors.As(err, &re)
}

// AsRuleError unwraps err into a RuleError if it is one.
func AsRuleError(err error) (RuleError, bool) {
	var re RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// BusinessRuleViolation is the generic 422 rule failure.
type BusinessRuleViolation struct {
	Rule    string
	Message string
	Details map[string]any
}

// NewBusinessRuleViolation creates a BusinessRuleViolation for the named rule
func NewBusinessRuleViolation(rule, message string, details map[string]any) *BusinessRuleViolation {
	return &BusinessRuleViolation{Rule: rule, Message: message, Details: details}
}

func (e *BusinessRuleViolation) Error() string     { return e.Message }
func (e *BusinessRuleViolation) ErrorType() string { return ErrorTypeBusinessRule }
func (e *BusinessRuleViolation) HTTPStatus() int   { return http.StatusUnprocessableEntity }

// Context returns the rule name plus any details attached at construction
func (e *BusinessRuleViolation) Context() map[string]any {
	ctx := make(map[string]any, len(e.Details)+1)
	maps.Copy(ctx, e.Details)
	ctx["rule"] = e.Rule
	return ctx
}

// CreditLimitExceeded is raised when an order amount exceeds a customer's available credit.
type CreditLimitExceeded struct {
	CustomerID      uuid.UUID
	CustomerName    string
	CreditLimit     decimal.Decimal
	CurrentUsage    decimal.Decimal
	AvailableCredit decimal.Decimal
	OrderAmount     decimal.Decimal
	ExcessAmount    decimal.Decimal
}

// NewCreditLimitExceeded builds the error from the limit, usage and order amount.
// Available credit and excess are derived.
func NewCreditLimitExceeded(customerID uuid.UUID, customerName string, limit, usage, amount decimal.Decimal) *CreditLimitExceeded {
	available := limit.Sub(usage)
	return &CreditLimitExceeded{
		CustomerID:      customerID,
		CustomerName:    customerName,
		CreditLimit:     limit,
		CurrentUsage:    usage,
		AvailableCredit: available,
		OrderAmount:     amount,
		ExcessAmount:    amount.Sub(available),
	}
}

func (e *CreditLimitExceeded) Error() string {
	return fmt.Sprintf("Credit limit exceeded for customer %s: order amount %s exceeds available credit %s by %s",
		e.CustomerName, e.OrderAmount.StringFixed(2), e.AvailableCredit.StringFixed(2), e.ExcessAmount.StringFixed(2))
}

func (e *CreditLimitExceeded) ErrorType() string { return ErrorTypeCreditLimit }
func (e *CreditLimitExceeded) HTTPStatus() int   { return http.StatusUnprocessableEntity }

func (e *CreditLimitExceeded) Context() map[string]any {
	return map[string]any{
		"customer_id":      e.CustomerID.String(),
		"customer_name":    e.CustomerName,
		"credit_limit":     e.CreditLimit,
		"current_usage":    e.CurrentUsage,
		"available_credit": e.AvailableCredit,
		"order_amount":     e.OrderAmount,
		"excess_amount":    e.ExcessAmount,
	}
}

// ApprovalRequired blocks a transition until an approval record exists.
type ApprovalRequired struct {
	Action       string
	Reason       string
	RequiresRole string
	Amount       decimal.Decimal
	Threshold    decimal.Decimal
}

// NewApprovalRequired creates an ApprovalRequired error that asks for the approver role
func NewApprovalRequired(action, reason string, amount, threshold decimal.Decimal) *ApprovalRequired {
	return &ApprovalRequired{
		Action:       action,
		Reason:       reason,
		RequiresRole: RoleApprover,
		Amount:       amount,
		Threshold:    threshold,
	}
}

func (e *ApprovalRequired) Error() string     { return "Approval required: " + e.Reason }
func (e *ApprovalRequired) ErrorType() string { return ErrorTypeApproval }
func (e *ApprovalRequired) HTTPStatus() int   { return http.StatusForbidden }

func (e *ApprovalRequired) Context() map[string]any {
	return map[string]any{
		"action":        e.Action,
		"reason":        e.Reason,
		"requires_role": e.RequiresRole,
		"amount":        e.Amount,
		"threshold":     e.Threshold,
	}
}

// RoleSeparationViolation is raised when one user would act in incompatible capacities.
type RoleSeparationViolation struct {
	Rule    string
	Message string
}

// NewRoleSeparationViolation creates a violation for the named rule
func NewRoleSeparationViolation(rule, message string) *RoleSeparationViolation {
	return &RoleSeparationViolation{Rule: rule, Message: message}
}

func (e *RoleSeparationViolation) Error() string     { return e.Message }
func (e *RoleSeparationViolation) ErrorType() string { return ErrorTypeRoleSeparation }
func (e *RoleSeparationViolation) HTTPStatus() int   { return http.StatusForbidden }

func (e *RoleSeparationViolation) Context() map[string]any {
	return map[string]any{"violated_rule": e.Rule}
}

var (
	_ RuleError = (*BusinessRuleViolation)(nil)
	_ RuleError = (*CreditLimitExceeded)(nil)
	_ RuleError = (*ApprovalRequired)(nil)
	_ RuleError = (*RoleSeparationViolation)(nil)
)
