// Package dto holds the JSON envelopes shared by every HTTP handler.
package dto

import (
	"strings"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
)

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Type      string             `json:"type"`
	Message   string             `json:"message"`
	Context   map[string]any     `json:"context,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// ValidationDetail describes one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewPageResponse creates a success response from a paginated result
func NewPageResponse[T any](page shared.Paginated[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Response{
		Success: true,
		Data:    items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, errorType, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Type:      errorType,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewRuleErrorResponse renders a business rule rejection with its context.
// The code is the upper-cased error type, e.g. CREDIT_LIMIT_EXCEEDED.
func NewRuleErrorResponse(err shared.RuleError, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      strings.ToUpper(err.ErrorType()),
			Type:      err.ErrorType(),
			Message:   err.Error(),
			Context:   err.Context(),
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a 400 body listing invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidation, ErrorTypeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
