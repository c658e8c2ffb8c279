package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amountRequest struct {
	Amount decimal.Decimal  `json:"amount" binding:"required,positive_amount"`
	Limit  *decimal.Decimal `json:"limit" binding:"omitempty,nonnegative_amount"`
	Kind   string           `json:"kind" binding:"required,oneof=expense inventory_adjustment"`
}

func bindAmount(t *testing.T, body string) (*httptest.ResponseRecorder, amountRequest) {
	t.Helper()
	SetupValidator()

	var got amountRequest
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&got); err != nil {
			c.JSON(http.StatusBadRequest, ValidationDetails(err))
			return
		}
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return w, got
}

func TestSetupValidator_Amounts(t *testing.T) {
	t.Run("positive amount passes", func(t *testing.T) {
		w, got := bindAmount(t, `{"amount":"1500.50","kind":"expense"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("1500.50")))
	})

	t.Run("zero amount fails positive_amount", func(t *testing.T) {
		w, _ := bindAmount(t, `{"amount":"0","kind":"expense"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"amount"`)
		assert.Contains(t, w.Body.String(), "greater than zero")
	})

	t.Run("negative limit fails nonnegative_amount", func(t *testing.T) {
		w, _ := bindAmount(t, `{"amount":"10","limit":"-1","kind":"expense"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"limit"`)
	})

	t.Run("zero limit is accepted", func(t *testing.T) {
		w, _ := bindAmount(t, `{"amount":"10","limit":"0","kind":"expense"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oneof reports its choices", func(t *testing.T) {
		w, _ := bindAmount(t, `{"amount":"10","kind":"payroll"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Must be one of: expense inventory_adjustment")
	})
}

func TestValidationDetails_NotValidationError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
