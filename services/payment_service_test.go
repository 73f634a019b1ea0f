package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tawan-r/ruenthai-api/config"
)

func TestPaymentLink(t *testing.T) {
	config.SetConfig(&config.Config{PromptPayID: "0812345678"})
	defer config.SetConfig(nil)

	link, err := PaymentLink(decimal.RequireFromString("250.5"))
	require.NoError(t, err)
	assert.Equal(t, "https://promptpay.io/0812345678/250.50", link)
}

func TestPaymentLink_NotConfigured(t *testing.T) {
	config.SetConfig(&config.Config{})
	defer config.SetConfig(nil)

	_, err := PaymentLink(decimal.RequireFromString("100.00"))
	require.Error(t, err)
}

func TestPaymentLink_InvalidAmount(t *testing.T) {
	config.SetConfig(&config.Config{PromptPayID: "0812345678"})
	defer config.SetConfig(nil)

	_, err := PaymentLink(decimal.Zero)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "INVALID_AMOUNT", validation.Code)
}
