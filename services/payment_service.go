package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	appConfig "github.com/tawan-r/ruenthai-api/config"
)

// PaymentLink builds the PromptPay payment link for an amount. QR rendering
// of the link is left to the caller.
func PaymentLink(amount decimal.Decimal) (string, error) {
	cfg := appConfig.GetConfig()
	if cfg == nil || cfg.PromptPayID == "" {
		return "", fmt.Errorf("PROMPTPAY_ID is not configured")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", &ValidationError{Code: "INVALID_AMOUNT", Message: "จำนวนเงินไม่ถูกต้อง"}
	}
	return fmt.Sprintf("https://promptpay.io/%s/%s", cfg.PromptPayID, amount.StringFixed(2)), nil
}
