package bankinfo

import "errors"

var (
	ErrNotConfigured = errors.New("bank info not configured")
	ErrInvalidInfo   = errors.New("bank name and account number are required")
)

// BankInfo is the shop's payment destination shown on the checkout
// page. There is a single active record.
type BankInfo struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	QRCodeImage   string `json:"qrCodeImage,omitempty"`
	BankLogo      string `json:"bankLogo,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}
