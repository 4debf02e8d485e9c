package bankinfo

import (
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get() (BankInfo, error) {
	return s.repo.Get()
}

// Update replaces the active bank record. Bank name and account number
// are the minimum a buyer needs to transfer.
func (s *Service) Update(info BankInfo) (BankInfo, error) {
	info.BankName = strings.TrimSpace(info.BankName)
	info.AccountNumber = strings.TrimSpace(info.AccountNumber)
	info.AccountName = strings.TrimSpace(info.AccountName)
	if info.BankName == "" || info.AccountNumber == "" {
		return BankInfo{}, ErrInvalidInfo
	}
	info.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Put(info)
}
