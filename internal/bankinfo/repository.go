package bankinfo

import "sync"

type Repository interface {
	Get() (BankInfo, error)
	Put(info BankInfo) (BankInfo, error)
}

type InMemoryRepository struct {
	mu   sync.RWMutex
	info *BankInfo
}

func NewInMemoryRepository(seed *BankInfo) *InMemoryRepository {
	return &InMemoryRepository{info: seed}
}

func (r *InMemoryRepository) Get() (BankInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.info == nil {
		return BankInfo{}, ErrNotConfigured
	}
	return *r.info, nil
}

func (r *InMemoryRepository) Put(info BankInfo) (BankInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = &info
	return info, nil
}
