package product

// ServiceInterface is what other packages (cart snapshots, slip admin
// listing) depend on.
type ServiceInterface interface {
	List() []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}
