package slip

import (
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deeying/shop-backend/internal/address"
	"github.com/deeying/shop-backend/internal/cart"
	"github.com/deeying/shop-backend/internal/checkout"
)

// CartSource is the slice of the checkout service this package needs.
type CartSource interface {
	Resolve(cartID string, userID int) (checkout.SubmittedCart, error)
	Get(cartID string) (checkout.SubmittedCart, error)
}

// AddressBook is the slice of the address service this package needs:
// the address gate and the optional override binding.
type AddressBook interface {
	Save(userID int, cartID, addressText string) (address.Binding, error)
	GetByCartID(cartID string) (address.Binding, error)
}

// Accepted proof-of-payment media types.
var allowedSlipTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"image/heif":      true,
	"application/pdf": true,
}

var allowedSlipExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".heic": true, ".heif": true, ".pdf": true,
}

type Service struct {
	repo      Repository
	carts     CartSource
	addresses AddressBook
	stores    *cart.Manager
	maxBytes  int64
}

func NewService(repo Repository, carts CartSource, addresses AddressBook, stores *cart.Manager, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Service{repo: repo, carts: carts, addresses: addresses, stores: stores, maxBytes: maxBytes}
}

// Submission carries the parsed multipart fields of a slip upload.
type Submission struct {
	CartID          string
	Amount          float64
	FileName        string
	FileSize        int64
	ContentType     string
	AddressOverride string
}

// Submit validates and records a payment slip. All field validation runs
// before the save callback so nothing is persisted for a bad request,
// and the slip row is only created once the file is durably stored — a
// cancelled upload never leaves a partial record. On success the user's
// cart store is cleared.
func (s *Service) Submit(userID int, sub Submission, save func(path string) error) (Slip, error) {
	if strings.TrimSpace(sub.CartID) == "" {
		return Slip{}, &ValidationError{Field: "cart_id", Reason: "required"}
	}
	if math.IsNaN(sub.Amount) || math.IsInf(sub.Amount, 0) || sub.Amount <= 0 {
		return Slip{}, &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if sub.FileName == "" || sub.FileSize == 0 {
		return Slip{}, &ValidationError{Field: "slip", Reason: "file is required"}
	}
	if !allowedSlipFile(sub.ContentType, sub.FileName) {
		return Slip{}, &ValidationError{Field: "slip", Reason: "file must be JPG, PNG, WebP, HEIC, HEIF or PDF"}
	}
	if sub.FileSize > s.maxBytes {
		return Slip{}, &ValidationError{Field: "slip", Reason: "file exceeds 5 MiB"}
	}

	sc, err := s.carts.Resolve(sub.CartID, userID)
	if err != nil {
		return Slip{}, err
	}

	if override := strings.TrimSpace(sub.AddressOverride); override != "" {
		if _, err := s.addresses.Save(userID, sc.CartID, override); err != nil {
			return Slip{}, err
		}
	}
	if _, err := s.addresses.GetByCartID(sc.CartID); err != nil {
		if err == address.ErrNotFound {
			return Slip{}, ErrNoAddress
		}
		return Slip{}, err
	}

	active, err := s.repo.HasActiveForCart(sc.CartID)
	if err != nil {
		return Slip{}, err
	}
	if active {
		return Slip{}, ErrDuplicateSlip
	}

	filePath := "/uploads/slips/" + uuid.NewString() + slipExt(sub.FileName, sub.ContentType)
	if err := save(filePath); err != nil {
		return Slip{}, err
	}

	created, err := s.repo.Create(Slip{
		CartID:      sc.CartID,
		UserID:      userID,
		Amount:      sub.Amount,
		FilePath:    filePath,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Slip{}, err
	}

	if s.stores != nil {
		s.stores.ForUser(userID).Clear()
	}
	return created, nil
}

// Transition moves a PENDING slip to one of the terminal states.
func (s *Service) Transition(id int, next Status) (Slip, error) {
	if !next.Terminal() {
		return Slip{}, &ValidationError{Field: "status", Reason: "must be APPROVED or REJECTED"}
	}
	decidedAt := time.Now().UTC().Format(time.RFC3339)
	return s.repo.TransitionFromPending(id, next, decidedAt)
}

// Delete removes a slip regardless of status. This is a destructive
// administrative override, not a state transition.
func (s *Service) Delete(id int) (Slip, error) {
	return s.repo.Delete(id)
}

func (s *Service) ListByUser(userID int) ([]Slip, error) {
	return s.repo.ListByUser(userID)
}

// Detail is a slip joined with its cart snapshot and buyer reference for
// the admin approval table.
type Detail struct {
	Slip
	Buyer    string          `json:"buyer,omitempty"`
	Products []cart.LineItem `json:"products,omitempty"`
	Total    float64         `json:"total,omitempty"`
}

// BuyerLookup resolves a user id into a display reference.
type BuyerLookup interface {
	BuyerRef(userID int) string
}

// ListDetailed returns slips in the given status ("" for all), each
// enriched with the cart's product snapshot and a buyer reference.
// Enrichment is best-effort; a slip whose cart is gone still lists.
func (s *Service) ListDetailed(status Status, buyers BuyerLookup) ([]Detail, error) {
	slips, err := s.repo.ListByStatus(status)
	if err != nil {
		return nil, err
	}

	out := make([]Detail, 0, len(slips))
	for _, sl := range slips {
		d := Detail{Slip: sl}
		if sc, err := s.carts.Get(sl.CartID); err == nil {
			d.Products = sc.Items
			d.Total = sc.TotalAmount
		}
		if buyers != nil {
			d.Buyer = buyers.BuyerRef(sl.UserID)
		}
		out = append(out, d)
	}
	return out, nil
}

func allowedSlipFile(contentType, fileName string) bool {
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" {
		if allowedSlipTypes[ct] {
			return true
		}
	}
	// HEIC/HEIF often arrive as application/octet-stream; fall back to
	// the extension.
	return allowedSlipExts[strings.ToLower(filepath.Ext(fileName))]
}

func slipExt(fileName, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(fileName)); allowedSlipExts[ext] {
		return ext
	}
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/heif":
		return ".heif"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
