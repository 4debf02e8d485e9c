package slip

import (
	"sync"
	"testing"

	"github.com/deeying/shop-backend/internal/address"
	"github.com/deeying/shop-backend/internal/cart"
	"github.com/deeying/shop-backend/internal/checkout"
)

type fixture struct {
	carts     *checkout.Service
	addresses *address.Service
	stores    *cart.Manager
	repo      *InMemoryRepository
	service   *Service
}

func newFixture() *fixture {
	carts := checkout.NewService(checkout.NewInMemoryRepository(nil))
	addresses := address.NewService(address.NewInMemoryRepository(nil), carts)
	stores := cart.NewManager()
	repo := NewInMemoryRepository(nil)
	return &fixture{
		carts:     carts,
		addresses: addresses,
		stores:    stores,
		repo:      repo,
		service:   NewService(repo, carts, addresses, stores, 0),
	}
}

func (f *fixture) submitCart(t *testing.T, userID int) checkout.SubmittedCart {
	t.Helper()
	sc, err := f.carts.Submit(userID, []cart.LineItem{{ProductID: 1, Title: "P1", UnitPrice: 100, Quantity: 3}})
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func (f *fixture) bindAddress(t *testing.T, userID int, cartID string) {
	t.Helper()
	if _, err := f.addresses.Save(userID, cartID, "123 Main St"); err != nil {
		t.Fatal(err)
	}
}

func validUpload(cartID string, amount float64) Submission {
	return Submission{
		CartID:      cartID,
		Amount:      amount,
		FileName:    "slip.jpg",
		FileSize:    1024,
		ContentType: "image/jpeg",
	}
}

func noopSave(string) error { return nil }

func TestSubmit_HappyPathClearsCart(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	// the editable cart still has items while payment proceeds
	f.stores.ForUser(42).Add(cart.LineItem{ProductID: 1, UnitPrice: 100, Quantity: 3})

	created, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave)
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", created.Status)
	}
	if created.SlipID == 0 || created.FilePath == "" {
		t.Fatalf("expected assigned id and file path, got %+v", created)
	}
	if len(f.stores.ForUser(42).Items()) != 0 {
		t.Fatalf("expected cart store cleared after submission")
	}
}

func TestSubmit_ValidationNamesField(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	cases := []struct {
		name  string
		sub   Submission
		field string
	}{
		{"missing cart id", validUpload("", 300), "cart_id"},
		{"negative amount", validUpload(sc.CartID, -5), "amount"},
		{"zero amount", validUpload(sc.CartID, 0), "amount"},
		{"missing file", Submission{CartID: sc.CartID, Amount: 300}, "slip"},
		{"bad type", Submission{CartID: sc.CartID, Amount: 300, FileName: "slip.exe", FileSize: 10, ContentType: "application/octet-stream"}, "slip"},
		{"too large", Submission{CartID: sc.CartID, Amount: 300, FileName: "slip.jpg", FileSize: 6 << 20, ContentType: "image/jpeg"}, "slip"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			saved := false
			_, err := f.service.Submit(42, tc.sub, func(string) error {
				saved = true
				return nil
			})
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
			if saved {
				t.Fatalf("file must not be saved for an invalid submission")
			}
			if slips, _ := f.repo.ListByStatus(""); len(slips) != 0 {
				t.Fatalf("no slip record must exist after a rejected submission")
			}
		})
	}
}

func TestSubmit_HeicByExtension(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	sub := Submission{CartID: sc.CartID, Amount: 300, FileName: "IMG_0001.HEIC", FileSize: 2048, ContentType: "application/octet-stream"}
	if _, err := f.service.Submit(42, sub, noopSave); err != nil {
		t.Fatalf("expected HEIC accepted by extension, got %v", err)
	}
}

func TestSubmit_AddressGate(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)

	saved := false
	_, err := f.service.Submit(42, validUpload(sc.CartID, 300), func(string) error {
		saved = true
		return nil
	})
	if err != ErrNoAddress {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}
	if saved {
		t.Fatalf("file must not be saved when the address gate rejects")
	}

	// the shipping_address override binds and passes the gate in one go
	sub := validUpload(sc.CartID, 300)
	sub.AddressOverride = "99 Override Rd"
	if _, err := f.service.Submit(42, sub, noopSave); err != nil {
		t.Fatalf("expected override to satisfy the gate, got %v", err)
	}
	if b, err := f.addresses.GetByCartID(sc.CartID); err != nil || b.Address != "99 Override Rd" {
		t.Fatalf("expected override bound, got %+v err %v", b, err)
	}
}

func TestSubmit_ForeignCartRejected(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	if _, err := f.service.Submit(7, validUpload(sc.CartID, 300), noopSave); err != checkout.ErrInvalidCart {
		t.Fatalf("expected ErrInvalidCart for foreign cart, got %v", err)
	}
}

func TestSubmit_DuplicatePolicy(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	first, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave)
	if err != nil {
		t.Fatal(err)
	}

	// second submission while one is pending conflicts
	if _, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave); err != ErrDuplicateSlip {
		t.Fatalf("expected ErrDuplicateSlip while pending, got %v", err)
	}

	// still conflicts once approved
	if _, err := f.service.Transition(first.SlipID, StatusApproved); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave); err != ErrDuplicateSlip {
		t.Fatalf("expected ErrDuplicateSlip when approved, got %v", err)
	}

	// a rejected slip allows resubmission
	sc2 := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc2.CartID)
	second, err := f.service.Submit(42, validUpload(sc2.CartID, 300), noopSave)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Transition(second.SlipID, StatusRejected); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Submit(42, validUpload(sc2.CartID, 300), noopSave); err != nil {
		t.Fatalf("expected resubmission after rejection to succeed, got %v", err)
	}
}

func TestTransition_StateMachine(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)

	pending, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave)
	if err != nil {
		t.Fatal(err)
	}

	approved, err := f.service.Transition(pending.SlipID, StatusApproved)
	if err != nil {
		t.Fatal(err)
	}
	if approved.Status != StatusApproved || approved.DecidedAt == nil {
		t.Fatalf("unexpected slip after approve: %+v", approved)
	}

	// terminal states accept no further transition
	if _, err := f.service.Transition(pending.SlipID, StatusApproved); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition for approve on approved, got %v", err)
	}
	if _, err := f.service.Transition(pending.SlipID, StatusRejected); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition for reject on approved, got %v", err)
	}

	// PENDING is not a valid transition target
	if _, err := f.service.Transition(pending.SlipID, StatusPending); err == nil {
		t.Fatalf("expected error for transition to PENDING")
	}

	// unknown slip
	if _, err := f.service.Transition(999, StatusApproved); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// delete works from a terminal state
	if _, err := f.service.Delete(pending.SlipID); err != nil {
		t.Fatalf("expected delete from terminal state to succeed, got %v", err)
	}
}

func TestTransition_ConcurrentAdmins(t *testing.T) {
	f := newFixture()
	sc := f.submitCart(t, 42)
	f.bindAddress(t, 42, sc.CartID)
	pending, err := f.service.Submit(42, validUpload(sc.CartID, 300), noopSave)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, next := range []Status{StatusApproved, StatusRejected} {
		wg.Add(1)
		go func(i int, next Status) {
			defer wg.Done()
			_, errs[i] = f.service.Transition(pending.SlipID, next)
		}(i, next)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch err {
		case nil:
			wins++
		case ErrInvalidTransition:
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner and one loser, got %d/%d", wins, losses)
	}

	got, err := f.repo.GetByID(pending.SlipID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Status.Terminal() {
		t.Fatalf("slip ended in non-terminal status %s", got.Status)
	}
}
