package checkout

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateAndGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO carts").
		WithArgs("c-1", 42, sqlmock.AnyArg(), 300.0, "2026-01-01T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sc := SubmittedCart{CartID: "c-1", UserID: 42, TotalAmount: 300, CreatedAt: "2026-01-01T00:00:00Z"}
	if _, err := repo.Create(sc); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rows := sqlmock.NewRows([]string{"cart_id", "user_id", "items", "total_amount", "created_at"}).
		AddRow("c-1", 42, []byte(`[{"productId":1,"title":"P1","unitPrice":100,"quantity":3}]`), 300.0, "2026-01-01T00:00:00Z")
	mock.ExpectQuery("FROM carts").WithArgs("c-1").WillReturnRows(rows)

	got, err := repo.GetByID("c-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 3 {
		t.Fatalf("unexpected items %+v", got.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM carts").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "user_id", "items", "total_amount", "created_at"}))

	if _, err := repo.GetByID("nope"); err != ErrInvalidCart {
		t.Fatalf("expected ErrInvalidCart, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
