package slip

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func slipColumns() []string {
	return []string{"slip_id", "cart_id", "user_id", "amount", "file_path", "status", "submitted_at", "decided_at"}
}

func TestTransitionFromPending_Wins(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(slipColumns()).
		AddRow(5, "c-1", 42, 300.0, "/uploads/slips/a.jpg", "APPROVED", "t", "d")
	mock.ExpectQuery("UPDATE slips").WithArgs(5, StatusApproved, "d").WillReturnRows(rows)

	s, err := repo.TransitionFromPending(5, StatusApproved, "d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusApproved || s.DecidedAt == nil {
		t.Fatalf("unexpected slip %+v", s)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransitionFromPending_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// conditional update matches no row because the slip is terminal
	mock.ExpectQuery("UPDATE slips").WithArgs(5, StatusRejected, "d").
		WillReturnRows(sqlmock.NewRows(slipColumns()))
	// existence check finds the slip, so this is a lost race
	mock.ExpectQuery("FROM slips").WithArgs(5).
		WillReturnRows(sqlmock.NewRows(slipColumns()).
			AddRow(5, "c-1", 42, 300.0, "/uploads/slips/a.jpg", "APPROVED", "t", "d"))

	if _, err := repo.TransitionFromPending(5, StatusRejected, "d"); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransitionFromPending_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE slips").WithArgs(9, StatusApproved, "d").
		WillReturnRows(sqlmock.NewRows(slipColumns()))
	mock.ExpectQuery("FROM slips").WithArgs(9).
		WillReturnRows(sqlmock.NewRows(slipColumns()))

	if _, err := repo.TransitionFromPending(9, StatusApproved, "d"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHasActiveForCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT EXISTS").WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := repo.HasActiveForCart("c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !active {
		t.Fatalf("expected active slip")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
