package slip

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertSlipQuery = `
		INSERT INTO slips (cart_id, user_id, amount, file_path, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING slip_id
	`
	getSlipByIDQuery = `
		SELECT slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
		FROM slips
		WHERE slip_id = $1
	`
	listSlipsQuery = `
		SELECT slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
		FROM slips
		ORDER BY submitted_at DESC
	`
	listSlipsByStatusQuery = `
		SELECT slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
		FROM slips
		WHERE status = $1
		ORDER BY submitted_at DESC
	`
	listSlipsByUserQuery = `
		SELECT slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
		FROM slips
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`
	hasActiveSlipQuery = `
		SELECT EXISTS (SELECT 1 FROM slips WHERE cart_id = $1 AND status <> 'REJECTED')
	`
	// The WHERE status = 'PENDING' clause makes the transition a single
	// atomic conditional update; two concurrent admins cannot both win.
	transitionSlipQuery = `
		UPDATE slips
		SET status = $2, decided_at = $3
		WHERE slip_id = $1 AND status = 'PENDING'
		RETURNING slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
	`
	deleteSlipQuery = `
		DELETE FROM slips
		WHERE slip_id = $1
		RETURNING slip_id, cart_id, user_id, amount, file_path, status, submitted_at, decided_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(s Slip) (Slip, error) {
	err := r.db.QueryRow(insertSlipQuery, s.CartID, s.UserID, s.Amount, s.FilePath, s.Status, s.SubmittedAt).Scan(&s.SlipID)
	if err != nil {
		return Slip{}, err
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(id int) (Slip, error) {
	s, err := scanSlip(r.db.QueryRow(getSlipByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Slip{}, ErrNotFound
		}
		return Slip{}, err
	}
	return s, nil
}

func (r *PostgresRepository) ListByStatus(status Status) ([]Slip, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = r.db.Query(listSlipsQuery)
	} else {
		rows, err = r.db.Query(listSlipsByStatusQuery, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSlips(rows)
}

func (r *PostgresRepository) ListByUser(userID int) ([]Slip, error) {
	rows, err := r.db.Query(listSlipsByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSlips(rows)
}

func (r *PostgresRepository) HasActiveForCart(cartID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(hasActiveSlipQuery, cartID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepository) TransitionFromPending(id int, next Status, decidedAt string) (Slip, error) {
	s, err := scanSlip(r.db.QueryRow(transitionSlipQuery, id, next, decidedAt))
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return Slip{}, err
	}

	// No row updated: distinguish a missing slip from a lost race.
	if _, err := r.GetByID(id); err != nil {
		return Slip{}, err
	}
	return Slip{}, ErrInvalidTransition
}

func (r *PostgresRepository) Delete(id int) (Slip, error) {
	s, err := scanSlip(r.db.QueryRow(deleteSlipQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Slip{}, ErrNotFound
		}
		return Slip{}, err
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlip(row rowScanner) (Slip, error) {
	var s Slip
	var decidedAt sql.NullString
	err := row.Scan(&s.SlipID, &s.CartID, &s.UserID, &s.Amount, &s.FilePath, &s.Status, &s.SubmittedAt, &decidedAt)
	if err != nil {
		return Slip{}, err
	}
	if decidedAt.Valid {
		s.DecidedAt = &decidedAt.String
	}
	return s, nil
}

func scanSlips(rows *sql.Rows) ([]Slip, error) {
	out := make([]Slip, 0)
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
