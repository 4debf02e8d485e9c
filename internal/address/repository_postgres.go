package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	upsertAddressQuery = `
		INSERT INTO addresses (cart_id, user_id, address, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id) DO UPDATE
		SET address = EXCLUDED.address, saved_at = EXCLUDED.saved_at
	`
	getAddressByCartQuery = `
		SELECT cart_id, user_id, address, saved_at
		FROM addresses
		WHERE cart_id = $1
	`
	listAddressesByUserQuery = `
		SELECT cart_id, user_id, address, saved_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY saved_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(b Binding) (Binding, error) {
	if _, err := r.db.Exec(upsertAddressQuery, b.CartID, b.UserID, b.Address, b.SavedAt); err != nil {
		return Binding{}, err
	}
	return b, nil
}

func (r *PostgresRepository) GetByCartID(cartID string) (Binding, error) {
	var b Binding
	err := r.db.QueryRow(getAddressByCartQuery, cartID).Scan(&b.CartID, &b.UserID, &b.Address, &b.SavedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Binding{}, ErrNotFound
		}
		return Binding{}, err
	}
	return b, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Binding, error) {
	rows, err := r.db.Query(listAddressesByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Binding, 0)
	for rows.Next() {
		var b Binding
		if err := rows.Scan(&b.CartID, &b.UserID, &b.Address, &b.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
