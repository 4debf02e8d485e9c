package checkout

import (
	"database/sql"
	"encoding/json"

	"github.com/deeying/shop-backend/internal/cart"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertCartQuery = `
		INSERT INTO carts (cart_id, user_id, items, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	getCartByIDQuery = `
		SELECT cart_id, user_id, items, total_amount, created_at
		FROM carts
		WHERE cart_id = $1
	`
	listCartsByUserQuery = `
		SELECT cart_id, user_id, items, total_amount, created_at
		FROM carts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(sc SubmittedCart) (SubmittedCart, error) {
	itemsJSON, err := json.Marshal(sc.Items)
	if err != nil {
		return SubmittedCart{}, err
	}

	if _, err := r.db.Exec(insertCartQuery, sc.CartID, sc.UserID, itemsJSON, sc.TotalAmount, sc.CreatedAt); err != nil {
		return SubmittedCart{}, err
	}
	return sc, nil
}

func (r *PostgresRepository) GetByID(cartID string) (SubmittedCart, error) {
	var sc SubmittedCart
	var itemsJSON []byte
	err := r.db.QueryRow(getCartByIDQuery, cartID).Scan(
		&sc.CartID, &sc.UserID, &itemsJSON, &sc.TotalAmount, &sc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return SubmittedCart{}, ErrInvalidCart
		}
		return SubmittedCart{}, err
	}

	if err := json.Unmarshal(itemsJSON, &sc.Items); err != nil {
		return SubmittedCart{}, err
	}
	return sc, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]SubmittedCart, error) {
	rows, err := r.db.Query(listCartsByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SubmittedCart, 0)
	for rows.Next() {
		var sc SubmittedCart
		var itemsJSON []byte
		if err := rows.Scan(&sc.CartID, &sc.UserID, &itemsJSON, &sc.TotalAmount, &sc.CreatedAt); err != nil {
			return nil, err
		}
		var items []cart.LineItem
		if err := json.Unmarshal(itemsJSON, &items); err == nil {
			sc.Items = items
		}
		out = append(out, sc)
	}

	return out, nil
}
