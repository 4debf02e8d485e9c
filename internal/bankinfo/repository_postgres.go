package bankinfo

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const getBankInfoQuery = `
	SELECT bank_name, account_number, account_name, qr_code_image, bank_logo, updated_at
	FROM bank_info
	WHERE id = 1
`

// The table holds a single row pinned to id 1.
const putBankInfoQuery = `
	INSERT INTO bank_info (id, bank_name, account_number, account_name, qr_code_image, bank_logo, updated_at)
	VALUES (1, $1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		bank_name = EXCLUDED.bank_name,
		account_number = EXCLUDED.account_number,
		account_name = EXCLUDED.account_name,
		qr_code_image = EXCLUDED.qr_code_image,
		bank_logo = EXCLUDED.bank_logo,
		updated_at = EXCLUDED.updated_at
	RETURNING bank_name, account_number, account_name, qr_code_image, bank_logo, updated_at
`

func (r *PostgresRepository) Get() (BankInfo, error) {
	var info BankInfo
	err := r.db.QueryRow(getBankInfoQuery).Scan(
		&info.BankName, &info.AccountNumber, &info.AccountName,
		&info.QRCodeImage, &info.BankLogo, &info.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return BankInfo{}, ErrNotConfigured
	}
	if err != nil {
		return BankInfo{}, err
	}
	return info, nil
}

func (r *PostgresRepository) Put(info BankInfo) (BankInfo, error) {
	var saved BankInfo
	err := r.db.QueryRow(putBankInfoQuery,
		info.BankName, info.AccountNumber, info.AccountName,
		info.QRCodeImage, info.BankLogo, info.UpdatedAt,
	).Scan(
		&saved.BankName, &saved.AccountNumber, &saved.AccountName,
		&saved.QRCodeImage, &saved.BankLogo, &saved.UpdatedAt,
	)
	if err != nil {
		return BankInfo{}, err
	}
	return saved, nil
}
