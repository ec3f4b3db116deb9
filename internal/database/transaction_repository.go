package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/sirupsen/logrus"
)

// TransactionRepository maneja las operaciones de base de datos para Transaction
type TransactionRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewTransactionRepository crea una nueva instancia del repositorio
func NewTransactionRepository(db *DB, logger *logrus.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create persiste la cabecera y sus líneas en una sola transacción.
// El trd_id lo genera la base y se recupera con RETURNING; cada línea recibe
// un dtl_id ordinal 1..N en el orden recibido. Cualquier fallo antes del
// commit revierte la unidad completa.
func (r *TransactionRepository) Create(txn *models.Transaction, details []models.TransactionDetail) (int64, error) {
	var trdID int64

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			INSERT INTO t_txn (
				datetime, emp_cd, store_cd, pos_no, total_amt, ttl_amt_ex_tax
			) VALUES (
				$1, $2, $3, $4, $5, $6
			)
			RETURNING trd_id
		`

		err := tx.QueryRow(query,
			txn.Datetime, txn.EmpCd, txn.StoreCd, txn.PosNo,
			txn.TotalAmt, txn.TotalAmtExTax,
		).Scan(&trdID)

		if err != nil {
			return fmt.Errorf("error inserting transaction: %w", err)
		}

		detailQuery := `
			INSERT INTO t_txn_dtl (
				trd_id, dtl_id, prd_id, prd_code, prd_name, prd_price, quantity, tax_cd
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			)
		`

		for i, detail := range details {
			_, err := tx.Exec(detailQuery,
				trdID, i+1, detail.PrdID, detail.PrdCode, detail.PrdName,
				detail.PrdPrice, detail.Quantity, detail.TaxCd,
			)

			if err != nil {
				return fmt.Errorf("error inserting transaction detail %d: %w", i+1, err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	r.logger.WithFields(logrus.Fields{
		"trd_id":  trdID,
		"details": len(details),
	}).Info("Transaction recorded")

	return trdID, nil
}

// GetByID obtiene una transacción por ID con sus líneas
func (r *TransactionRepository) GetByID(trdID int64) (*models.Transaction, error) {
	query := `
		SELECT trd_id, datetime, emp_cd, store_cd, pos_no, total_amt, ttl_amt_ex_tax
		FROM t_txn
		WHERE trd_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var txn models.Transaction
	err := r.db.QueryRowContext(ctx, query, trdID).Scan(
		&txn.TrdID, &txn.Datetime, &txn.EmpCd, &txn.StoreCd, &txn.PosNo,
		&txn.TotalAmt, &txn.TotalAmtExTax,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: transaction %d", ErrNotFound, trdID)
		}
		return nil, fmt.Errorf("error querying transaction: %w", err)
	}

	details, err := r.GetDetailsByTransactionID(trdID)
	if err != nil {
		return nil, err
	}
	txn.Details = details

	return &txn, nil
}

// GetDetailsByTransactionID obtiene las líneas de una transacción ordenadas por dtl_id
func (r *TransactionRepository) GetDetailsByTransactionID(trdID int64) ([]models.TransactionDetail, error) {
	query := `
		SELECT trd_id, dtl_id, prd_id, prd_code, prd_name, prd_price, quantity, tax_cd
		FROM t_txn_dtl
		WHERE trd_id = $1
		ORDER BY dtl_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, trdID)
	if err != nil {
		return nil, fmt.Errorf("error querying transaction details: %w", err)
	}
	defer rows.Close()

	var details []models.TransactionDetail
	for rows.Next() {
		var detail models.TransactionDetail
		err := rows.Scan(
			&detail.TrdID, &detail.DtlID, &detail.PrdID, &detail.PrdCode,
			&detail.PrdName, &detail.PrdPrice, &detail.Quantity, &detail.TaxCd,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction detail: %w", err)
		}
		details = append(details, detail)
	}

	// Un fallo a mitad de iteración no debe pasar por una lista corta exitosa
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction details: %w", err)
	}

	return details, nil
}
