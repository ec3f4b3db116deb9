package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertTxnQuery = `
			INSERT INTO t_txn (
				datetime, emp_cd, store_cd, pos_no, total_amt, ttl_amt_ex_tax
			) VALUES (
				$1, $2, $3, $4, $5, $6
			)
			RETURNING trd_id
		`
	insertDtlQuery = `
			INSERT INTO t_txn_dtl (
				trd_id, dtl_id, prd_id, prd_code, prd_name, prd_price, quantity, tax_cd
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			)
		`
)

func testTransaction() *models.Transaction {
	return &models.Transaction{
		Datetime:      time.Now(),
		EmpCd:         "EMP001",
		StoreCd:       "S001",
		PosNo:         "P01",
		TotalAmt:      330,
		TotalAmtExTax: 300,
	}
}

func testDetails() []models.TransactionDetail {
	return []models.TransactionDetail{
		{PrdID: 1, PrdCode: "C1", PrdName: "Coffee", PrdPrice: 110, Quantity: 1, TaxCd: models.FixedTaxCode},
		{PrdID: 2, PrdCode: "C2", PrdName: "Tea", PrdPrice: 110, Quantity: 1, TaxCd: models.FixedTaxCode},
		{PrdID: 3, PrdCode: "C3", PrdName: "Juice", PrdPrice: 110, Quantity: 1, TaxCd: models.FixedTaxCode},
	}
}

func TestTransactionRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	details := testDetails()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertTxnQuery)).
		WithArgs(sqlmock.AnyArg(), "EMP001", "S001", "P01", 330, 300).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id"}).AddRow(41))

	// Cada línea se inserta con dtl_id 1..N en el orden recibido
	for i, d := range details {
		mock.ExpectExec(regexp.QuoteMeta(insertDtlQuery)).
			WithArgs(int64(41), i+1, d.PrdID, d.PrdCode, d.PrdName, d.PrdPrice, d.Quantity, d.TaxCd).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	trdID, err := repo.Create(testTransaction(), details)
	require.NoError(t, err)
	assert.Equal(t, int64(41), trdID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryCreateRollsBackOnDetailFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	details := testDetails()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertTxnQuery)).
		WithArgs(sqlmock.AnyArg(), "EMP001", "S001", "P01", 330, 300).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id"}).AddRow(41))
	mock.ExpectExec(regexp.QuoteMeta(insertDtlQuery)).
		WithArgs(int64(41), 1, details[0].PrdID, details[0].PrdCode, details[0].PrdName, details[0].PrdPrice, details[0].Quantity, details[0].TaxCd).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// El segundo insert falla: la unidad completa debe revertirse, sin commit
	mock.ExpectExec(regexp.QuoteMeta(insertDtlQuery)).
		WithArgs(int64(41), 2, details[1].PrdID, details[1].PrdCode, details[1].PrdName, details[1].PrdPrice, details[1].Quantity, details[1].TaxCd).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	trdID, err := repo.Create(testTransaction(), details)
	require.Error(t, err)
	assert.Zero(t, trdID)
	assert.Contains(t, err.Error(), "transaction detail 2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryCreateRollsBackOnHeaderFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertTxnQuery)).
		WithArgs(sqlmock.AnyArg(), "EMP001", "S001", "P01", 330, 300).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	trdID, err := repo.Create(testTransaction(), testDetails())
	require.Error(t, err)
	assert.Zero(t, trdID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT trd_id, datetime, emp_cd, store_cd, pos_no, total_amt, ttl_amt_ex_tax
		FROM t_txn
		WHERE trd_id = $1
	`)).
		WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id", "datetime", "emp_cd", "store_cd", "pos_no", "total_amt", "ttl_amt_ex_tax"}).
			AddRow(41, now, "EMP001", "S001", "P01", 330, 300))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT trd_id, dtl_id, prd_id, prd_code, prd_name, prd_price, quantity, tax_cd
		FROM t_txn_dtl
		WHERE trd_id = $1
		ORDER BY dtl_id
	`)).
		WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id", "dtl_id", "prd_id", "prd_code", "prd_name", "prd_price", "quantity", "tax_cd"}).
			AddRow(41, 1, 1, "C1", "Coffee", 110, 1, "10").
			AddRow(41, 2, 2, "C2", "Tea", 110, 2, "10"))

	txn, err := repo.GetByID(41)
	require.NoError(t, err)
	assert.Equal(t, int64(41), txn.TrdID)
	require.Len(t, txn.Details, 2)
	assert.Equal(t, 1, txn.Details[0].DtlID)
	assert.Equal(t, 2, txn.Details[1].DtlID)
	assert.Equal(t, "10", txn.Details[0].TaxCd)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryCreateUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	// Con el pool cerrado no hay checkout posible: la compra debe reportar
	// indisponibilidad, nunca un error genérico de ejecución
	mock.ExpectClose()
	require.NoError(t, db.Close())

	trdID, err := repo.Create(testTransaction(), testDetails())
	assert.Zero(t, trdID)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTransactionRepositoryGetByIDDetailIterationError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM t_txn ").
		WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id", "datetime", "emp_cd", "store_cd", "pos_no", "total_amt", "ttl_amt_ex_tax"}).
			AddRow(41, now, "EMP001", "S001", "P01", 330, 300))

	// La segunda fila de detalle falla durante la iteración: el resultado no
	// puede ser una lista truncada con error nil
	mock.ExpectQuery("SELECT (.+) FROM t_txn_dtl").
		WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id", "dtl_id", "prd_id", "prd_code", "prd_name", "prd_price", "quantity", "tax_cd"}).
			AddRow(41, 1, 1, "C1", "Coffee", 110, 1, "10").
			AddRow(41, 2, 2, "C2", "Tea", 110, 1, "10").
			RowError(1, errors.New("connection reset during fetch")))

	txn, err := repo.GetByID(41)
	assert.Nil(t, txn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterating transaction details")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db, newTestLogger())

	mock.ExpectQuery("SELECT (.+) FROM t_txn").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"trd_id"}))

	txn, err := repo.GetByID(99)
	assert.Nil(t, txn)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
