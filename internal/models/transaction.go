package models

import "time"

const (
	// DefaultEmployeeCode se persiste cuando el request no trae emp_cd
	DefaultEmployeeCode = "9999999999"

	// FixedTaxCode es el único código de impuesto en uso
	FixedTaxCode = "10"
)

// Transaction representa la cabecera de una transacción de venta
type Transaction struct {
	TrdID         int64               `json:"trd_id" db:"trd_id"`
	Datetime      time.Time           `json:"datetime" db:"datetime"`
	EmpCd         string              `json:"emp_cd" db:"emp_cd"`
	StoreCd       string              `json:"store_cd" db:"store_cd"`
	PosNo         string              `json:"pos_no" db:"pos_no"`
	TotalAmt      int                 `json:"total_amt" db:"total_amt"`
	TotalAmtExTax int                 `json:"ttl_amt_ex_tax" db:"ttl_amt_ex_tax"`
	Details       []TransactionDetail `json:"details,omitempty"`
}

// TransactionDetail representa una línea de la transacción
//
// DtlID es un ordinal 1..N contiguo dentro de la transacción. Los datos del
// producto son un snapshot del momento de la compra, independientes de
// cambios posteriores del catálogo. Una línea con quantity > 1 es una sola
// fila con su columna quantity, nunca filas repetidas por unidad.
type TransactionDetail struct {
	TrdID    int64  `json:"trd_id" db:"trd_id"`
	DtlID    int    `json:"dtl_id" db:"dtl_id"`
	PrdID    int    `json:"prd_id" db:"prd_id"`
	PrdCode  string `json:"prd_code" db:"prd_code"`
	PrdName  string `json:"prd_name" db:"prd_name"`
	PrdPrice int    `json:"prd_price" db:"prd_price"`
	Quantity int    `json:"quantity" db:"quantity"`
	TaxCd    string `json:"tax_cd" db:"tax_cd"`
}

// PurchaseItem representa un item dentro del request de compra
type PurchaseItem struct {
	PrdID    int    `json:"prd_id"`
	PrdCode  string `json:"prd_code"`
	PrdName  string `json:"prd_name"`
	PrdPrice int    `json:"prd_price"`
	Quantity int    `json:"quantity"`
}

// PurchaseRequest representa el request de compra
type PurchaseRequest struct {
	EmpCd   string         `json:"emp_cd"`
	StoreCd string         `json:"store_cd" binding:"required"`
	PosNo   string         `json:"pos_no" binding:"required"`
	Items   []PurchaseItem `json:"items"`
}

// PurchaseResponse representa la respuesta de compra
type PurchaseResponse struct {
	Success          bool `json:"success"`
	TotalAmount      int  `json:"total_amount"`
	TotalAmountExTax int  `json:"total_amount_ex_tax"`
}
