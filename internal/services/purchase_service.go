package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hypernova-labs/pos-service/internal/config"
	"github.com/hypernova-labs/pos-service/internal/database"
	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ValidationError representa un error de entrada del cliente; se detecta
// antes de tocar la base de datos
type ValidationError struct {
	Message string
}

// Error implementa la interfaz error
func (e *ValidationError) Error() string {
	return e.Message
}

// PurchaseService maneja la lógica de negocio para la compra
type PurchaseService struct {
	txnRepo      *database.TransactionRepository
	productRepo  *database.ProductRepository
	verifyPrices bool
	logger       *logrus.Logger
}

// NewPurchaseService crea una nueva instancia del servicio
func NewPurchaseService(db *database.DB, cfg *config.Config, logger *logrus.Logger) *PurchaseService {
	return &PurchaseService{
		txnRepo:      database.NewTransactionRepository(db, logger),
		productRepo:  database.NewProductRepository(db, logger),
		verifyPrices: cfg.POS.VerifyPrices,
		logger:       logger,
	}
}

// Purchase registra una compra: valida los items, calcula los totales y
// persiste cabecera y líneas en una unidad atómica. No hay reintentos: una
// compra fallida se reporta tal cual, reintentarla sin protección de
// idempotencia duplicaría la transacción.
func (s *PurchaseService) Purchase(req *models.PurchaseRequest) (*models.PurchaseResponse, error) {
	if err := s.validateItems(req.Items); err != nil {
		return nil, err
	}

	if s.verifyPrices {
		if err := s.verifyItemPrices(req.Items); err != nil {
			return nil, err
		}
	}

	totalAmount, totalAmountExTax := CalculateTotals(req.Items)

	employeeCode := req.EmpCd
	if employeeCode == "" {
		employeeCode = models.DefaultEmployeeCode
	}

	txn := &models.Transaction{
		Datetime:      time.Now(),
		EmpCd:         employeeCode,
		StoreCd:       req.StoreCd,
		PosNo:         req.PosNo,
		TotalAmt:      totalAmount,
		TotalAmtExTax: totalAmountExTax,
	}

	details := make([]models.TransactionDetail, 0, len(req.Items))
	for _, item := range req.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		details = append(details, models.TransactionDetail{
			PrdID:    item.PrdID,
			PrdCode:  item.PrdCode,
			PrdName:  item.PrdName,
			PrdPrice: item.PrdPrice,
			Quantity: qty,
			TaxCd:    models.FixedTaxCode,
		})
	}

	trdID, err := s.txnRepo.Create(txn, details)
	if err != nil {
		return nil, fmt.Errorf("error recording purchase: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trd_id":              trdID,
		"store_cd":            req.StoreCd,
		"pos_no":              req.PosNo,
		"items":               len(req.Items),
		"total_amount":        totalAmount,
		"total_amount_ex_tax": totalAmountExTax,
	}).Info("Purchase completed")

	return &models.PurchaseResponse{
		Success:          true,
		TotalAmount:      totalAmount,
		TotalAmountExTax: totalAmountExTax,
	}, nil
}

// GetTransaction obtiene una transacción registrada con sus líneas
func (s *PurchaseService) GetTransaction(trdID int64) (*models.Transaction, error) {
	return s.txnRepo.GetByID(trdID)
}

// validateItems valida la lista de items antes de cualquier acceso a la base
func (s *PurchaseService) validateItems(items []models.PurchaseItem) error {
	if len(items) == 0 {
		return &ValidationError{Message: "at least one item is required"}
	}

	for i, item := range items {
		if item.PrdPrice < 0 {
			return &ValidationError{Message: fmt.Sprintf("item %d: price must not be negative", i+1)}
		}
		if item.Quantity < 0 {
			return &ValidationError{Message: fmt.Sprintf("item %d: quantity must be positive", i+1)}
		}
	}

	return nil
}

// verifyItemPrices re-resuelve cada item contra el catálogo y rechaza
// discrepancias de precio. El comportamiento histórico confía en el precio
// enviado por el cliente; este chequeo se activa con POS_VERIFY_PRICES.
func (s *PurchaseService) verifyItemPrices(items []models.PurchaseItem) error {
	for i, item := range items {
		product, err := s.productRepo.GetByCode(item.PrdCode)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return &ValidationError{Message: fmt.Sprintf("item %d: unknown product code %s", i+1, item.PrdCode)}
			}
			return fmt.Errorf("error verifying item price: %w", err)
		}

		if product.PrdPrice != item.PrdPrice {
			s.logger.WithFields(logrus.Fields{
				"prd_code":      item.PrdCode,
				"submitted":     item.PrdPrice,
				"catalog_price": product.PrdPrice,
			}).Warn("Price mismatch rejected")
			return &ValidationError{Message: fmt.Sprintf("item %d: price does not match catalog", i+1)}
		}
	}

	return nil
}
