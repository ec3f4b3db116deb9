package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ProductRepository maneja las operaciones de base de datos para Product
type ProductRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewProductRepository crea una nueva instancia del repositorio
func NewProductRepository(db *DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// GetByCode obtiene un producto por su código de barras.
// Retorna ErrNotFound cuando el código no existe; el índice único sobre
// m_product.code garantiza a lo sumo una fila.
func (r *ProductRepository) GetByCode(code string) (*models.Product, error) {
	query := `
		SELECT prd_id, code, name, price
		FROM m_product
		WHERE code = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var product models.Product
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&product.PrdID, &product.PrdCode, &product.PrdName, &product.PrdPrice,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: product code %s", ErrNotFound, code)
		}
		return nil, fmt.Errorf("error querying product: %w", err)
	}

	return &product, nil
}
