package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hypernova-labs/pos-service/internal/config"
	"github.com/hypernova-labs/pos-service/internal/database"
	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ProductService maneja la lógica de negocio para Product
type ProductService struct {
	productRepo *database.ProductRepository
	cache       *database.Redis
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

// NewProductService crea una nueva instancia del servicio.
// cache puede ser nil; el servicio opera degradado sin Redis.
func NewProductService(db *database.DB, cache *database.Redis, cfg *config.Config, logger *logrus.Logger) *ProductService {
	return &ProductService{
		productRepo: database.NewProductRepository(db, logger),
		cache:       cache,
		cacheTTL:    time.Duration(cfg.POS.CacheTTLSec) * time.Second,
		logger:      logger,
	}
}

// Search busca un producto por código. Un código inexistente retorna
// (nil, nil): la ausencia no es un error del servicio.
func (s *ProductService) Search(code string) (*models.Product, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("product code is required")
	}

	if product := s.fromCache(code); product != nil {
		return product, nil
	}

	product, err := s.productRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error searching product: %w", err)
	}

	s.toCache(code, product)

	return product, nil
}

// fromCache intenta resolver el producto desde Redis; fallos de cache se
// registran y se ignoran
func (s *ProductService) fromCache(code string) *models.Product {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(cacheKey(code))
	if err != nil {
		return nil
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		// Entrada corrupta: desalojarla para no reintentar el decode en
		// cada búsqueda
		s.logger.Warnf("Error decoding cached product %s: %v", code, err)
		if delErr := s.cache.Delete(cacheKey(code)); delErr != nil {
			s.logger.Warnf("Error evicting cached product %s: %v", code, delErr)
		}
		return nil
	}

	return &product
}

// toCache guarda el producto en Redis con TTL
func (s *ProductService) toCache(code string, product *models.Product) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(product)
	if err != nil {
		return
	}

	if err := s.cache.SetWithTTL(cacheKey(code), raw, s.cacheTTL); err != nil {
		s.logger.Warnf("Error caching product %s: %v", code, err)
	}
}

func cacheKey(code string) string {
	return "product:code:" + code
}
