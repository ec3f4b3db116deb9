package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/pos-service/internal/database"
	"github.com/hypernova-labs/pos-service/internal/models"
	"github.com/hypernova-labs/pos-service/internal/services"
	"github.com/sirupsen/logrus"
)

// API maneja todos los endpoints de la API
type API struct {
	productService  *services.ProductService
	purchaseService *services.PurchaseService
	db              *database.DB
	cache           *database.Redis
	logger          *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(
	productService *services.ProductService,
	purchaseService *services.PurchaseService,
	db *database.DB,
	cache *database.Redis,
	logger *logrus.Logger,
) *API {
	return &API{
		productService:  productService,
		purchaseService: purchaseService,
		db:              db,
		cache:           cache,
		logger:          logger,
	}
}

// SearchProduct busca un producto por código
func (api *API) SearchProduct(c *gin.Context) {
	// Parsear request
	var req models.SearchProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding search product request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Product code is required", []models.ErrorDetail{
			{Field: "code", Issue: "Must not be empty"},
		}))
		return
	}

	// Buscar producto; un código desconocido no es un error
	product, err := api.productService.Search(req.Code)
	if err != nil {
		if errors.Is(err, database.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, models.NewUnavailableError("Database unavailable"))
			return
		}
		api.logger.WithError(err).Error("Error searching product")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error searching product"))
		return
	}

	c.JSON(http.StatusOK, models.SearchProductResponse{Product: product})
}

// Purchase registra una compra
func (api *API) Purchase(c *gin.Context) {
	// Parsear request
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding purchase request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	// Rechazar compras vacías antes de cualquier acceso a la base
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, models.NewValidationError("At least one item is required", []models.ErrorDetail{
			{Field: "items", Issue: "Must not be empty"},
		}))
		return
	}

	// Registrar compra
	response, err := api.purchaseService.Purchase(&req)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, models.NewValidationError(validationErr.Message, nil))
			return
		}
		if errors.Is(err, database.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, models.NewUnavailableError("Database unavailable"))
			return
		}
		// El detalle del error se queda en el log; el cliente recibe un
		// mensaje saneado sin texto de queries
		api.logger.WithError(err).Error("Error recording purchase")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error recording purchase"))
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTransaction obtiene una transacción por ID
func (api *API) GetTransaction(c *gin.Context) {
	trdID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid transaction ID", []models.ErrorDetail{
			{Field: "id", Issue: "Must be a number"},
		}))
		return
	}

	txn, err := api.purchaseService.GetTransaction(trdID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.NewNotFoundError("Transaction not found"))
			return
		}
		if errors.Is(err, database.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, models.NewUnavailableError("Database unavailable"))
			return
		}
		api.logger.WithError(err).Error("Error getting transaction")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error retrieving transaction"))
		return
	}

	c.JSON(http.StatusOK, txn)
}

// Health verifica la salud del servicio y sus dependencias
func (api *API) Health(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"service": "pos-service",
	}

	if err := api.db.HealthCheck(); err != nil {
		api.logger.WithError(err).Error("Database health check failed")
		status["status"] = "degraded"
		status["database"] = "down"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	status["database"] = "up"

	if api.cache != nil {
		if err := api.cache.HealthCheck(); err != nil {
			api.logger.WithError(err).Warn("Redis health check failed")
			status["cache"] = "down"
		} else {
			status["cache"] = "up"
		}
	}

	c.JSON(http.StatusOK, status)
}
