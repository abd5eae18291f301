package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/service"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListChannels(c *gin.Context) {
	channels, err := h.service.ListChannels(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch sales channels")
		return
	}

	c.JSON(http.StatusOK, channels)
}

func (h *CatalogHandler) CreateChannel(c *gin.Context) {
	var in domain.SalesChannelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	channel, err := h.service.CreateChannel(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to create sales channel")
		return
	}

	c.JSON(http.StatusCreated, channel)
}

func (h *CatalogHandler) UpdateChannel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "failed to update sales channel")
		return
	}

	var in domain.SalesChannelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	channel, err := h.service.UpdateChannel(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "failed to update sales channel")
		return
	}

	c.JSON(http.StatusOK, channel)
}

func (h *CatalogHandler) ListSetProducts(c *gin.Context) {
	sets, err := h.service.ListSetProducts(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err, "failed to fetch set products")
		return
	}

	c.JSON(http.StatusOK, sets)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), parseCatalogSearch(c))
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}
