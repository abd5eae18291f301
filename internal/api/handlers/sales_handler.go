package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/salesdash/backend-go/internal/service"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

func (h *SalesHandler) ListPlans(c *gin.Context) {
	filter, err := parseSalesPlanFilter(c)
	if err != nil {
		respondError(c, err, "failed to fetch sales plans")
		return
	}

	plans, err := h.service.ListPlans(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to fetch sales plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

func (h *SalesHandler) GetPlanOptions(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch sales plan options")
		return
	}

	c.JSON(http.StatusOK, opts)
}

func (h *SalesHandler) CreatePlan(c *gin.Context) {
	var in domain.SalesPlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to create sales plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *SalesHandler) UpdatePlan(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "failed to update sales plan")
		return
	}

	var in domain.SalesPlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "failed to update sales plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *SalesHandler) DeletePlan(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "failed to delete sales plan")
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete sales plan")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) ListPerformance(c *gin.Context) {
	filter, err := parseSalesPlanFilter(c)
	if err != nil {
		respondError(c, err, "failed to fetch sales performance")
		return
	}

	records, err := h.service.ListPerformance(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to fetch sales performance")
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *SalesHandler) SavePerformance(c *gin.Context) {
	var in domain.SalesPerformanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.service.SavePerformance(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to save sales performance")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *SalesHandler) DeletePerformance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err, "failed to delete sales performance")
		return
	}

	if err := h.service.DeletePerformance(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete sales performance")
		return
	}

	c.Status(http.StatusNoContent)
}
