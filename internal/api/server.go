package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortorder/internal/inventory"
	"shortorder/internal/kitchen"
	"shortorder/internal/planner"
	"shortorder/internal/stations"
)

// Server wires the service into a gin router
type Server struct {
	Router  *gin.Engine
	service *Service
}

// NewServer creates the HTTP surface over a service
func NewServer(service *Service) *Server {
	s := &Server{
		Router:  gin.Default(),
		service: service,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		// Kitchen operations
		v1.GET("/kitchen/status", s.GetStatus)
		v1.POST("/kitchen/tick", s.Tick)
		v1.POST("/kitchen/place", s.PlaceIngredient)
		v1.POST("/kitchen/flip", s.FlipStove)
		v1.POST("/kitchen/activate", s.ActivateCuttingBoard)
		v1.POST("/kitchen/ready/retrieve", s.RetrieveReady)

		// Order management
		v1.POST("/orders", s.SubmitOrder)
		v1.POST("/orders/:id/assemble", s.AssembleOrder)
		v1.POST("/orders/:id/collect", s.CollectOrder)

		// Inventory
		v1.GET("/inventory", s.GetInventory)
		v1.GET("/inventory/freshness", s.GetFreshness)
		v1.POST("/inventory/restock", s.Restock)
		v1.POST("/inventory/sweep", s.SweepExpired)

		// Catalog projections
		v1.GET("/catalog/items", s.GetItems)
		v1.GET("/catalog/recipes", s.GetRecipes)
		v1.GET("/catalog/plan/:id", s.GetPlan)
	}
}

// statusFor maps core failures onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, stations.ErrZoneFull),
		errors.Is(err, stations.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, kitchen.ErrUnknownOrder),
		errors.Is(err, planner.ErrNotProducible),
		errors.Is(err, stations.ErrUnknownZone):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// GetStatus returns the full state projection
func (s *Server) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Snapshot())
}

// Tick advances the zones by the requested duration
func (s *Server) Tick(c *gin.Context) {
	var req struct {
		DeltaMs int64 `json:"delta_ms" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DeltaMs < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta_ms must not be negative"})
		return
	}
	completed := s.service.Tick(time.Duration(req.DeltaMs) * time.Millisecond)
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

// PlaceIngredient moves an ingredient from inventory onto a zone
func (s *Server) PlaceIngredient(c *gin.Context) {
	var req struct {
		Input  string `json:"input"`
		Output string `json:"output" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.service.PlaceIngredient(req.Input, req.Output); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "placed"})
}

// FlipStove flips a paused stove slot
func (s *Server) FlipStove(c *gin.Context) {
	var req struct {
		Slot int `json:"slot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.service.FlipStove(req.Slot)
	c.JSON(http.StatusOK, gin.H{"message": "flipped"})
}

// ActivateCuttingBoard toggles a cutting-board slot's active flag
func (s *Server) ActivateCuttingBoard(c *gin.Context) {
	var req struct {
		Slot   int  `json:"slot"`
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.service.ActivateCuttingBoard(req.Slot, req.Active)
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// RetrieveReady takes one completed item out of the ready pool
func (s *Server) RetrieveReady(c *gin.Context) {
	var req struct {
		Item string `json:"item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.service.RetrieveReady(req.Item); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "retrieved"})
}

// SubmitOrder enqueues a new pending order
func (s *Server) SubmitOrder(c *gin.Context) {
	var req struct {
		Item     string `json:"item" binding:"required"`
		Customer string `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := s.service.SubmitOrder(req.Item, req.Customer)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// AssembleOrder fulfills a pending order
func (s *Server) AssembleOrder(c *gin.Context) {
	if err := s.service.AssembleOrder(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order up"})
}

// CollectOrder hands an assembled order to the caller
func (s *Server) CollectOrder(c *gin.Context) {
	order, err := s.service.CollectOrder(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetInventory returns the unit count per item
func (s *Server) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.InventoryCounts())
}

// GetFreshness returns the stalest freshness fraction per item
func (s *Server) GetFreshness(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Freshness())
}

// Restock purchases raw items into the inventory
func (s *Server) Restock(c *gin.Context) {
	var req struct {
		Item string `json:"item" binding:"required"`
		Qty  int    `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cost, err := s.service.Restock(req.Item, req.Qty)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restocked", "cost": cost})
}

// SweepExpired drops expired inventory entries
func (s *Server) SweepExpired(c *gin.Context) {
	removed := s.service.SweepExpired()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// GetItems lists the catalog items
func (s *Server) GetItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Catalog().Items())
}

// GetRecipes lists the catalog recipes
func (s *Server) GetRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Catalog().Recipes())
}

// GetPlan returns the production plan for an item
func (s *Server) GetPlan(c *gin.Context) {
	plan, err := s.service.PlanFor(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}
