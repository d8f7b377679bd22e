package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcustomer "github.com/invois/backend/internal/application/customer"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// CustomerHandler serves the saved customer directory
type CustomerHandler struct {
	BaseHandler
	customers *appcustomer.Service
}

// NewCustomerHandler creates a customer handler
func NewCustomerHandler(customers *appcustomer.Service, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{BaseHandler: NewBaseHandler(logger), customers: customers}
}

// Create saves a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var input appcustomer.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Nama pelanggan wajib diisi")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), authCtx, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List returns a page of customers, searchable by name, email or phone
func (h *CustomerHandler) List(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.customers.List(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// Update edits a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var input appcustomer.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Nama pelanggan wajib diisi")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer from the directory. Documents keep their party
// snapshot, so past invoices are unaffected.
func (h *CustomerHandler) Delete(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterScopedRoutes mounts the customer directory endpoints
func (h *CustomerHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.POST("/customers", h.Create)
	rg.GET("/customers", h.List)
	rg.GET("/customers/:id", h.Get)
	rg.PUT("/customers/:id", h.Update)
	rg.DELETE("/customers/:id", h.Delete)
}
