package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appdocument "github.com/invois/backend/internal/application/document"
	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler serves purchase order CRUD, the status machine, trash
// lifecycle, PDF download and emailing
type PurchaseOrderHandler struct {
	BaseHandler
	orders *appdocument.PurchaseOrderService
	render *appdocument.RenderService
	email  *appdocument.EmailService
}

// NewPurchaseOrderHandler creates a purchase order handler
func NewPurchaseOrderHandler(
	orders *appdocument.PurchaseOrderService,
	render *appdocument.RenderService,
	email *appdocument.EmailService,
	logger *zap.Logger,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		BaseHandler: NewBaseHandler(logger),
		orders:      orders,
		render:      render,
		email:       email,
	}
}

// Create makes a new purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var input appdocument.CreatePurchaseOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data pesanan pembelian tidak lengkap: pemasok, tanggal terbit dan jatuh tempo wajib diisi")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	order, err := h.orders.Create(c.Request.Context(), authCtx, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get returns one purchase order
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List returns a page of active purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.orders.List(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// ListTrash returns a page of soft-deleted purchase orders
func (h *PurchaseOrderHandler) ListTrash(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.orders.ListTrash(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// PreviewNumber returns the advisory next purchase order number
func (h *PurchaseOrderHandler) PreviewNumber(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	preview, err := h.orders.PreviewNumber(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Update edits a purchase order that is not yet finalized
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var input appdocument.UpdatePurchaseOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data pesanan pembelian tidak lengkap")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	order, err := h.orders.Update(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkSent moves a draft purchase order to sent
func (h *PurchaseOrderHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.orders.MarkSent)
}

// MarkPaid settles a sent or overdue purchase order
func (h *PurchaseOrderHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.orders.MarkPaid)
}

// Cancel voids a purchase order that is not yet paid
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orders.Cancel)
}

// Delete moves a purchase order to the trash
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore brings a purchase order back from the trash
func (h *PurchaseOrderHandler) Restore(c *gin.Context) {
	h.transition(c, h.orders.Restore)
}

// Purge permanently removes a trashed purchase order
func (h *PurchaseOrderHandler) Purge(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.orders.Purge(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF renders the purchase order and streams it as a download
func (h *PurchaseOrderHandler) PDF(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	rendered, err := h.render.RenderPurchaseOrder(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePDF(c, rendered)
}

// Send emails the purchase order as a PDF attachment
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var input appdocument.SendInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			h.BadRequest(c, "Permintaan pengiriman tidak valid")
			return
		}
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	log, err := h.email.SendPurchaseOrder(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// EmailHistory returns the delivery log of one purchase order
func (h *PurchaseOrderHandler) EmailHistory(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	history, err := h.email.History(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

func (h *PurchaseOrderHandler) transition(c *gin.Context, apply func(context.Context, authz.AuthContext, uuid.UUID) (*document.PurchaseOrder, error)) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RegisterScopedRoutes mounts the purchase order endpoints
func (h *PurchaseOrderHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.POST("/purchase-orders", h.Create)
	rg.GET("/purchase-orders", h.List)
	rg.GET("/purchase-orders/trash", h.ListTrash)
	rg.GET("/purchase-orders/number-preview", h.PreviewNumber)
	rg.GET("/purchase-orders/:id", h.Get)
	rg.PUT("/purchase-orders/:id", h.Update)
	rg.DELETE("/purchase-orders/:id", h.Delete)
	rg.POST("/purchase-orders/:id/mark-sent", h.MarkSent)
	rg.POST("/purchase-orders/:id/mark-paid", h.MarkPaid)
	rg.POST("/purchase-orders/:id/cancel", h.Cancel)
	rg.POST("/purchase-orders/:id/restore", h.Restore)
	rg.DELETE("/purchase-orders/:id/permanent", h.Purge)
	rg.GET("/purchase-orders/:id/pdf", h.PDF)
	rg.POST("/purchase-orders/:id/send", h.Send)
	rg.GET("/purchase-orders/:id/emails", h.EmailHistory)
}
