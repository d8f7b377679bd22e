package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appdocument "github.com/invois/backend/internal/application/document"
	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// InvoiceHandler serves invoice CRUD, the status machine, trash lifecycle,
// PDF download and emailing
type InvoiceHandler struct {
	BaseHandler
	invoices *appdocument.InvoiceService
	render   *appdocument.RenderService
	email    *appdocument.EmailService
}

// NewInvoiceHandler creates an invoice handler
func NewInvoiceHandler(
	invoices *appdocument.InvoiceService,
	render *appdocument.RenderService,
	email *appdocument.EmailService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: NewBaseHandler(logger),
		invoices:    invoices,
		render:      render,
		email:       email,
	}
}

// Create makes a new invoice; the document number is drawn atomically inside
// the insert transaction
func (h *InvoiceHandler) Create(c *gin.Context) {
	var input appdocument.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data faktur tidak lengkap: pelanggan, tanggal terbit dan jatuh tempo wajib diisi")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), authCtx, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns a page of active invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.invoices.List(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// ListTrash returns a page of soft-deleted invoices
func (h *InvoiceHandler) ListTrash(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.invoices.ListTrash(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// PreviewNumber returns the advisory next invoice number for UI display
func (h *InvoiceHandler) PreviewNumber(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	preview, err := h.invoices.PreviewNumber(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Update edits a draft, sent or overdue invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var input appdocument.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data faktur tidak lengkap")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.Update(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkSent moves a draft invoice to sent
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.invoices.MarkSent)
}

// MarkPaid settles a sent or overdue invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.invoices.MarkPaid)
}

// Cancel voids an invoice that is not yet paid
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.invoices.Cancel)
}

// Delete moves an invoice to the trash
func (h *InvoiceHandler) Delete(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore brings an invoice back from the trash with its number intact
func (h *InvoiceHandler) Restore(c *gin.Context) {
	h.transition(c, h.invoices.Restore)
}

// Purge permanently removes a trashed invoice
func (h *InvoiceHandler) Purge(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.invoices.Purge(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF renders the invoice and streams it as a download
func (h *InvoiceHandler) PDF(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	rendered, err := h.render.RenderInvoice(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePDF(c, rendered)
}

// Send emails the invoice as a PDF attachment through the organization's relay
func (h *InvoiceHandler) Send(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	// Body is optional; defaults come from the document's party email
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

	log, err := h.email.SendInvoice(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// EmailHistory returns the delivery log of one invoice
func (h *InvoiceHandler) EmailHistory(c *gin.Context) {
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

func (h *InvoiceHandler) transition(c *gin.Context, apply func(context.Context, authz.AuthContext, uuid.UUID) (*document.Invoice, error)) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invoice, err := apply(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RegisterScopedRoutes mounts the invoice endpoints
func (h *InvoiceHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices", h.Create)
	rg.GET("/invoices", h.List)
	rg.GET("/invoices/trash", h.ListTrash)
	rg.GET("/invoices/number-preview", h.PreviewNumber)
	rg.GET("/invoices/:id", h.Get)
	rg.PUT("/invoices/:id", h.Update)
	rg.DELETE("/invoices/:id", h.Delete)
	rg.POST("/invoices/:id/mark-sent", h.MarkSent)
	rg.POST("/invoices/:id/mark-paid", h.MarkPaid)
	rg.POST("/invoices/:id/cancel", h.Cancel)
	rg.POST("/invoices/:id/restore", h.Restore)
	rg.DELETE("/invoices/:id/permanent", h.Purge)
	rg.GET("/invoices/:id/pdf", h.PDF)
	rg.POST("/invoices/:id/send", h.Send)
	rg.GET("/invoices/:id/emails", h.EmailHistory)
}

// writePDF streams a rendered document as an attachment download
func writePDF(c *gin.Context, rendered *appdocument.RenderedDocument) {
	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(rendered.FileName)+`"`)
	c.Data(http.StatusOK, "application/pdf", rendered.PDF)
}
