package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appdocument "github.com/invois/backend/internal/application/document"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// ReceiptHandler serves receipt CRUD, trash lifecycle, PDF download and
// emailing. Receipts have no status machine.
type ReceiptHandler struct {
	BaseHandler
	receipts *appdocument.ReceiptService
	render   *appdocument.RenderService
	email    *appdocument.EmailService
}

// NewReceiptHandler creates a receipt handler
func NewReceiptHandler(
	receipts *appdocument.ReceiptService,
	render *appdocument.RenderService,
	email *appdocument.EmailService,
	logger *zap.Logger,
) *ReceiptHandler {
	return &ReceiptHandler{
		BaseHandler: NewBaseHandler(logger),
		receipts:    receipts,
		render:      render,
		email:       email,
	}
}

// Create makes a new receipt; the amount is spelled out in Indonesian words
// when the caller leaves amount_in_words empty
func (h *ReceiptHandler) Create(c *gin.Context) {
	var input appdocument.CreateReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data kwitansi tidak lengkap: pembayar, tanggal, metode dan jumlah wajib diisi")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	receipt, err := h.receipts.Create(c.Request.Context(), authCtx, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// Get returns one receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	receipt, err := h.receipts.Get(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// List returns a page of active receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.receipts.List(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// ListTrash returns a page of soft-deleted receipts
func (h *ReceiptHandler) ListTrash(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.receipts.ListTrash(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// PreviewNumber returns the advisory next receipt number
func (h *ReceiptHandler) PreviewNumber(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	preview, err := h.receipts.PreviewNumber(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Update edits a receipt
func (h *ReceiptHandler) Update(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var input appdocument.UpdateReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Data kwitansi tidak lengkap")
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	receipt, err := h.receipts.Update(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Delete moves a receipt to the trash. A linked invoice is untouched.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.receipts.Delete(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore brings a receipt back from the trash
func (h *ReceiptHandler) Restore(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	receipt, err := h.receipts.Restore(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Purge permanently removes a trashed receipt
func (h *ReceiptHandler) Purge(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.receipts.Purge(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF renders the receipt and streams it as a download
func (h *ReceiptHandler) PDF(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	rendered, err := h.render.RenderReceipt(c.Request.Context(), authCtx, idReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePDF(c, rendered)
}

// Send emails the receipt as a PDF attachment
func (h *ReceiptHandler) Send(c *gin.Context) {
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

	log, err := h.email.SendReceipt(c.Request.Context(), authCtx, idReq.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// EmailHistory returns the delivery log of one receipt
func (h *ReceiptHandler) EmailHistory(c *gin.Context) {
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

// RegisterScopedRoutes mounts the receipt endpoints
func (h *ReceiptHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.POST("/receipts", h.Create)
	rg.GET("/receipts", h.List)
	rg.GET("/receipts/trash", h.ListTrash)
	rg.GET("/receipts/number-preview", h.PreviewNumber)
	rg.GET("/receipts/:id", h.Get)
	rg.PUT("/receipts/:id", h.Update)
	rg.DELETE("/receipts/:id", h.Delete)
	rg.POST("/receipts/:id/restore", h.Restore)
	rg.DELETE("/receipts/:id/permanent", h.Purge)
	rg.GET("/receipts/:id/pdf", h.PDF)
	rg.POST("/receipts/:id/send", h.Send)
	rg.GET("/receipts/:id/emails", h.EmailHistory)
}
