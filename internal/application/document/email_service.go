package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/mail"
)

// renderer is the slice of RenderService the email flow needs
type renderer interface {
	RenderInvoice(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error)
	RenderPurchaseOrder(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error)
	RenderReceipt(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error)
}

// EmailService delivers documents as PDF attachments through the
// organization's SMTP relay and records every attempt in the email log.
type EmailService struct {
	invoices  document.InvoiceRepository
	orders    document.PurchaseOrderRepository
	receipts  document.ReceiptRepository
	orgs      identity.OrganizationRepository
	emailLogs document.EmailLogRepository
	render    renderer
	mailer    mail.Mailer
	logger    *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(
	invoices document.InvoiceRepository,
	orders document.PurchaseOrderRepository,
	receipts document.ReceiptRepository,
	orgs identity.OrganizationRepository,
	emailLogs document.EmailLogRepository,
	render renderer,
	mailer mail.Mailer,
	logger *zap.Logger,
) *EmailService {
	return &EmailService{
		invoices:  invoices,
		orders:    orders,
		receipts:  receipts,
		orgs:      orgs,
		emailLogs: emailLogs,
		render:    render,
		mailer:    mailer,
		logger:    logger,
	}
}

// SendInvoice emails the invoice PDF to the customer. A draft invoice moves
// to sent on successful delivery.
func (s *EmailService) SendInvoice(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input SendInput) (*document.EmailLog, error) {
	invoice, err := s.invoices.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !invoice.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionSend, authz.Resource{OrganizationID: invoice.OrganizationID, CreatedBy: invoice.CreatedBy}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	recipient := input.Recipient
	if recipient == "" {
		recipient = invoice.Customer.Email
	}
	if recipient == "" {
		return nil, shared.NewDomainError("NO_RECIPIENT", "Alamat email tujuan tidak tersedia")
	}
	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("Faktur %s dari %s", invoice.Number, org.Name)
	}
	body := input.Body
	if body == "" {
		body = fmt.Sprintf("Dengan hormat,\r\n\r\nTerlampir faktur %s dari %s.\r\n\r\nTerima kasih.", invoice.Number, org.Name)
	}

	rendered, err := s.render.RenderInvoice(ctx, authCtx, id)
	if err != nil {
		return nil, err
	}

	log, err := s.deliver(ctx, org, deliverParams{
		documentID: invoice.ID,
		docType:    numbering.DocTypeInvoice,
		number:     invoice.Number,
		recipient:  recipient,
		subject:    subject,
		body:       body,
		sentBy:     authCtx.UserID,
		attachment: rendered,
	})
	if err != nil {
		return log, err
	}

	if invoice.Status == document.StatusDraft {
		if err := invoice.MarkSent(); err == nil {
			if err := s.invoices.Update(ctx, invoice); err != nil {
				s.logger.Error("Failed to mark emailed invoice as sent",
					zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
			}
		}
	}
	return log, nil
}

// SendPurchaseOrder emails the purchase order PDF to the vendor. A draft
// order moves to sent on successful delivery.
func (s *EmailService) SendPurchaseOrder(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input SendInput) (*document.EmailLog, error) {
	po, err := s.orders.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !po.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionSend, authz.Resource{OrganizationID: po.OrganizationID, CreatedBy: po.CreatedBy}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	recipient := input.Recipient
	if recipient == "" {
		recipient = po.Vendor.Email
	}
	if recipient == "" {
		return nil, shared.NewDomainError("NO_RECIPIENT", "Alamat email tujuan tidak tersedia")
	}
	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("Pesanan pembelian %s dari %s", po.Number, org.Name)
	}
	body := input.Body
	if body == "" {
		body = fmt.Sprintf("Dengan hormat,\r\n\r\nTerlampir pesanan pembelian %s dari %s.\r\n\r\nTerima kasih.", po.Number, org.Name)
	}

	rendered, err := s.render.RenderPurchaseOrder(ctx, authCtx, id)
	if err != nil {
		return nil, err
	}

	log, err := s.deliver(ctx, org, deliverParams{
		documentID: po.ID,
		docType:    numbering.DocTypePurchaseOrder,
		number:     po.Number,
		recipient:  recipient,
		subject:    subject,
		body:       body,
		sentBy:     authCtx.UserID,
		attachment: rendered,
	})
	if err != nil {
		return log, err
	}

	if po.Status == document.StatusDraft {
		if err := po.MarkSent(); err == nil {
			if err := s.orders.Update(ctx, po); err != nil {
				s.logger.Error("Failed to mark emailed purchase order as sent",
					zap.String("purchase_order_id", po.ID.String()), zap.Error(err))
			}
		}
	}
	return log, nil
}

// SendReceipt emails the receipt PDF to the payer
func (s *EmailService) SendReceipt(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input SendInput) (*document.EmailLog, error) {
	receipt, err := s.receipts.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !receipt.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionSend, authz.Resource{OrganizationID: receipt.OrganizationID, CreatedBy: receipt.CreatedBy}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	recipient := input.Recipient
	if recipient == "" {
		recipient = receipt.Payer.Email
	}
	if recipient == "" {
		return nil, shared.NewDomainError("NO_RECIPIENT", "Alamat email tujuan tidak tersedia")
	}
	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("Kwitansi %s dari %s", receipt.Number, org.Name)
	}
	body := input.Body
	if body == "" {
		body = fmt.Sprintf("Dengan hormat,\r\n\r\nTerlampir kwitansi %s dari %s.\r\n\r\nTerima kasih.", receipt.Number, org.Name)
	}

	rendered, err := s.render.RenderReceipt(ctx, authCtx, id)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, org, deliverParams{
		documentID: receipt.ID,
		docType:    numbering.DocTypeReceipt,
		number:     receipt.Number,
		recipient:  recipient,
		subject:    subject,
		body:       body,
		sentBy:     authCtx.UserID,
		attachment: rendered,
	})
}

// History returns the send attempts recorded for one document
func (s *EmailService) History(ctx context.Context, authCtx authz.AuthContext, documentID uuid.UUID) ([]document.EmailLog, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	logs, err := s.emailLogs.FindByDocument(ctx, authCtx.OrganizationID, documentID)
	if err != nil {
		s.logger.Error("Failed to load email history", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat riwayat email")
	}
	return logs, nil
}

// List returns the organization's email log, paginated
func (s *EmailService) List(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.EmailLog], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.emailLogs.List(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list email log", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat riwayat email")
	}
	return result, nil
}

type deliverParams struct {
	documentID uuid.UUID
	docType    numbering.DocType
	number     string
	recipient  string
	subject    string
	body       string
	sentBy     uuid.UUID
	attachment *RenderedDocument
}

// deliver sends the message and records the outcome. The returned log row is
// persisted for both success and failure; a relay rejection surfaces as
// ErrExternalService alongside the failure log.
func (s *EmailService) deliver(ctx context.Context, org *identity.Organization, p deliverParams) (*document.EmailLog, error) {
	msg := mail.Message{
		To:             p.recipient,
		Subject:        p.subject,
		Body:           p.body,
		AttachmentName: p.attachment.FileName,
		Attachment:     p.attachment.PDF,
	}

	sendErr := s.mailer.Send(ctx, org.SMTP, msg)

	var log *document.EmailLog
	if sendErr != nil {
		log = document.NewFailedEmailLog(org.ID, p.documentID, p.docType, p.number, p.recipient, p.subject, p.sentBy, sendErr)
	} else {
		log = document.NewEmailLog(org.ID, p.documentID, p.docType, p.number, p.recipient, p.subject, p.sentBy)
	}
	if err := s.emailLogs.Save(ctx, log); err != nil {
		s.logger.Error("Failed to save email log",
			zap.String("document_id", p.documentID.String()), zap.Error(err))
	}

	if sendErr != nil {
		s.logger.Warn("Document email failed",
			zap.String("number", p.number),
			zap.String("recipient", p.recipient),
			zap.Error(sendErr))
		return log, shared.ErrExternalService
	}

	s.logger.Info("Document emailed",
		zap.String("number", p.number),
		zap.String("recipient", p.recipient))
	return log, nil
}
