package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the sale group's PDF
// receipt and mails it to the customer. Failures bubble up so the pool can
// retry and eventually dead-letter the job.

import (
	"context"
	"encoding/json"
	"fmt"

	"bookpos/internal/infra"
	"bookpos/internal/repository"

	"github.com/google/uuid"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleGroupID   string `json:"sale_group_id"`
	CustomerEmail string `json:"customer_email"`
	ReceiptNo     int    `json:"receipt_no"`
}

// ReceiptWorker generates and emails PDF receipts for completed sales.
type ReceiptWorker struct {
	txRepo      repository.TransactionRepository
	mailer      *infra.Mailer
	fairName    string
	storagePath string
}

func NewReceiptWorker(txRepo repository.TransactionRepository, mailer *infra.Mailer, fairName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{txRepo: txRepo, mailer: mailer, fairName: fairName, storagePath: storagePath}
}

// Process renders the PDF and sends it. Returns an error on anything
// retryable; malformed payloads are dropped without error.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil // unparseable — retrying won't help
	}
	if payload.CustomerEmail == "" {
		return nil
	}

	groupID, err := uuid.Parse(payload.SaleGroupID)
	if err != nil {
		return nil
	}

	txs, err := w.txRepo.ListBySaleGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale group: %w", err)
	}
	if len(txs) == 0 {
		return fmt.Errorf("receipt_worker: sale group %s has no transactions", groupID)
	}

	pdfPath, err := infra.GenerateReceiptPDF(txs, w.fairName, w.storagePath, payload.ReceiptNo)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s — Receipt #%d", w.fairName, payload.ReceiptNo)
	body := fmt.Sprintf("Thank you for your purchase!\n\nYour receipt #%d is attached.\n\n%s", payload.ReceiptNo, w.fairName)
	if err := w.mailer.SendReceipt(payload.CustomerEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("receipt_worker: send email: %w", err)
	}
	return nil
}
