package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/lubetrack/lubetrack-api/pkg/printer"
	"github.com/sirupsen/logrus"
)

// PrinterService formats oil-change receipts and sends them to the
// configured thermal printer.
type PrinterService struct {
	printer     printer.Printer
	receiptRepo repository.ReceiptRepository
	userRepo    repository.UserRepository
	printerType string
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	receiptRepo repository.ReceiptRepository,
	userRepo repository.UserRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		receiptRepo: receiptRepo,
		userRepo:    userRepo,
		printerType: printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// shopHeader holds the shop details printed at the top of every receipt.
type shopHeader struct {
	Name    string
	Address string
	Phone   string
}

func (s *PrinterService) loadHeader(ctx context.Context, userID uuid.UUID) shopHeader {
	header := shopHeader{Name: "Oil Change Centre"}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return header
	}
	if user.ShopName != nil && *user.ShopName != "" {
		header.Name = *user.ShopName
	}
	if user.ShopAddress != nil {
		header.Address = *user.ShopAddress
	}
	if user.ShopPhone != nil {
		header.Phone = *user.ShopPhone
	}
	return header
}

// PrintReceipt fetches a receipt with its lines and prints it. The receipt
// is returned so the handler can show it even when no printer is attached.
func (s *PrinterService) PrintReceipt(ctx context.Context, userID, receiptID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithItems(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	data := FormatReceipt(receipt, s.loadHeader(ctx, userID))
	if err := s.printer.Print(data); err != nil {
		logrus.WithError(err).WithField("receipt_no", receipt.ReceiptNo).Error("Printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// TestPrint sends a test page to the printer.
func (s *PrinterService) TestPrint(ctx context.Context, userID uuid.UUID) error {
	doc := printer.NewDocument(32)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("PRINTER TEST").
		SetBold(false).
		Text(s.loadHeader(ctx, userID).Name).
		FeedLines(3).
		PartialCut()

	return s.printer.Print(doc.Bytes())
}

// FormatReceipt converts a receipt into ESC/POS bytes for 58mm paper.
func FormatReceipt(r *entity.Receipt, header shopHeader) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(header.Name).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if header.Address != "" {
		doc.Text(header.Address)
	}
	if header.Phone != "" {
		doc.Text(header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Receipt info
	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.CreatedAt.Format("2006-01-02 15:04"))

	if r.CustomerName != "" {
		doc.KeyValue("Customer:", r.CustomerName)
	}
	if r.VehicleNo != "" {
		doc.KeyValue("Vehicle:", r.VehicleNo)
	}
	if r.Model != "" {
		doc.KeyValue("Model:", r.Model)
	}

	doc.Separator('-')

	// Items: oil lines show litres, filter lines show unit counts.
	for _, item := range r.Items {
		if item.Category.IsOil() {
			doc.VolumeLine(item.Litres.InexactFloat64(), item.ItemName, fmt.Sprintf("%.2f", float64(item.Total)/100))
			doc.TextF("  @ %.2f per litre", float64(item.Price)/100)
		} else {
			doc.ItemLine(item.Quantity, item.ItemName, fmt.Sprintf("%.2f", float64(item.Total)/100))
			if item.Quantity > 1 {
				doc.TextF("  @ %.2f each", float64(item.Price)/100)
			}
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", float64(r.TotalAmount)/100)).
		SetBold(false)

	// Mileage block: next-change reminder for the windscreen sticker.
	if r.NewMileage > 0 || r.AfterChange > 0 {
		doc.Separator('-')
		if r.UsedMileage > 0 {
			doc.KeyValue("Mileage in:", fmt.Sprintf("%d", r.UsedMileage))
		}
		if r.NewMileage > 0 {
			doc.KeyValue("Mileage out:", fmt.Sprintf("%d", r.NewMileage))
		}
		if r.AfterChange > 0 {
			doc.KeyValue("Next change:", fmt.Sprintf("%d", r.AfterChange))
		}
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you, drive safely!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
