package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService builds Excel exports of receipts and loans
type ReportService struct {
	receiptRepo repository.ReceiptRepository
	loanRepo    repository.LoanRepository
}

// NewReportService creates a new report service
func NewReportService(receiptRepo repository.ReceiptRepository, loanRepo repository.LoanRepository) *ReportService {
	return &ReportService{receiptRepo: receiptRepo, loanRepo: loanRepo}
}

// ExportReceipts builds a workbook of all receipts in [start, end), one row
// per line item so oil volumes stay visible.
func (s *ReportService) ExportReceipts(ctx context.Context, start, end time.Time) (*excelize.File, error) {
	receipts, err := s.receiptRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Receipts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"ReceiptNo", "Date", "Customer", "Phone", "VehicleNo", "Item", "Category", "Litres", "Quantity", "UnitPrice", "LineTotal", "ReceiptTotal"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, receipt := range receipts {
		for _, item := range receipt.Items {
			values := []interface{}{
				receipt.ReceiptNo,
				receipt.CreatedAt.Format("2006-01-02 15:04"),
				receipt.CustomerName,
				receipt.CustomerPhone,
				receipt.VehicleNo,
				item.ItemName,
				string(item.Category),
				item.Litres.InexactFloat64(),
				item.Quantity,
				float64(item.Price) / 100,
				float64(item.Total) / 100,
				float64(receipt.TotalAmount) / 100,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, err
				}
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	return f, nil
}

// ExportLoans builds a workbook of all loans (optionally filtered by
// status), one row per loan with its running balance.
func (s *ReportService) ExportLoans(ctx context.Context, status *enum.LoanStatus) (*excelize.File, error) {
	loans, err := s.loanRepo.ListAll(ctx, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Loans"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Customer", "Phone", "VehicleNo", "Description", "Total", "Paid", "Remaining", "Status", "Payments", "Opened"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, loan := range loans {
		description := ""
		if loan.Description != nil {
			description = *loan.Description
		}
		vehicleNo := ""
		if loan.VehicleNo != nil {
			vehicleNo = *loan.VehicleNo
		}
		values := []interface{}{
			loan.CustomerName,
			loan.CustomerPhone,
			vehicleNo,
			description,
			float64(loan.TotalAmount) / 100,
			float64(loan.PaidAmount) / 100,
			float64(loan.Remaining) / 100,
			string(loan.Status),
			len(loan.Payments),
			loan.CreatedAt.Format("2006-01-02"),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

// ReceiptsFilename returns the download name for a receipts export
func ReceiptsFilename(start, end time.Time) string {
	return fmt.Sprintf("receipts_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
}
