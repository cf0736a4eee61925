// Package sheets exports daily summaries to a Google Spreadsheet so the
// owners can keep their books outside the application database.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/osvalr/cantina/internal/config"
	"github.com/osvalr/cantina/internal/domain/models"
)

const summaryRange = "Summaries!A:F"

// Exporter appends summary rows to an external spreadsheet.
type Exporter interface {
	AppendSummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetExporter implements Exporter using the official Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Sheets-backed exporter.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary appends one row per summary: date range and the three totals
// plus the net result.
func (e *GoogleSheetExporter) AppendSummary(ctx context.Context, summary models.DailySummary) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{
		summary.From.Format("2006-01-02"),
		summary.To.Format("2006-01-02"),
		summary.Sales,
		summary.Purchases,
		summary.Expenses,
		summary.Net,
	}}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row: %w", err)
	}

	e.logger.Debug("summary row appended to sheet", zap.Time("from", summary.From))
	return nil
}
