package sheets

import (
	"context"

	"github.com/tallyapp/tally/internal/model"
)

// Export bundles everything one spreadsheet export carries.
type Export struct {
	Summary      *model.SummaryReport
	Categories   *model.CategoryAnalysis
	Months       *model.TimeAnalysis
	Transactions []model.Transaction
}

// ReportWriter writes a report export to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, export *Export) error
}
