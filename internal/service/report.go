package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmfuertes/coursegen/internal/models"
)

// ReportDocName is the document the run report is written to, under the
// course folder. Reruns overwrite the previous report.
const ReportDocName = "informe-ejecucion.json"

func (p *Pipeline) persistReport(ctx context.Context, report *models.RunReport) error {
	if report.CourseFolderID == "" {
		return fmt.Errorf("no course folder to write report under")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	docID, err := p.store.FindDocument(ctx, ReportDocName, report.CourseFolderID)
	if err != nil {
		return fmt.Errorf("find report document: %w", err)
	}
	if docID == "" {
		docID, err = p.store.CreateDocument(ctx, ReportDocName, report.CourseFolderID)
		if err != nil {
			return fmt.Errorf("create report document: %w", err)
		}
	}

	if err := p.store.WriteContent(ctx, docID, string(data)); err != nil {
		return fmt.Errorf("write report document: %w", err)
	}
	return nil
}
