package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
)

const (
	pdfContentType   = "application/pdf"
	exportKeyPrefix  = "exports/"
	presignedURLLife = 15 * time.Minute
)

// ExportService turns a recipe into a PDF and, when object storage is
// configured, publishes it.
type ExportService struct {
	store ObjectStore
	log   *logger.Logger
}

var _ IExportService = (*ExportService)(nil)

// NewExportService accepts a nil store; Publish then fails with
// ErrStorageDisabled.
func NewExportService(store ObjectStore, log *logger.Logger) *ExportService {
	return &ExportService{store: store, log: log.With("service", "ExportService")}
}

// Filename is the lowercased title with spaces replaced by underscores.
func (s *ExportService) Filename(recipe *models.Recipe) string {
	return strings.ReplaceAll(strings.ToLower(recipe.Title), " ", "_") + "_recipe.pdf"
}

func (s *ExportService) RenderPDF(recipe *models.Recipe) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	created := recipe.CreatedAt.Format("02/01/2006")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr("Created At: "+created), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 10, tr(recipe.Title), "", "C", false)
	pdf.Ln(4)

	if recipe.Description != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(recipe.Description), "", "L", false)
		pdf.Ln(4)
	}

	section(pdf, tr, "Details")
	pdf.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Preparation time", strconv.FormatUint(uint64(recipe.PreparationTimeMinutes), 10) + " min"},
		{"Price", recipe.Price.StringFixed(2)},
		{"Difficulty", recipe.Difficulty.Label()},
	}
	if recipe.Link != "" {
		details = append(details, [2]string{"Link", recipe.Link})
	}
	for _, d := range details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, tr(d[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(d[1]), "", "L", false)
	}
	pdf.Ln(4)

	if len(recipe.Tags) > 0 {
		names := make([]string, 0, len(recipe.Tags))
		for _, t := range recipe.Tags {
			names = append(names, t.Name)
		}
		section(pdf, tr, "Tags")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(strings.Join(names, ", ")), "", "L", false)
		pdf.Ln(4)
	}

	if len(recipe.Ingredients) > 0 {
		section(pdf, tr, "Ingredients")
		pdf.SetFont("Helvetica", "", 11)
		for _, ing := range recipe.Ingredients {
			pdf.MultiCell(0, 7, tr("• "+ing.Name), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

// Publish uploads the rendered PDF and returns a short-lived download URL.
func (s *ExportService) Publish(ctx context.Context, recipe *models.Recipe) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	body, err := s.RenderPDF(recipe)
	if err != nil {
		return "", err
	}

	key := exportKeyPrefix + recipe.ID.String() + "/" + s.Filename(recipe)
	if err := s.store.Upload(ctx, key, pdfContentType, body); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	url, err := s.store.GeneratePresignedURL(ctx, key, presignedURLLife)
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}
	s.log.Info("Recipe exported", "recipe_id", recipe.ID, "key", key)
	return url, nil
}
