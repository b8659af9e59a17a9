package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/pkg/export"
	"github.com/akggautamasar/shopmatee-api/pkg/storage"
)

type substitutionExportSource interface {
	Records(ctx context.Context, from, to string) ([]models.SubstitutionRecord, error)
	Stats(ctx context.Context, from, to string) ([]models.TeacherSubstitutionStats, error)
}

type salaryExportSource interface {
	MonthlySummaries(ctx context.Context, month string) ([]models.StaffMonthlySummary, error)
}

type accountExportSource interface {
	Balances(ctx context.Context) ([]models.ContactBalance, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds export datasets and persists rendered files.
type ExportService struct {
	substitutions substitutionExportSource
	salaries      salaryExportSource
	accounts      accountExportSource
	storage       fileStorage
	csv           csvRenderer
	pdf           pdfRenderer
	signer        *storage.SignedURLSigner
	logger        *zap.Logger
	cfg           ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(substitutions substitutionExportSource, salaries salaryExportSource, accounts accountExportSource, fs fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		substitutions: substitutions,
		salaries:      salaries,
		accounts:      accounts,
		storage:       fs,
		csv:           csv,
		pdf:           pdf,
		signer:        signer,
		logger:        logger,
		cfg:           cfg,
	}
}

// Generate builds the dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Sign(storage.DownloadClaim{
		JobID:  job.ID,
		Path:   relPath,
		Format: string(job.Params.Format),
	})
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token and returns its claim.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadClaim, error) {
	return s.signer.Verify(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := job.Params.Month
	if scope == "" {
		scope = job.Params.DateFrom
	}
	name := fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), sanitizeFilename(scope), timestamp, job.Params.Format)
	return name
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypeSubstitutions:
		return s.buildSubstitutionDataset(ctx, job.Params)
	case models.ExportTypeSalary:
		return s.buildSalaryDataset(ctx, job.Params)
	case models.ExportTypeAccountBook:
		return s.buildAccountBookDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) buildSubstitutionDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	records, err := s.substitutions.Records(ctx, params.DateFrom, params.DateTo)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Date":           r.Date,
			"Period":         r.Period,
			"Class":          r.ClassName,
			"Subject":        r.Subject,
			"Absent Teacher": r.AbsentTeacherName,
			"Substitute":     r.SubstituteTeacherName,
			"Remarks":        deref(r.Remarks),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Date", "Period", "Class", "Subject", "Absent Teacher", "Substitute", "Remarks"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Substitution Report %s to %s", params.DateFrom, params.DateTo)
	return dataset, title, nil
}

func (s *ExportService) buildSalaryDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	summaries, err := s.salaries.MonthlySummaries(ctx, params.Month)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, map[string]string{
			"Staff":          sum.StaffName,
			"Present":        fmt.Sprintf("%d", sum.PresentDays),
			"Absent":         fmt.Sprintf("%d", sum.AbsentDays),
			"Half Days":      fmt.Sprintf("%d", sum.HalfDays),
			"Overtime":       fmt.Sprintf("%d", sum.OvertimeDays),
			"Payable Days":   fmt.Sprintf("%.1f", sum.PayableDays),
			"Salary Payable": fmt.Sprintf("%.2f", sum.SalaryPayable),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Staff", "Present", "Absent", "Half Days", "Overtime", "Payable Days", "Salary Payable"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Salary Sheet %s", params.Month)
	return dataset, title, nil
}

func (s *ExportService) buildAccountBookDataset(ctx context.Context) (export.Dataset, string, error) {
	balances, err := s.accounts.Balances(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, map[string]string{
			"Contact":      b.ContactName,
			"Total Credit": fmt.Sprintf("%.2f", b.TotalCredit),
			"Total Debit":  fmt.Sprintf("%.2f", b.TotalDebit),
			"Balance":      fmt.Sprintf("%.2f", b.Balance),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Contact", "Total Credit", "Total Debit", "Balance"},
		Rows:    rows,
	}
	return dataset, "Account Book Balances", nil
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
