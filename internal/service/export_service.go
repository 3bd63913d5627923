package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/export"
	"github.com/nwced/clc-registry-api/pkg/storage"
)

// Export formats accepted by the exports endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

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
	RelativePath string    `json:"file"`
	Token        string    `json:"token"`
	URL          string    `json:"url"`
	Format       string    `json:"format"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExportService renders registry datasets to downloadable files.
type ExportService struct {
	store   store.Store
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(st store.Store, fs fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
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
		store:   st,
		storage: fs,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate renders one register in the requested format and returns a signed
// download link.
func (s *ExportService) Generate(ctx context.Context, entity models.EntityType, format string) (*ExportResult, error) {
	dataset, title, err := s.buildDataset(ctx, entity)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("%s/%s-%s.%s", entity, entity, time.Now().UTC().Format("20060102-150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// Open validates a download token and returns a handle to the stored file.
func (s *ExportService) Open(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file no longer available")
	}
	return file, relPath, nil
}

// CleanupExpired removes export files older than the result TTL.
func (s *ExportService) CleanupExpired(ctx context.Context) error {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("cleaned up expired exports", zap.Int("count", len(deleted)))
	}
	return nil
}

func (s *ExportService) buildDataset(ctx context.Context, entity models.EntityType) (export.Dataset, string, error) {
	switch entity {
	case models.EntitySite:
		sites, err := s.store.Sites.GetAll(ctx)
		if err != nil {
			return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sites")
		}
		return siteDataset(sites), "Site Register", nil
	case models.EntityStaff:
		staff, err := s.store.Staff.GetAll(ctx)
		if err != nil {
			return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff")
		}
		return staffDataset(staff), "Staff Register", nil
	case models.EntityAsset:
		assets, err := s.store.Assets.GetAll(ctx)
		if err != nil {
			return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assets")
		}
		return assetDataset(assets), "Asset Register", nil
	case models.EntityProgram:
		programs, err := s.store.Programs.GetAll(ctx)
		if err != nil {
			return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programs")
		}
		return programDataset(programs), "Program Register", nil
	}
	return export.Dataset{}, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export entity %q", entity))
}

func siteDataset(sites []models.Site) export.Dataset {
	headers := []string{"Site ID", "Name", "Type", "District", "Operational Status", "Assessment Status", "Classrooms", "Offices", "Labs", "Workshops", "Building Condition"}
	rows := make([]map[string]string, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, map[string]string{
			"Site ID":            site.SiteID,
			"Name":               site.Name,
			"Type":               site.Type,
			"District":           site.District,
			"Operational Status": site.OperationalStatus,
			"Assessment Status":  site.AssessmentStatus,
			"Classrooms":         strconv.Itoa(site.Classrooms),
			"Offices":            strconv.Itoa(site.Offices),
			"Labs":               strconv.Itoa(site.Labs),
			"Workshops":          strconv.Itoa(site.Workshops),
			"Building Condition": site.BuildingCondition,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func staffDataset(staff []models.Staff) export.Dataset {
	headers := []string{"Staff ID", "First Name", "Last Name", "Position", "Department", "Email", "Verified", "Workload", "Site"}
	rows := make([]map[string]string, 0, len(staff))
	for _, member := range staff {
		site := ""
		if member.SiteID != nil {
			site = strconv.FormatInt(*member.SiteID, 10)
		}
		rows = append(rows, map[string]string{
			"Staff ID":   member.StaffID,
			"First Name": member.FirstName,
			"Last Name":  member.LastName,
			"Position":   member.Position,
			"Department": member.Department,
			"Email":      member.Email,
			"Verified":   strconv.FormatBool(member.Verified),
			"Workload":   strconv.Itoa(member.Workload),
			"Site":       site,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func assetDataset(assets []models.Asset) export.Dataset {
	headers := []string{"Asset ID", "Name", "Category", "Condition", "Location", "Assigned To", "Site"}
	rows := make([]map[string]string, 0, len(assets))
	for _, asset := range assets {
		site := ""
		if asset.SiteID != nil {
			site = strconv.FormatInt(*asset.SiteID, 10)
		}
		rows = append(rows, map[string]string{
			"Asset ID":    asset.AssetID,
			"Name":        asset.Name,
			"Category":    asset.Category,
			"Condition":   asset.Condition,
			"Location":    asset.Location,
			"Assigned To": asset.AssignedTo,
			"Site":        site,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func programDataset(programs []models.Program) export.Dataset {
	headers := []string{"Program ID", "Name", "Category", "Status", "Enrollment", "Site"}
	rows := make([]map[string]string, 0, len(programs))
	for _, program := range programs {
		site := ""
		if program.SiteID != nil {
			site = strconv.FormatInt(*program.SiteID, 10)
		}
		rows = append(rows, map[string]string{
			"Program ID": program.ProgramID,
			"Name":       program.Name,
			"Category":   program.Category,
			"Status":     program.Status,
			"Enrollment": strconv.Itoa(program.EnrollmentCount),
			"Site":       site,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
