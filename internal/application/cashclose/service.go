// Package cashclose aggregates a period's guides into a close record and
// publishes its report through the same render/upload/presign pipeline the
// guides use, with a longer link window for accounting review.
package cashclose

import (
	"context"
	"fmt"
	"time"

	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/domain/cashclose"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/domain/shared"
	infra "github.com/shipguide/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportLinkTTL is how long a presigned cash-close report link stays valid
const ReportLinkTTL = 7 * 24 * time.Hour

// CreateRequest represents a request to close a period
type CreateRequest struct {
	PeriodType cashclose.PeriodType `json:"period_type" binding:"required"`
	// Date selects the period: the day itself for DAILY, any day of the
	// month for MONTHLY. Format 2006-01-02.
	Date string `json:"date" binding:"required"`
}

// Response is the close read model
type Response struct {
	ID          int64                `json:"id"`
	Number      string               `json:"number"`
	PeriodType  cashclose.PeriodType `json:"period_type"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	TotalGuides int                  `json:"total_guides"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	TotalCash   decimal.Decimal      `json:"total_cash"`
	TotalCOD    decimal.Decimal      `json:"total_cod"`
	TotalCredit decimal.Decimal      `json:"total_credit"`

	Document *guideapp.DocumentInfo `json:"document,omitempty"`
	Warning  string                 `json:"warning,omitempty"`
}

// Service handles cash close operations
type Service struct {
	closeRepo cashclose.Repository
	renderer  infra.PDFRenderer
	storage   guideapp.ObjectStorage
	logger    *zap.Logger
}

// NewService creates a cash close service
func NewService(closeRepo cashclose.Repository, renderer infra.PDFRenderer, storage guideapp.ObjectStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		closeRepo: closeRepo,
		renderer:  renderer,
		storage:   storage,
		logger:    logger,
	}
}

// StorageKey returns the deterministic object key for a close report. Keys
// are partitioned by the period's year and month.
func StorageKey(cc *cashclose.CashClose) string {
	return fmt.Sprintf("cash-closes/%04d/%02d/close-%s.pdf",
		cc.StartDate.Year(), int(cc.StartDate.Month()), cc.Number())
}

// Create closes the requested period: aggregate the guides created inside
// the window, persist the close, then render and publish its report. Like
// guide publishing, a report failure downgrades to a warning.
func (s *Service) Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Response, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, shared.NewDomainError(shared.CodeAuthorization, "Only administrators may close a period")
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Date must be formatted as YYYY-MM-DD")
	}

	var start, end time.Time
	switch req.PeriodType {
	case cashclose.PeriodDaily:
		start = day
		end = day.AddDate(0, 0, 1)
	case cashclose.PeriodMonthly:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end = start.AddDate(0, 1, 0)
	default:
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown close period type")
	}

	cc, err := cashclose.NewCashClose(req.PeriodType, start, end, actor.ID)
	if err != nil {
		return nil, err
	}

	totals, err := s.closeRepo.AggregateGuides(ctx, start, end)
	if err != nil {
		s.logger.Error("cash close aggregation failed", zap.Error(err))
		return nil, shared.ErrPersistence
	}
	cc.Apply(*totals)

	if err := s.closeRepo.Create(ctx, cc); err != nil {
		s.logger.Error("cash close insert failed", zap.Error(err))
		return nil, shared.ErrPersistence
	}

	s.logger.Info("cash close created",
		zap.Int64("close_id", cc.ID),
		zap.String("period", string(cc.PeriodType)),
		zap.Int("guides", cc.TotalGuides),
		zap.String("total", cc.TotalAmount.String()))

	resp := toResponse(cc)
	doc, err := s.publish(ctx, cc)
	if err != nil {
		s.logger.Warn("cash close committed but report publishing failed",
			zap.Int64("close_id", cc.ID),
			zap.Error(err))
		resp.Warning = "Close was recorded but its report could not be published"
		return resp, nil
	}
	resp.Document = doc
	return resp, nil
}

// GetByID returns a stored close
func (s *Service) GetByID(ctx context.Context, closeID int64) (*Response, error) {
	cc, err := s.closeRepo.FindByID(ctx, closeID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	return toResponse(cc), nil
}

// DocumentLink mints a fresh 7-day link for a close report
func (s *Service) DocumentLink(ctx context.Context, closeID int64) (*guideapp.DocumentInfo, error) {
	cc, err := s.closeRepo.FindByID(ctx, closeID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	if cc.PDFS3Key == nil || *cc.PDFS3Key == "" {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Close has no published report")
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, *cc.PDFS3Key, ReportLinkTTL)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Report link generation failed")
	}
	return &guideapp.DocumentInfo{
		URL:       url,
		S3Key:     *cc.PDFS3Key,
		ExpiresIn: int64(ReportLinkTTL.Seconds()),
	}, nil
}

func (s *Service) publish(ctx context.Context, cc *cashclose.CashClose) (*guideapp.DocumentInfo, error) {
	html, err := infra.BuildCashCloseHTML(cc)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Failed to build close report")
	}
	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:  html,
		Title: "Cierre " + cc.Number(),
	})
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Report rendering failed")
	}

	key := StorageKey(cc)
	if err := s.storage.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Report upload failed")
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, ReportLinkTTL)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Report link generation failed")
	}
	if err := s.closeRepo.SetDocument(ctx, cc.ID, url, key); err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Report reference could not be saved")
	}
	cc.PDFURL = &url
	cc.PDFS3Key = &key

	return &guideapp.DocumentInfo{
		URL:       url,
		S3Key:     key,
		SizeBytes: int64(len(result.PDFData)),
		ExpiresIn: int64(ReportLinkTTL.Seconds()),
	}, nil
}

func toResponse(c *cashclose.CashClose) *Response {
	return &Response{
		ID:          c.ID,
		Number:      c.Number(),
		PeriodType:  c.PeriodType,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		TotalGuides: c.TotalGuides,
		TotalAmount: c.TotalAmount,
		TotalCash:   c.TotalCash,
		TotalCOD:    c.TotalCOD,
		TotalCredit: c.TotalCredit,
	}
}
