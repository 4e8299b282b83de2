package guide

import (
	"context"
	"fmt"
	"time"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/shared"
	infra "github.com/shipguide/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// GuideLinkTTL is how long a presigned guide document link stays valid
const GuideLinkTTL = 30 * time.Minute

// ObjectStorage is the slice of the object storage service the publisher
// needs. Implemented by the S3 layer.
type ObjectStorage interface {
	// Upload writes an object directly to storage
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	// GenerateDownloadURL generates a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// Publisher renders a committed guide's waybill, uploads it and writes the
// document reference back onto the guide. Publishing runs after the creation
// transaction commits; its failures never invalidate the guide.
type Publisher struct {
	renderer  infra.PDFRenderer
	storage   ObjectStorage
	guideRepo guide.Repository
	logger    *zap.Logger
}

// NewPublisher creates a document publisher
func NewPublisher(renderer infra.PDFRenderer, storage ObjectStorage, guideRepo guide.Repository, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		renderer:  renderer,
		storage:   storage,
		guideRepo: guideRepo,
		logger:    logger,
	}
}

// StorageKey returns the deterministic object key for a guide document
func StorageKey(g *guide.Guide) string {
	return fmt.Sprintf("guides/guide-%s.pdf", g.Number())
}

// Publish renders the waybill, uploads it under the guide's deterministic
// key, presigns a download link and records url+key on the guide. The
// write-back is the secondary update that follows the creation transaction.
func (p *Publisher) Publish(ctx context.Context, g *guide.Guide) (*DocumentInfo, error) {
	html, err := infra.BuildWaybillHTML(g)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Failed to build waybill document")
	}

	result, err := p.renderer.Render(ctx, &infra.RenderRequest{
		HTML:  html,
		Title: "Guía " + g.Number(),
	})
	if err != nil {
		p.logger.Error("waybill render failed",
			zap.Int64("guide_id", g.ID),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.CodePublishing, "Document rendering failed")
	}

	key := StorageKey(g)
	if err := p.storage.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
		p.logger.Error("waybill upload failed",
			zap.Int64("guide_id", g.ID),
			zap.String("storage_key", key),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.CodePublishing, "Document upload failed")
	}

	url, _, err := p.storage.GenerateDownloadURL(ctx, key, GuideLinkTTL)
	if err != nil {
		p.logger.Error("waybill presign failed",
			zap.Int64("guide_id", g.ID),
			zap.String("storage_key", key),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.CodePublishing, "Document link generation failed")
	}

	if err := p.guideRepo.SetDocument(ctx, g.ID, url, key); err != nil {
		p.logger.Error("document reference write-back failed",
			zap.Int64("guide_id", g.ID),
			zap.String("storage_key", key),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.CodePublishing, "Document reference could not be saved")
	}
	g.PDFURL = &url
	g.PDFS3Key = &key

	p.logger.Info("guide document published",
		zap.Int64("guide_id", g.ID),
		zap.String("storage_key", key),
		zap.Int("size_bytes", len(result.PDFData)))

	return &DocumentInfo{
		URL:       url,
		S3Key:     key,
		SizeBytes: int64(len(result.PDFData)),
		ExpiresIn: int64(GuideLinkTTL.Seconds()),
	}, nil
}

// FreshLink mints a new presigned link for an already published document
func (p *Publisher) FreshLink(ctx context.Context, g *guide.Guide) (*DocumentInfo, error) {
	if !g.HasDocument() {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Guide has no published document")
	}
	key := *g.PDFS3Key
	url, _, err := p.storage.GenerateDownloadURL(ctx, key, GuideLinkTTL)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodePublishing, "Document link generation failed")
	}
	return &DocumentInfo{
		URL:       url,
		S3Key:     key,
		ExpiresIn: int64(GuideLinkTTL.Seconds()),
	}, nil
}
