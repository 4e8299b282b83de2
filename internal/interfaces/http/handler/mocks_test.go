package handler

import (
	"context"
	"time"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shipguide/backend/internal/domain/shared"
	infra "github.com/shipguide/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"

	guideapp "github.com/shipguide/backend/internal/application/guide"
)

// MockRateRepository is a mock implementation of pricing.RateRepository
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindByRoute(ctx context.Context, originCityID, destCityID int64) (*pricing.RateRecord, error) {
	args := m.Called(ctx, originCityID, destCityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.RateRecord), args.Error(1)
}

func (m *MockRateRepository) ListAll(ctx context.Context) ([]pricing.RateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.RateRecord), args.Error(1)
}

// MockCityRepository is a mock implementation of reference.CityRepository
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) FindByID(ctx context.Context, id int64) (*reference.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.City), args.Error(1)
}

func (m *MockCityRepository) ListAll(ctx context.Context) ([]reference.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reference.City), args.Error(1)
}

// memGuideRepo is a minimal in-memory guide.Repository for endpoint tests
type memGuideRepo struct {
	nextID   int64
	guides   map[int64]*guide.Guide
	parties  []guide.Party
	packages []guide.Package
}

func newMemGuideRepo() *memGuideRepo {
	return &memGuideRepo{guides: make(map[int64]*guide.Guide)}
}

func (f *memGuideRepo) CreateGuide(_ context.Context, g *guide.Guide) error {
	f.nextID++
	g.ID = f.nextID
	copied := *g
	f.guides[g.ID] = &copied
	return nil
}

func (f *memGuideRepo) CreateParty(_ context.Context, p *guide.Party) error {
	f.parties = append(f.parties, *p)
	return nil
}

func (f *memGuideRepo) CreatePackage(_ context.Context, pkg *guide.Package) error {
	f.packages = append(f.packages, *pkg)
	return nil
}

func (f *memGuideRepo) AppendHistory(_ context.Context, entry *guide.StatusHistoryEntry) error {
	g, ok := f.guides[entry.GuideID]
	if ok {
		g.History = append(g.History, *entry)
	}
	return nil
}

func (f *memGuideRepo) CreateOverride(_ context.Context, _ *guide.PriceOverride) error { return nil }

func (f *memGuideRepo) FindByID(_ context.Context, guideID int64) (*guide.Guide, error) {
	g, ok := f.guides[guideID]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Guide not found")
	}
	copied := *g
	for i := range f.parties {
		if f.parties[i].GuideID != guideID {
			continue
		}
		p := f.parties[i]
		switch p.Role {
		case guide.RoleSender:
			copied.Sender = &p
		case guide.RoleReceiver:
			copied.Receiver = &p
		}
	}
	for i := range f.packages {
		if f.packages[i].GuideID == guideID {
			pkg := f.packages[i]
			copied.Package = &pkg
			break
		}
	}
	return &copied, nil
}

func (f *memGuideRepo) List(_ context.Context, filter guide.ListFilter) ([]guide.Guide, int64, error) {
	out := make([]guide.Guide, 0, len(f.guides))
	for _, g := range f.guides {
		if filter.Status != "" && g.CurrentStatus != filter.Status {
			continue
		}
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (f *memGuideRepo) Exists(_ context.Context, guideID int64) (bool, error) {
	_, ok := f.guides[guideID]
	return ok, nil
}

func (f *memGuideRepo) UpdateStatus(_ context.Context, guideID int64, status guide.Status) error {
	g, ok := f.guides[guideID]
	if !ok {
		return shared.ErrNotFound
	}
	g.CurrentStatus = status
	return nil
}

func (f *memGuideRepo) SetDocument(_ context.Context, guideID int64, url, storageKey string) error {
	g, ok := f.guides[guideID]
	if !ok {
		return shared.ErrNotFound
	}
	g.PDFURL = &url
	g.PDFS3Key = &storageKey
	return nil
}

func (f *memGuideRepo) Stats(_ context.Context) (*guide.Stats, error) {
	byStatus := make(map[string]int64)
	for _, g := range f.guides {
		byStatus[g.CurrentStatus.String()]++
	}
	return &guide.Stats{TotalToday: int64(len(f.guides)), ByStatus: byStatus}, nil
}

// passScope runs the transactional function directly against the fake repo
type passScope struct {
	repo *memGuideRepo
}

func (s *passScope) Execute(_ context.Context, fn func(repos guideapp.TransactionalRepositories) error) error {
	return fn(s)
}

func (s *passScope) GuideRepo() guide.Repository {
	return s.repo
}

// stubRenderer returns fixed bytes or a canned failure
type stubRenderer struct {
	fail error
}

func (r *stubRenderer) Render(_ context.Context, _ *infra.RenderRequest) (*infra.RenderResult, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return &infra.RenderResult{PDFData: []byte("%PDF-1.4 stub")}, nil
}

func (r *stubRenderer) Close() error { return nil }

// stubStorage records uploads in memory
type stubStorage struct {
	uploads map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{uploads: make(map[string][]byte)}
}

func (s *stubStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	s.uploads[storageKey] = data
	return nil
}

func (s *stubStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/" + storageKey + "?signed=1", time.Now().Add(expiresIn), nil
}
