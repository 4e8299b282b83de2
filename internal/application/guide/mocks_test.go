package guide

import (
	"context"
	"time"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shipguide/backend/internal/domain/shared"
	infra "github.com/shipguide/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
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

// fakeGuideRepo is an in-memory guide.Repository with per-call error
// injection, used to drive the orchestrator through rollback paths that a
// call-expectation mock cannot express cleanly.
type fakeGuideRepo struct {
	nextID int64

	guides    map[int64]*guide.Guide
	parties   []guide.Party
	packages  []guide.Package
	history   []guide.StatusHistoryEntry
	overrides []guide.PriceOverride

	failGuide    error
	failParty    error
	failPackage  error
	failHistory  error
	failOverride error
	failSetDoc   error

	docURL, docKey string
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{guides: make(map[int64]*guide.Guide)}
}

func (f *fakeGuideRepo) CreateGuide(_ context.Context, g *guide.Guide) error {
	if f.failGuide != nil {
		return f.failGuide
	}
	f.nextID++
	g.ID = f.nextID
	copied := *g
	f.guides[g.ID] = &copied
	return nil
}

func (f *fakeGuideRepo) CreateParty(_ context.Context, p *guide.Party) error {
	if f.failParty != nil {
		return f.failParty
	}
	f.parties = append(f.parties, *p)
	return nil
}

func (f *fakeGuideRepo) CreatePackage(_ context.Context, pkg *guide.Package) error {
	if f.failPackage != nil {
		return f.failPackage
	}
	f.packages = append(f.packages, *pkg)
	return nil
}

func (f *fakeGuideRepo) AppendHistory(_ context.Context, entry *guide.StatusHistoryEntry) error {
	if f.failHistory != nil {
		return f.failHistory
	}
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeGuideRepo) CreateOverride(_ context.Context, o *guide.PriceOverride) error {
	if f.failOverride != nil {
		return f.failOverride
	}
	f.overrides = append(f.overrides, *o)
	return nil
}

func (f *fakeGuideRepo) FindByID(_ context.Context, guideID int64) (*guide.Guide, error) {
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
	for _, h := range f.history {
		if h.GuideID == guideID {
			copied.History = append(copied.History, h)
		}
	}
	return &copied, nil
}

func (f *fakeGuideRepo) List(_ context.Context, _ guide.ListFilter) ([]guide.Guide, int64, error) {
	out := make([]guide.Guide, 0, len(f.guides))
	for _, g := range f.guides {
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (f *fakeGuideRepo) Exists(_ context.Context, guideID int64) (bool, error) {
	_, ok := f.guides[guideID]
	return ok, nil
}

func (f *fakeGuideRepo) UpdateStatus(_ context.Context, guideID int64, status guide.Status) error {
	g, ok := f.guides[guideID]
	if !ok {
		return shared.NewDomainError(shared.CodeNotFound, "Guide not found")
	}
	g.CurrentStatus = status
	return nil
}

func (f *fakeGuideRepo) SetDocument(_ context.Context, guideID int64, url, storageKey string) error {
	if f.failSetDoc != nil {
		return f.failSetDoc
	}
	g, ok := f.guides[guideID]
	if !ok {
		return shared.NewDomainError(shared.CodeNotFound, "Guide not found")
	}
	g.PDFURL = &url
	g.PDFS3Key = &storageKey
	f.docURL, f.docKey = url, storageKey
	return nil
}

func (f *fakeGuideRepo) Stats(_ context.Context) (*guide.Stats, error) {
	byStatus := make(map[string]int64)
	for _, g := range f.guides {
		byStatus[g.CurrentStatus.String()]++
	}
	return &guide.Stats{TotalToday: int64(len(f.guides)), ByStatus: byStatus}, nil
}

// rollbackScope mimics transactional behavior for the fake repo: if the
// function fails, every collection is restored to its pre-call snapshot.
type rollbackScope struct {
	repo *fakeGuideRepo
}

func (s *rollbackScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snapGuides := make(map[int64]*guide.Guide, len(s.repo.guides))
	for id, g := range s.repo.guides {
		copied := *g
		snapGuides[id] = &copied
	}
	snapParties := append([]guide.Party(nil), s.repo.parties...)
	snapPackages := append([]guide.Package(nil), s.repo.packages...)
	snapHistory := append([]guide.StatusHistoryEntry(nil), s.repo.history...)
	snapOverrides := append([]guide.PriceOverride(nil), s.repo.overrides...)
	snapNextID := s.repo.nextID

	if err := fn(s); err != nil {
		s.repo.guides = snapGuides
		s.repo.parties = snapParties
		s.repo.packages = snapPackages
		s.repo.history = snapHistory
		s.repo.overrides = snapOverrides
		s.repo.nextID = snapNextID
		return err
	}
	return nil
}

func (s *rollbackScope) GuideRepo() guide.Repository {
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
	uploads    map[string][]byte
	failUpload error
	failSign   error
}

func newStubStorage() *stubStorage {
	return &stubStorage{uploads: make(map[string][]byte)}
}

func (s *stubStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if s.failUpload != nil {
		return s.failUpload
	}
	s.uploads[storageKey] = data
	return nil
}

func (s *stubStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if s.failSign != nil {
		return "", time.Time{}, s.failSign
	}
	return "https://storage.test/" + storageKey + "?signed=1", time.Now().Add(expiresIn), nil
}
