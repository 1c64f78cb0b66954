package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/internal/model"
	"github.com/certmint/certmint/internal/storage"
)

// fakeRasterizer returns canned PNG bytes and records the HTML it was given.
type fakeRasterizer struct {
	mu       sync.Mutex
	html     []string
	err      error
	inflight atomic.Int32
	maxSeen  atomic.Int32
	block    chan struct{} // when set, Rasterize waits until closed
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	cur := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		max := f.maxSeen.Load()
		if cur <= max || f.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}

	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}

	f.mu.Lock()
	f.html = append(f.html, html)
	f.mu.Unlock()
	return []byte("\x89PNGfake"), nil
}

// fakeRepo is an in-memory CertificateRepository with an injectable insert
// error.
type fakeRepo struct {
	mu        sync.Mutex
	certs     map[string]*model.Certificate
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{certs: map[string]*model.Certificate{}}
}

func (r *fakeRepo) Insert(cert *model.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.certs[cert.ID]; exists {
		return errors.New("duplicate id")
	}
	r.certs[cert.ID] = cert
	return nil
}

func (r *fakeRepo) List() ([]*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Certificate
	for _, c := range r.certs {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) ByID(id string) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.certs[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func newTestService(t *testing.T, repo *fakeRepo, rast *fakeRasterizer, maxRenders int) (*CertificateService, storage.Storage) {
	t.Helper()
	store, err := storage.NewDiskStorage(t.TempDir())
	require.NoError(t, err)
	return NewCertificateService(repo, store, rast, nil, "http://localhost:3000", maxRenders), store
}

func validInput() IssueInput {
	return IssueInput{
		Name:    "Jane Doe",
		USN:     "1AB20CS001",
		College: "ABC Institute",
		Type:    "Internship",
		Date:    "2024-01-01",
		Hours:   "40",
	}
}

func TestIssueProducesRecordAndImage(t *testing.T) {
	repo := newFakeRepo()
	rast := &fakeRasterizer{}
	svc, store := newTestService(t, repo, rast, 2)

	cert, err := svc.Issue(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, cert.ID+".png", cert.Filename)
	assert.Equal(t, 40, cert.Hours)
	assert.False(t, cert.CreatedAt.IsZero())

	// exactly one record
	certs, err := repo.List()
	require.NoError(t, err)
	require.Len(t, certs, 1)

	// exactly one stored, non-empty image named by the record
	names, err := store.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{cert.Filename}, names)

	rc, err := store.Open(context.Background(), cert.Filename)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestIssueRendersRecipientFieldsAndQR(t *testing.T) {
	repo := newFakeRepo()
	rast := &fakeRasterizer{}
	svc, _ := newTestService(t, repo, rast, 2)

	cert, err := svc.Issue(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, rast.html, 1)
	html := rast.html[0]
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "1AB20CS001")
	assert.Contains(t, html, "data:image/png;base64,")
	// the QR links to /view/{id}; the id itself only appears via the QR
	assert.Equal(t, "http://localhost:3000/view/"+cert.ID, svc.VerificationURL(cert.ID))
}

func TestIssueDefaultsHoursToZero(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, &fakeRasterizer{}, 2)

	for _, hours := range []string{"", "forty", "-3"} {
		input := validInput()
		input.Hours = hours
		cert, err := svc.Issue(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 0, cert.Hours, "hours %q", hours)
	}
}

func TestIssueRasterizeFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	rast := &fakeRasterizer{err: errors.New("browser crashed")}
	svc, store := newTestService(t, repo, rast, 2)

	_, err := svc.Issue(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser crashed")

	// no record, no image
	certs, _ := repo.List()
	assert.Empty(t, certs)
	names, _ := store.List(context.Background())
	assert.Empty(t, names)
}

func TestIssueInsertFailureDeletesImage(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("db unavailable")
	svc, store := newTestService(t, repo, &fakeRasterizer{}, 2)

	_, err := svc.Issue(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert certificate record")

	names, listErr := store.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, names, "orphaned image must be cleaned up")
}

func TestIssueBoundsConcurrentRasterization(t *testing.T) {
	repo := newFakeRepo()
	rast := &fakeRasterizer{block: make(chan struct{})}
	svc, _ := newTestService(t, repo, rast, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Issue(context.Background(), validInput())
		}()
	}

	// Let the goroutines pile up against the semaphore, then release.
	for rast.inflight.Load() < 2 {
	}
	close(rast.block)
	wg.Wait()

	assert.LessOrEqual(t, rast.maxSeen.Load(), int32(2))
}

func TestIssueCancelledContextWhileQueued(t *testing.T) {
	repo := newFakeRepo()
	rast := &fakeRasterizer{block: make(chan struct{})}
	svc, _ := newTestService(t, repo, rast, 1)

	// Occupy the only render slot.
	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = svc.Issue(context.Background(), validInput())
	}()
	<-started
	for rast.inflight.Load() < 1 {
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Issue(ctx, validInput())
	assert.True(t, errors.Is(err, context.Canceled))

	close(rast.block)
}

func TestVerificationURL(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo(), &fakeRasterizer{}, 1)
	assert.Equal(t, "http://localhost:3000/view/abc", svc.VerificationURL("abc"))
	assert.True(t, strings.HasPrefix(svc.VerificationURL("abc"), "http://localhost:3000/view/"))
}
