package status

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/internal/repo/memory"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
)

type fakeNotifier struct {
	mu     sync.Mutex
	pushes []entity.AuthorizationPush
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, push entity.AuthorizationPush) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pushes = append(n.pushes, push)
	return n.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*entity.DecisionEvent
}

func (e *fakeEvents) Publish(_ context.Context, event *entity.DecisionEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = append(e.events, event)
	return nil
}

func (e *fakeEvents) Close() error { return nil }

func (e *fakeEvents) types() []entity.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]entity.EventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

type failingBlobs struct{}

func (failingBlobs) Upload(context.Context, string, []byte, string) (string, error) {
	return "", errs.ErrBlob
}

type failingStatusInsert struct {
	*memory.StatusRepo
}

func (failingStatusInsert) Insert(context.Context, *entity.Status) error {
	return errs.ErrStorage
}

type fixture struct {
	uc       *StatusUseCase
	store    *memory.Store
	blobs    *memory.BlobRepo
	notifier *fakeNotifier
	events   *fakeEvents
	clock    *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    memory.New(),
		blobs:    memory.NewBlobRepo("http://localhost:9000", "pictures"),
		notifier: &fakeNotifier{},
		events:   &fakeEvents{},
		clock:    clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.uc = New(f.store.Pictures(), f.store.Statuses(), f.blobs, f.notifier, f.events, logger.Nop(), WithClock(f.clock))

	return f
}

func jpegLike(n int) []byte {
	data := make([]byte, n)
	data[0], data[1] = 0xFF, 0xD8
	for i := 2; i < n; i++ {
		data[i] = byte(i)
	}
	return data
}

func TestCreateFromUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.uc.CreateFromUpload(ctx, jpegLike(12345))
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}

	if got.Authorised {
		t.Error("new status must not be authorised")
	}
	if !strings.HasPrefix(got.Picture.Name, "uploads/capture_") || !strings.HasSuffix(got.Picture.Name, ".jpg") {
		t.Errorf("object name = %q", got.Picture.Name)
	}
	if !strings.HasSuffix(got.Picture.URL, got.Picture.Name) {
		t.Errorf("url %q does not end in %q", got.Picture.URL, got.Picture.Name)
	}

	stored, err := f.store.Statuses().FindByID(ctx, got.ID)
	if err != nil {
		t.Fatalf("status not stored: %v", err)
	}
	if stored.PictureID != got.Picture.ID {
		t.Errorf("status.PictureID = %s, want %s", stored.PictureID, got.Picture.ID)
	}

	obj, ok := f.blobs.Get(got.Picture.Name)
	if !ok || len(obj.Data) != 12345 || obj.ContentType != "image/jpeg" {
		t.Errorf("blob = %v/%d/%q", ok, len(obj.Data), obj.ContentType)
	}

	if ev := f.events.types(); len(ev) != 1 || ev[0] != entity.StatusCreated {
		t.Errorf("events = %v", ev)
	}
}

func TestCreateFromUploadEmptyPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateFromUpload(context.Background(), nil)
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	if pictures, statuses := f.store.Counts(); pictures != 0 || statuses != 0 {
		t.Errorf("persisted %d pictures, %d statuses", pictures, statuses)
	}
	if f.blobs.Len() != 0 {
		t.Errorf("uploaded %d blobs", f.blobs.Len())
	}
}

func TestCreateFromUploadBlobFailure(t *testing.T) {
	f := newFixture(t)
	uc := New(f.store.Pictures(), f.store.Statuses(), failingBlobs{}, f.notifier, f.events, logger.Nop())

	_, err := uc.CreateFromUpload(context.Background(), jpegLike(10))
	if !errors.Is(err, errs.ErrBlob) {
		t.Fatalf("err = %v, want ErrBlob", err)
	}
	if pictures, statuses := f.store.Counts(); pictures != 0 || statuses != 0 {
		t.Errorf("persisted %d pictures, %d statuses", pictures, statuses)
	}
}

func TestCreateFromUploadStatusFailureIsSurfaced(t *testing.T) {
	f := newFixture(t)
	statuses := failingStatusInsert{f.store.Statuses()}
	uc := New(f.store.Pictures(), statuses, f.blobs, f.notifier, f.events, logger.Nop())

	_, err := uc.CreateFromUpload(context.Background(), jpegLike(10))
	if !errors.Is(err, errs.ErrIntegrity) {
		t.Fatalf("err = %v, want ErrIntegrity", err)
	}

	if pictures, statuses := f.store.Counts(); pictures != 1 || statuses != 0 {
		t.Errorf("got %d pictures, %d statuses; want the picture kept", pictures, statuses)
	}
}

func TestAuthoriseThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateFromUpload(ctx, jpegLike(64))
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}

	first, err := f.uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := f.uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *first != *second {
		t.Errorf("Get is not idempotent: %+v vs %+v", first, second)
	}

	f.clock.Advance(time.Minute)

	updated, err := f.uc.SetAuthorisation(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("SetAuthorisation: %v", err)
	}
	if !updated.Authorised {
		t.Error("SetAuthorisation returned authorised=false")
	}

	got, err := f.uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Authorised {
		t.Error("Get after authorise returned authorised=false")
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at %v not after created_at %v", got.UpdatedAt, got.CreatedAt)
	}

	if ev := f.events.types(); len(ev) != 2 || ev[1] != entity.StatusAuthorisationChanged {
		t.Errorf("events = %v", ev)
	}
}

func TestSetAuthorisationUnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.SetAuthorisation(context.Background(), uuid.New(), true)
	if !errors.Is(err, errs.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
	if _, statuses := f.store.Counts(); statuses != 0 {
		t.Errorf("created %d statuses", statuses)
	}
}

func TestGetMissingPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status := &entity.Status{ID: uuid.New(), PictureID: uuid.New(), CreatedAt: f.clock.Now()}
	if err := f.store.Statuses().Insert(ctx, status); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	_, err := f.uc.Get(ctx, status.ID)
	if !errors.Is(err, errs.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
	if !errors.Is(err, errs.ErrIntegrity) {
		t.Errorf("err = %v, want ErrIntegrity", err)
	}
}

func TestPushDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.CreateFromUpload(ctx, jpegLike(64))
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}
	if _, err = f.uc.SetAuthorisation(ctx, created.ID, true); err != nil {
		t.Fatalf("SetAuthorisation: %v", err)
	}

	if _, err = f.uc.PushDecision(ctx, created.ID); err != nil {
		t.Fatalf("PushDecision: %v", err)
	}

	want := entity.AuthorizationPush{ID: created.ID.String(), Authorised: true}
	if len(f.notifier.pushes) != 1 || f.notifier.pushes[0] != want {
		t.Fatalf("pushes = %+v, want [%+v]", f.notifier.pushes, want)
	}
}

func TestPushDecisionFailureKeepsDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.err = errs.ErrNetwork

	created, err := f.uc.CreateFromUpload(ctx, jpegLike(64))
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}
	if _, err = f.uc.SetAuthorisation(ctx, created.ID, true); err != nil {
		t.Fatalf("SetAuthorisation: %v", err)
	}

	_, err = f.uc.PushDecision(ctx, created.ID)
	if !errors.Is(err, errs.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}

	got, err := f.uc.Get(ctx, created.ID)
	if err != nil || !got.Authorised {
		t.Fatalf("decision lost after failed push: %+v, %v", got, err)
	}
	if len(f.notifier.pushes) != 1 {
		t.Errorf("push attempted %d times, want 1", len(f.notifier.pushes))
	}
}

func TestReconcileOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	old := &entity.Picture{ID: uuid.New(), Name: "uploads/old.jpg", CreatedAt: now.Add(-10 * time.Minute)}
	fresh := &entity.Picture{ID: uuid.New(), Name: "uploads/fresh.jpg", CreatedAt: now.Add(-10 * time.Second)}
	for _, p := range []*entity.Picture{old, fresh} {
		if err := f.store.Pictures().Insert(ctx, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	r := NewReconciler(f.store.Pictures(), f.store.Statuses(), f.events, f.clock, logger.Nop())

	n, err := r.ReconcileOrphans(ctx, time.Minute, 10)
	if err != nil {
		t.Fatalf("ReconcileOrphans: %v", err)
	}
	if n != 1 {
		t.Fatalf("repaired %d, want 1", n)
	}

	orphans, _ := f.store.Pictures().FindOrphans(ctx, now.Add(time.Hour), 10)
	if len(orphans) != 1 || orphans[0].ID != fresh.ID {
		t.Errorf("remaining orphans = %v, want only the fresh picture", orphans)
	}

	n, err = r.ReconcileOrphans(ctx, time.Minute, 10)
	if err != nil || n != 0 {
		t.Errorf("second sweep repaired %d, err %v", n, err)
	}
}
