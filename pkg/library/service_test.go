package library

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/maktaba/pkg/catalog"
	"github.com/hazyhaar/maktaba/pkg/match"
)

// fakeUploader records uploads and hands out predictable locators.
type fakeUploader struct {
	uploads []string
	fail    error
}

func (f *fakeUploader) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	io.Copy(io.Discard, r)
	f.uploads = append(f.uploads, name)
	return "https://files.example/" + name, nil
}

func testService(t *testing.T, up Uploader) *Service {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	norm := match.NewNormalizer(match.DefaultFolds())
	return New(store, norm, match.NewResolver(norm, 0, 0), up, nil)
}

func TestResolveThroughService(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.AddRow(ctx, catalog.Book{Scholar: "Ibn Taymiyyah", Title: "Majmu al-Fatawa", URL: "loc1"}); err != nil {
		t.Fatalf("AddRow: %v", err)
	}

	p, ok, err := svc.Resolve(ctx, "majmu al fatawa")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || p.Scholar != "Ibn Taymiyyah" {
		t.Errorf("Resolve = %+v, %v", p, ok)
	}
}

func TestAddInvalidatesIndex(t *testing.T) {
	up := &fakeUploader{}
	svc := testService(t, up)
	ctx := context.Background()

	// Prime the cache with an empty catalog.
	if _, ok, _ := svc.Resolve(ctx, "sahih"); ok {
		t.Fatal("unexpected match on empty catalog")
	}

	b, err := svc.Add(ctx, "Bukhari", "Sahih", strings.NewReader("%PDF-"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.URL != "https://files.example/Sahih.pdf" {
		t.Errorf("locator = %q", b.URL)
	}
	if len(up.uploads) != 1 || up.uploads[0] != "Sahih.pdf" {
		t.Errorf("uploads = %v", up.uploads)
	}

	// The new book is visible without any explicit reload.
	p, ok, err := svc.Resolve(ctx, "bukhari sahih")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || p.Title != "Sahih" {
		t.Errorf("Resolve after Add = %+v, %v", p, ok)
	}
}

func TestAddUploadFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := testService(t, &fakeUploader{fail: boom})
	ctx := context.Background()

	_, err := svc.Add(ctx, "Bukhari", "Sahih", strings.NewReader("%PDF-"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected upload error, got %v", err)
	}

	// The failed add must not have inserted a row.
	n, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("catalog has %d rows after failed upload", n)
	}
}

func TestAddWithoutUploader(t *testing.T) {
	svc := testService(t, nil)
	if _, err := svc.Add(context.Background(), "B", "T", strings.NewReader("x")); err == nil {
		t.Fatal("expected error with nil uploader")
	}
}

func TestRemoveInvalidatesIndex(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.AddRow(ctx, catalog.Book{Scholar: "Bukhari", Title: "Sahih", URL: "x"}); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if _, ok, _ := svc.Resolve(ctx, "bukhari sahih"); !ok {
		t.Fatal("expected match before removal")
	}

	n, err := svc.Remove(ctx, "Bukhari", "Sahih")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 1 {
		t.Errorf("Remove = %d, want 1", n)
	}
	if _, ok, _ := svc.Resolve(ctx, "bukhari sahih"); ok {
		t.Error("stale index served after removal")
	}
}

func TestSuggestThroughService(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	if err := svc.AddRow(ctx, catalog.Book{Scholar: "Al-Ghazali", Title: "Ihya Ulum al-Din", URL: "x"}); err != nil {
		t.Fatalf("AddRow: %v", err)
	}

	got, err := svc.Suggest(ctx, "ihya ulum", 3)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0].Scholar != "Al-Ghazali" {
		t.Errorf("Suggest = %v", got)
	}
}

func TestDuplicateAddRow(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	b := catalog.Book{Scholar: "Bukhari", Title: "Sahih", URL: "x"}
	if err := svc.AddRow(ctx, b); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if err := svc.AddRow(ctx, b); !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
