package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

func testDoc(n int) dashboard.Document {
	elements := make([]dashboard.Element, n)
	for i := range elements {
		elements[i] = dashboard.Element{
			ID:      "el-" + string(rune('a'+i)),
			Type:    "bar-chart",
			X:       float64(i * 100),
			Y:       20,
			Width:   200,
			Height:  150,
			Payload: map[string]any{"title": "Sales"},
		}
	}
	state := dashboard.State{
		Theme:    "DA001",
		Canvas:   dashboard.CanvasSettings{Width: 1920, Height: 1080, BackgroundColor: "#ffffff"},
		Elements: elements,
	}
	return dashboard.NewDocument(state, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

// exercise runs the behavior every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Get(missing) error = %v, want DOCUMENT_NOT_FOUND", err)
	}
	if err := s.Put(ctx, "../escape", testDoc(1)); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("Put(../escape) error = %v, want INVALID_NAME", err)
	}

	if err := s.Put(ctx, "sales", testDoc(2)); err != nil {
		t.Fatalf("Put(sales) error = %v", err)
	}
	if err := s.Put(ctx, "annual", testDoc(3)); err != nil {
		t.Fatalf("Put(annual) error = %v", err)
	}

	got, err := s.Get(ctx, "sales")
	if err != nil {
		t.Fatalf("Get(sales) error = %v", err)
	}
	if len(got.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(got.Elements))
	}
	if got.Elements[1].X != 100 || got.Elements[1].Title() != "Sales" {
		t.Errorf("Elements[1] = %+v, want x=100 title=Sales", got.Elements[1])
	}
	if got.CanvasSettings == nil || got.CanvasSettings.Width != 1920 {
		t.Errorf("CanvasSettings = %+v, want width 1920", got.CanvasSettings)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	if list[0].Name != "annual" || list[1].Name != "sales" {
		t.Errorf("List() names = %s, %s, want annual, sales", list[0].Name, list[1].Name)
	}
	if list[0].Elements != 3 {
		t.Errorf("List()[0].Elements = %d, want 3", list[0].Elements)
	}

	if err := s.Delete(ctx, "sales"); err != nil {
		t.Fatalf("Delete(sales) error = %v", err)
	}
	if err := s.Delete(ctx, "sales"); !errors.IsNotFound(err) {
		t.Errorf("second Delete(sales) error = %v, want not found", err)
	}
	if _, err := s.Get(ctx, "sales"); !errors.IsNotFound(err) {
		t.Errorf("Get after Delete error = %v, want not found", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestFileStoreWritesPlainDocuments(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), "board", testDoc(1)); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "board.json"))
	if err != nil {
		t.Fatalf("open board.json: %v", err)
	}
	defer f.Close()
	doc, err := dashboard.Decode(f)
	if err != nil {
		t.Fatalf("Decode(board.json) error = %v", err)
	}
	if doc.Version != dashboard.FormatVersion {
		t.Errorf("Version = %q, want %q", doc.Version, dashboard.FormatVersion)
	}

	if _, err := os.Stat(filepath.Join(dir, "board.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = s.Get(context.Background(), "broken")
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("Get(broken) error = %v, want STORAGE_ERROR", err)
	}

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want corrupt file skipped", list)
	}
}

func TestRecordEncoding(t *testing.T) {
	body, info, err := encode("sales", testDoc(2))
	if err != nil {
		t.Fatal(err)
	}
	data, err := encodeRecord(info, body)
	if err != nil {
		t.Fatalf("encodeRecord() error = %v", err)
	}
	rec, err := decodeRecord(data)
	if err != nil {
		t.Fatalf("decodeRecord() error = %v", err)
	}
	if rec.Info.Name != "sales" || rec.Info.Elements != 2 || rec.Info.Size != len(body) {
		t.Errorf("Info = %+v, want name=sales elements=2 size=%d", rec.Info, len(body))
	}
	if !rec.Info.UpdatedAt.Equal(info.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", rec.Info.UpdatedAt, info.UpdatedAt)
	}
	if _, err := decode("sales", rec.Body); err != nil {
		t.Errorf("decode(record body) error = %v", err)
	}
}

func TestBSONConversion(t *testing.T) {
	body, _, err := encode("sales", testDoc(2))
	if err != nil {
		t.Fatal(err)
	}
	d, err := toBSON(body)
	if err != nil {
		t.Fatalf("toBSON() error = %v", err)
	}
	back, err := fromBSON(d)
	if err != nil {
		t.Fatalf("fromBSON() error = %v", err)
	}
	doc, err := decode("sales", back)
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if len(doc.Elements) != 2 || doc.Elements[1].Width != 200 {
		t.Errorf("Elements = %+v, want 2 elements of width 200", doc.Elements)
	}
	if doc.ActiveTheme != "DA001" {
		t.Errorf("ActiveTheme = %q, want DA001", doc.ActiveTheme)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first", 0, true, 1, false},
		{"succeeds after retry", 2, true, 3, false},
		{"gives up", 5, true, 3, true},
		{"permanent error", 5, false, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(stderrors.New("refused"))
					}
					return stderrors.New("denied")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(stderrors.New("refused")) })
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("RetryWithBackoff() error = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	base := stderrors.New("x")
	err := Retryable(base)
	if !IsRetryable(err) {
		t.Error("IsRetryable(Retryable(x)) = false")
	}
	if !stderrors.Is(err, base) {
		t.Error("Retryable does not unwrap to its cause")
	}
	if IsRetryable(base) {
		t.Error("IsRetryable(plain) = true")
	}
}
