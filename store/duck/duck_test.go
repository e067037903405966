package duck

import (
	"context"
	"sync"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	_ "github.com/marcboeker/go-duckdb"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, kv ...any)              {}
func (nopLogger) Error(ctx context.Context, msg string, err error, kv ...any) {}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func newDuck(t *testing.T) *Duck {
	t.Helper()
	dk, err := New(nopLogger{})
	if err != nil {
		t.Fatalf("failed to open duck: %v", err)
	}
	t.Cleanup(dk.Close)
	return dk
}

func TestFetchArray(t *testing.T) {
	path := writeFile(t, "people.json", `[
		{"name": "John", "age": 30, "active": true, "address": {"city": "Oslo"}},
		{"name": "Jane", "age": 25, "active": false, "address": {"city": "Rome"}}
	]`)

	dk := newDuck(t)
	result, err := dk.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result.Columns, []string{"name", "age", "active", "address"}) {
		t.Errorf("unexpected columns %v", result.Columns)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 records, got:\n%s", spew.Sdump(result.Data))
	}

	first := result.Data[0]
	if first["name"] != "John" || first["age"] != 30.0 || first["active"] != true {
		t.Errorf("unexpected record:\n%s", spew.Sdump(first))
	}
	if addr, ok := first["address"].(map[string]any); !ok || addr["city"] != "Oslo" {
		t.Errorf("expected nested address, got:\n%s", spew.Sdump(first["address"]))
	}
	if dk.Name() != path {
		t.Errorf("expected name %q, got %q", path, dk.Name())
	}
}

func TestFetchNewlineDelimited(t *testing.T) {
	path := writeFile(t, "events.ndjson", "{\"level\":\"info\",\"n\":1}\n{\"level\":\"warn\",\"n\":2}\n{\"level\":\"info\",\"n\":3}\n")

	dk := newDuck(t)
	result, err := dk.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Data) != 3 {
		t.Errorf("expected 3 records, got %d", len(result.Data))
	}

	// a second load replaces the first
	other := writeFile(t, "one.json", `[{"only": "row"}]`)
	result, err = dk.Fetch(context.Background(), other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Data) != 1 || !reflect.DeepEqual(result.Columns, []string{"only"}) {
		t.Errorf("expected replaced table, got:\n%s", spew.Sdump(result))
	}
}

func TestFetchMissing(t *testing.T) {
	dk := newDuck(t)
	_, err := dk.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetchFailureKeepsPrevious(t *testing.T) {
	path := writeFile(t, "one.json", `[{"only": "row"}]`)

	dk := newDuck(t)
	if _, err := dk.Fetch(context.Background(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := dk.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if dk.Name() != path {
		t.Errorf("expected name kept as %q, got %q", path, dk.Name())
	}

	records, err := getRecords(context.Background(), dk.db)
	if err != nil || len(records) != 1 || records[0]["only"] != "row" {
		t.Errorf("expected previous table intact, got %v:\n%s", err, spew.Sdump(records))
	}
}

func TestFetchConcurrent(t *testing.T) {
	small := writeFile(t, "small.json", `[{"kind": "small"}]`)
	large := writeFile(t, "large.json", `[{"kind": "large"}, {"kind": "large"}, {"kind": "large"}]`)

	dk := newDuck(t)

	var wg sync.WaitGroup
	for i := range 8 {
		path, kind, count := small, "small", 1
		if i%2 == 1 {
			path, kind, count = large, "large", 3
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := dk.Fetch(context.Background(), path)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if len(result.Data) != count || result.Data[0]["kind"] != kind {
				t.Errorf("expected %d %s records, got:\n%s", count, kind, spew.Sdump(result.Data))
			}
			_ = dk.Name()
		}()
	}
	wg.Wait()
}
