package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
)

var (
	_ Target = (*FileTarget)(nil)
	_ Target = (*GCSTarget)(nil)
	_ Target = (*GistTarget)(nil)
)

func TestFileTarget(t *testing.T) {
	ctx := context.Background()
	target := NewFileTarget(filepath.Join(t.TempDir(), "nested", FileName))

	if _, err := target.Load(ctx); !errors.Is(err, ErrNoBackup) {
		t.Fatalf("Load() before save error = %v, want ErrNoBackup", err)
	}

	for _, doc := range []string{`{"transactions":[]}`, `{"transactions":[{"id":"a"}]}`} {
		if err := target.Save(ctx, []byte(doc)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := target.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(got) != doc {
			t.Errorf("Load() = %s, want %s", got, doc)
		}
	}
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDoc struct {
	Files map[string]gistFile `json:"files"`
}

// fakeGist serves the subset of the gists API that GistTarget calls.
type fakeGist struct {
	mu     sync.Mutex
	files  map[string]gistFile
	auth   string
	status int
}

func (f *fakeGist) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.URL.Path != "/gists/g1" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPatch:
		body, _ := io.ReadAll(r.Body)
		var doc gistDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		for k, v := range doc.Files {
			f.files[k] = v
		}
	case http.MethodGet:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	json.NewEncoder(w).Encode(gistDoc{Files: f.files})
}

func newGist(t *testing.T, ctx context.Context, baseURL, id, token string) *GistTarget {
	t.Helper()
	target, err := NewGistTarget(ctx, id, token).WithBaseURL(baseURL)
	if err != nil {
		t.Fatalf("WithBaseURL() error = %v", err)
	}
	return target
}

func TestGistTarget_SaveLoad(t *testing.T) {
	fake := &fakeGist{files: map[string]gistFile{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	target := newGist(t, ctx, srv.URL, "g1", "secret")

	doc := `{"transactions":[],"goals":[]}`
	if err := target.Save(ctx, []byte(doc)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if fake.auth != "Bearer secret" {
		t.Errorf("Authorization = %q", fake.auth)
	}
	if _, ok := fake.files[FileName]; !ok {
		t.Errorf("gist files = %v, want %s", fake.files, FileName)
	}

	got, err := target.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != doc {
		t.Errorf("Load() = %s, want %s", got, doc)
	}
}

func TestGistTarget_LoadFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeGist
		id      string
		want    string
		wantErr error
	}{
		{
			name: "single file with another name",
			fake: &fakeGist{files: map[string]gistFile{"old_name.json": {Content: `{"items":[]}`}}},
			id:   "g1",
			want: `{"items":[]}`,
		},
		{
			name:    "several unrelated files",
			fake:    &fakeGist{files: map[string]gistFile{"a.txt": {}, "b.txt": {}}},
			id:      "g1",
			wantErr: ErrNoBackup,
		},
		{
			name:    "missing gist",
			fake:    &fakeGist{files: map[string]gistFile{}},
			id:      "nope",
			wantErr: ErrNoBackup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.fake)
			defer srv.Close()
			target := newGist(t, context.Background(), srv.URL, tt.id, "tok")

			got, err := target.Load(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || string(got) != tt.want {
				t.Errorf("Load() = %s, %v, want %s", got, err, tt.want)
			}
		})
	}
}

func TestGistTarget_SaveUnauthorized(t *testing.T) {
	srv := httptest.NewServer(&fakeGist{status: http.StatusUnauthorized})
	defer srv.Close()
	target := newGist(t, context.Background(), srv.URL, "g1", "bad")

	if err := target.Save(context.Background(), []byte(`{}`)); err == nil {
		t.Error("Save() should fail on 401")
	}
}
