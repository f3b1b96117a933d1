package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"scj_seminar_admin/config"
)

var slugRe = regexp.MustCompile(`^seminar-\d{4}-\d{2}-\d{2}-[0-9a-z]{4}$`)

func TestNewSlug(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	a := NewSlug(now)
	b := NewSlug(now)
	if !slugRe.MatchString(a) || !slugRe.MatchString(b) {
		t.Fatalf("slugs %q %q do not match pattern", a, b)
	}
	if !strings.HasPrefix(a, "seminar-2026-03-15-") {
		t.Errorf("slug %q has wrong date part", a)
	}
	if a == b {
		t.Errorf("same-second slugs collide: %q", a)
	}
}

func TestResolvePublishedAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 34, 56, 0, time.UTC)
	if got := resolvePublishedAt("2026-03-15", now); got != "2026-03-15T00:00:00.000Z" {
		t.Errorf("known date: got %q", got)
	}
	if got := resolvePublishedAt("", now); got != "2026-06-01T12:34:56.000Z" {
		t.Errorf("unknown date: got %q", got)
	}
	if got := resolvePublishedAt("令和8年", now); got != "2026-06-01T12:34:56.000Z" {
		t.Errorf("unparseable date: got %q", got)
	}
}

func newTestPublisher(t *testing.T, baseURL string) *Publisher {
	t.Helper()
	cfg := config.Config{
		SpaceID:         "space1",
		Environment:     "master",
		ManagementToken: "cma-token",
	}
	p, err := New(cfg, nil, false, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	p.BaseURL = baseURL
	return p
}

func TestPublishEntry(t *testing.T) {
	var createBody []byte
	var createReq, publishReq *http.Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/spaces/space1/environments/master/entries":
			createReq = r.Clone(r.Context())
			createBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"sys":{"id":"abc123","version":1}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/spaces/space1/environments/master/entries/abc123/published":
			publishReq = r.Clone(r.Context())
			io.WriteString(w, `{"sys":{"id":"abc123","version":2}}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := newTestPublisher(t, srv.URL)
	id, err := p.PublishEntry(context.Background(), Submission{
		Title:    "第15回研究会",
		Date:     "2026-03-15",
		Venue:    "オンライン",
		BodyText: "〇概要\n①木田悟：理事長：基調講演",
		Tags:     []string{"木田悟"},
		Category: "イベント",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc123" {
		t.Errorf("entry id = %q", id)
	}

	if createReq == nil || publishReq == nil {
		t.Fatal("expected both create and publish calls")
	}
	if got := createReq.Header.Get("Authorization"); got != "Bearer cma-token" {
		t.Errorf("create auth = %q", got)
	}
	if got := createReq.Header.Get("X-Contentful-Content-Type"); got != "news" {
		t.Errorf("content type header = %q", got)
	}
	if got := publishReq.Header.Get("X-Contentful-Version"); got != "1" {
		t.Errorf("version header = %q", got)
	}

	var payload entryPayload
	if err := json.Unmarshal(createBody, &payload); err != nil {
		t.Fatal(err)
	}
	f := payload.Fields
	if f.Title.Value != "第15回研究会" {
		t.Errorf("title = %q", f.Title.Value)
	}
	if f.PublishedAt.Value != "2026-03-15T00:00:00.000Z" {
		t.Errorf("publishedAt = %q", f.PublishedAt.Value)
	}
	if f.Category.Value != "イベント" {
		t.Errorf("category = %q", f.Category.Value)
	}
	if f.ProjectCategory.Value != "seminars" {
		t.Errorf("projectCategory = %q", f.ProjectCategory.Value)
	}
	if len(f.ProjectTags.Value) != 1 || f.ProjectTags.Value[0] != "木田悟" {
		t.Errorf("projectTags = %v", f.ProjectTags.Value)
	}
	if f.MetaDescription.Value != "オンライン" {
		t.Errorf("metaDescription = %q", f.MetaDescription.Value)
	}
	if !slugRe.MatchString(f.Slug.Value) {
		t.Errorf("slug = %q", f.Slug.Value)
	}

	body := f.Body.Value
	if len(body.Content) != 2 {
		t.Fatalf("body blocks = %d, want 2", len(body.Content))
	}
	if body.Content[0].NodeType != "heading-3" || body.Content[0].Content[0].Value != "概要" {
		t.Errorf("first block = %+v", body.Content[0])
	}
	if body.Content[1].NodeType != "paragraph" || body.Content[1].Content[0].Value != "①木田悟：理事長：基調講演" {
		t.Errorf("second block = %+v", body.Content[1])
	}
}

func TestPublishEntryDefaults(t *testing.T) {
	var createBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			createBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"sys":{"id":"e1","version":1}}`)
			return
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	p := newTestPublisher(t, srv.URL)
	p.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }

	if _, err := p.PublishEntry(context.Background(), Submission{Title: "タイトル"}); err != nil {
		t.Fatal(err)
	}

	var payload entryPayload
	if err := json.Unmarshal(createBody, &payload); err != nil {
		t.Fatal(err)
	}
	f := payload.Fields
	if f.Category.Value != "レポート" {
		t.Errorf("default category = %q", f.Category.Value)
	}
	if f.PublishedAt.Value != "2026-08-30T09:00:00.000Z" {
		t.Errorf("publishedAt = %q", f.PublishedAt.Value)
	}
	if f.ProjectTags.Value == nil || len(f.ProjectTags.Value) != 0 {
		t.Errorf("tags = %v, want empty non-nil", f.ProjectTags.Value)
	}
	// empty body still carries the placeholder paragraph
	if len(f.Body.Value.Content) != 1 {
		t.Errorf("body blocks = %d, want 1", len(f.Body.Value.Content))
	}
}

func TestPublishEntryEmptyTitle(t *testing.T) {
	p := newTestPublisher(t, "http://unused.invalid")
	if _, err := p.PublishEntry(context.Background(), Submission{Title: "  "}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestPublishEntryCreateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"Validation error"}`)
	}))
	defer srv.Close()

	p := newTestPublisher(t, srv.URL)
	_, err := p.PublishEntry(context.Background(), Submission{Title: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Op != "create entry" || apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Body != `{"message":"Validation error"}` {
		t.Errorf("body not verbatim: %q", apiErr.Body)
	}
}

func TestPublishEntryPublishFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"sys":{"id":"e1","version":3}}`)
			return
		}
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"Version mismatch"}`)
	}))
	defer srv.Close()

	p := newTestPublisher(t, srv.URL)
	_, err := p.PublishEntry(context.Background(), Submission{Title: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Op != "publish entry" {
		t.Errorf("op = %q", apiErr.Op)
	}
	if !strings.Contains(apiErr.Body, "Version mismatch") {
		t.Errorf("body = %q", apiErr.Body)
	}
}

func TestTriggerDeploy(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		calls++
	}))
	defer srv.Close()

	logger := log.New(io.Discard, "", 0)
	TriggerDeploy(context.Background(), nil, srv.URL, logger)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// unset hook skips without contacting anything
	TriggerDeploy(context.Background(), nil, "", logger)
	if calls != 1 {
		t.Errorf("calls after skip = %d, want 1", calls)
	}
}

func TestTriggerDeployFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// must not panic or propagate
	TriggerDeploy(context.Background(), nil, srv.URL, log.New(io.Discard, "", 0))
	TriggerDeploy(context.Background(), nil, "http://127.0.0.1:1", log.New(io.Discard, "", 0))
}
