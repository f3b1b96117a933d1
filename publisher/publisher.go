// Package publisher creates and publishes news entries via the Contentful
// management API.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scj_seminar_admin/config"
	"scj_seminar_admin/richtext"
)

const (
	managementBaseURL = "https://api.contentful.com"
	contentTypeID     = "news"

	// Entries from this pipeline always belong to the seminars activity
	// category.
	seminarProjectCategory = "seminars"
	defaultCategory        = "レポート"

	managementContentType = "application/vnd.contentful.management.v1+json"
	isoMillis             = "2006-01-02T15:04:05.000Z07:00"
)

// Submission is the operator-approved field set posted to /submit. It is
// consumed exactly once; ownership of the resulting entry transfers to the
// CMS on publish.
type Submission struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"` // YYYY-MM-DD、不明なら空
	Venue    string   `json:"venue"`
	BodyText string   `json:"bodyText"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"` // お知らせ|イベント|レポート|その他
}

// APIError carries the upstream response body verbatim so the operator can
// diagnose CMS rejections.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contentful %s failed: status %d: %s", e.Op, e.Status, e.Body)
}

// Publisher orchestrates the create-then-publish entry protocol.
type Publisher struct {
	// BaseURL is the management API root.
	BaseURL string

	spaceID     string
	environment string
	token       string
	client      *http.Client
	verbose     bool
	logger      *log.Logger
	now         func() time.Time
}

// New creates a Publisher from the process configuration.
func New(cfg config.Config, client *http.Client, verbose bool, logger *log.Logger) (*Publisher, error) {
	if err := cfg.ValidatePublish(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{
		BaseURL:     managementBaseURL,
		spaceID:     cfg.SpaceID,
		environment: cfg.Environment,
		token:       cfg.ManagementToken,
		client:      client,
		verbose:     verbose,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (p *Publisher) infof(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.logger.Printf("[INFO] "+format, args...)
}

// --- wire types ---

type localizedString struct {
	Value string `json:"en-US"`
}

type localizedStrings struct {
	Value []string `json:"en-US"`
}

type localizedDocument struct {
	Value richtext.Document `json:"en-US"`
}

type entryFields struct {
	Title           localizedString   `json:"title"`
	Slug            localizedString   `json:"slug"`
	PublishedAt     localizedString   `json:"publishedAt"`
	Category        localizedString   `json:"category"`
	ProjectCategory localizedString   `json:"projectCategory"`
	ProjectTags     localizedStrings  `json:"projectTags"`
	MetaDescription localizedString   `json:"metaDescription"`
	Body            localizedDocument `json:"body"`
}

type entryPayload struct {
	Fields entryFields `json:"fields"`
}

type entryResp struct {
	Sys struct {
		ID      string `json:"id"`
		Version int    `json:"version"`
	} `json:"sys"`
}

// PublishEntry creates a news entry from the submission, builds the body
// document from its text, and publishes it. A version conflict or any
// non-success status fails the whole submission; if publish fails after
// create, the unpublished draft stays behind in the CMS for manual cleanup.
func (p *Publisher) PublishEntry(ctx context.Context, sub Submission) (string, error) {
	return p.PublishDocument(ctx, sub, richtext.Build(sub.BodyText))
}

// PublishDocument publishes a submission with an already-built body, used by
// the Markdown CLI path.
func (p *Publisher) PublishDocument(ctx context.Context, sub Submission, body richtext.Document) (string, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return "", errors.New("title is required")
	}

	now := p.now()
	category := sub.Category
	if category == "" {
		category = defaultCategory
	}
	tags := sub.Tags
	if tags == nil {
		tags = []string{}
	}

	payload := entryPayload{Fields: entryFields{
		Title:           localizedString{sub.Title},
		Slug:            localizedString{NewSlug(now)},
		PublishedAt:     localizedString{resolvePublishedAt(sub.Date, now)},
		Category:        localizedString{category},
		ProjectCategory: localizedString{seminarProjectCategory},
		ProjectTags:     localizedStrings{tags},
		MetaDescription: localizedString{sub.Venue},
		Body:            localizedDocument{body},
	}}

	id, version, err := p.createEntry(ctx, payload)
	if err != nil {
		return "", err
	}
	p.infof("Entry created: id=%s version=%d", id, version)

	if err := p.publishEntry(ctx, id, version); err != nil {
		return "", err
	}
	p.infof("Entry published: id=%s", id)

	return id, nil
}

func (p *Publisher) createEntry(ctx context.Context, payload entryPayload) (string, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, err
	}

	url := fmt.Sprintf("%s/spaces/%s/environments/%s/entries", p.BaseURL, p.spaceID, p.environment)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", managementContentType)
	req.Header.Set("X-Contentful-Content-Type", contentTypeID)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, &APIError{Op: "create entry", Status: resp.StatusCode, Body: string(respBody)}
	}

	var data entryResp
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", 0, err
	}
	if data.Sys.ID == "" {
		return "", 0, errors.New("create entry response missing sys.id")
	}
	return data.Sys.ID, data.Sys.Version, nil
}

func (p *Publisher) publishEntry(ctx context.Context, id string, version int) error {
	url := fmt.Sprintf("%s/spaces/%s/environments/%s/entries/%s/published", p.BaseURL, p.spaceID, p.environment, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("X-Contentful-Version", strconv.Itoa(version))

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: "publish entry", Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSlug generates seminar-YYYY-MM-DD-xxxx where xxxx is a random base36
// suffix keeping same-day slugs distinct.
func NewSlug(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return fmt.Sprintf("seminar-%04d-%02d-%02d-%s", now.Year(), int(now.Month()), now.Day(), suffix)
}

// resolvePublishedAt uses the seminar date at UTC midnight when known, the
// submission time otherwise.
func resolvePublishedAt(date string, now time.Time) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.UTC().Format(isoMillis)
	}
	return now.UTC().Format(isoMillis)
}
