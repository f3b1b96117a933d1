// Package newsfeed reads published news entries from the Contentful
// delivery API for the public site: listing, pagination, monthly archives
// and substring search. It is pure projection over the CMS read path.
package newsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scj_seminar_admin/config"
	"scj_seminar_admin/richtext"
)

const (
	deliveryBaseURL = "https://cdn.contentful.com"
	contentTypeID   = "news"

	// NewsPerPage is the page size of the numbered news listing.
	NewsPerPage = 12

	maxListLimit = 1000
)

// ErrNotFound is returned when no entry matches a slug.
var ErrNotFound = errors.New("news entry not found")

// News is the site-facing projection of one CMS entry.
type News struct {
	ID              string
	Title           string
	Slug            string
	PublishedAt     string
	Category        string
	BodyHTML        string
	MetaDescription string
	CreatedAt       string
	UpdatedAt       string
	ProjectCategory string
	ProjectTags     []string

	bodyText string
}

// Archive is one month of the monthly archive sidebar.
type Archive struct {
	Year  int
	Month int
	Count int
}

// Client queries the delivery API.
type Client struct {
	// BaseURL is the delivery API root.
	BaseURL string

	spaceID     string
	environment string
	token       string
	client      *http.Client
}

// NewClient creates a delivery client from the process configuration.
func NewClient(cfg config.Config, client *http.Client) (*Client, error) {
	if cfg.SpaceID == "" || cfg.DeliveryToken == "" {
		return nil, errors.New("config must include CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL:     deliveryBaseURL,
		spaceID:     cfg.SpaceID,
		environment: cfg.Environment,
		token:       cfg.DeliveryToken,
		client:      client,
	}, nil
}

// --- wire types ---

type entriesResp struct {
	Total int         `json:"total"`
	Items []entryItem `json:"items"`
}

type entryItem struct {
	Sys struct {
		ID        string `json:"id"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	} `json:"sys"`
	Fields struct {
		Title           string          `json:"title"`
		Slug            string          `json:"slug"`
		PublishedAt     string          `json:"publishedAt"`
		Category        string          `json:"category"`
		Body            json.RawMessage `json:"body"`
		MetaDescription string          `json:"metaDescription"`
		ProjectCategory string          `json:"projectCategory"`
		ProjectTags     []string        `json:"projectTags"`
	} `json:"fields"`
}

func (c *Client) getEntries(ctx context.Context, query url.Values) (entriesResp, error) {
	query.Set("content_type", contentTypeID)

	u := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.BaseURL, c.spaceID, c.environment, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entriesResp{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return entriesResp{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entriesResp{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entriesResp{}, fmt.Errorf("contentful delivery: status %d: %s", resp.StatusCode, body)
	}

	var data entriesResp
	if err := json.Unmarshal(body, &data); err != nil {
		return entriesResp{}, err
	}
	return data, nil
}

// List returns up to limit entries, newest first.
func (c *Client) List(ctx context.Context, limit int) ([]News, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	q := url.Values{}
	q.Set("order", "-fields.publishedAt")
	q.Set("limit", strconv.Itoa(limit))

	data, err := c.getEntries(ctx, q)
	if err != nil {
		return nil, err
	}
	return transformAll(data.Items), nil
}

// BySlug returns the entry with the given slug, or ErrNotFound.
func (c *Client) BySlug(ctx context.Context, slug string) (News, error) {
	q := url.Values{}
	q.Set("fields.slug", slug)
	q.Set("limit", "1")

	data, err := c.getEntries(ctx, q)
	if err != nil {
		return News{}, err
	}
	if len(data.Items) == 0 {
		return News{}, ErrNotFound
	}
	return transform(data.Items[0]), nil
}

// Page returns one page of the news listing plus the total page count.
// Pages are 1-based.
func (c *Client) Page(ctx context.Context, page int) ([]News, int, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("order", "-fields.publishedAt")
	q.Set("limit", strconv.Itoa(NewsPerPage))
	q.Set("skip", strconv.Itoa((page-1)*NewsPerPage))

	data, err := c.getEntries(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	totalPages := (data.Total + NewsPerPage - 1) / NewsPerPage
	return transformAll(data.Items), totalPages, nil
}

// ByYearMonth returns every entry published in the given month, newest
// first. The range filter runs on the CMS side.
func (c *Client) ByYearMonth(ctx context.Context, year, month int) ([]News, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q := url.Values{}
	q.Set("order", "-fields.publishedAt")
	q.Set("limit", strconv.Itoa(maxListLimit))
	q.Set("fields.publishedAt[gte]", from.Format(time.RFC3339))
	q.Set("fields.publishedAt[lt]", to.Format(time.RFC3339))

	data, err := c.getEntries(ctx, q)
	if err != nil {
		return nil, err
	}
	return transformAll(data.Items), nil
}

// MonthlyArchives groups all entries by publication month, newest month
// first.
func (c *Client) MonthlyArchives(ctx context.Context) ([]Archive, error) {
	items, err := c.List(ctx, maxListLimit)
	if err != nil {
		return nil, err
	}

	var archives []Archive
	index := map[[2]int]int{}
	for _, n := range items {
		t, err := time.Parse(time.RFC3339, n.PublishedAt)
		if err != nil {
			continue
		}
		key := [2]int{t.Year(), int(t.Month())}
		if i, ok := index[key]; ok {
			archives[i].Count++
			continue
		}
		index[key] = len(archives)
		archives = append(archives, Archive{Year: key[0], Month: key[1], Count: 1})
	}
	return archives, nil
}

// Search returns entries whose title, body text, meta description or tags
// contain the query, case-insensitively. An empty query matches everything.
func (c *Client) Search(ctx context.Context, query string) ([]News, error) {
	items, err := c.List(ctx, maxListLimit)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}

	var matched []News
	for _, n := range items {
		haystack := strings.ToLower(strings.Join([]string{
			n.Title,
			n.bodyText,
			n.MetaDescription,
			strings.Join(n.ProjectTags, " "),
		}, " "))
		if strings.Contains(haystack, q) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func transformAll(items []entryItem) []News {
	news := make([]News, 0, len(items))
	for _, item := range items {
		news = append(news, transform(item))
	}
	return news
}

// transform is best-effort: a body that fails to render yields an empty
// BodyHTML rather than dropping the entry.
func transform(item entryItem) News {
	publishedAt := item.Fields.PublishedAt
	if publishedAt == "" {
		publishedAt = item.Sys.CreatedAt
	}
	slug := item.Fields.Slug
	if slug == "" {
		slug = fallbackSlug(publishedAt, item.Sys.ID)
	}

	var bodyHTML, bodyText string
	if len(item.Fields.Body) > 0 {
		bodyHTML, _ = richtext.HTML(item.Fields.Body)
		bodyText, _ = richtext.PlainText(item.Fields.Body)
	}

	return News{
		ID:              item.Sys.ID,
		Title:           item.Fields.Title,
		Slug:            slug,
		PublishedAt:     publishedAt,
		Category:        item.Fields.Category,
		BodyHTML:        bodyHTML,
		MetaDescription: item.Fields.MetaDescription,
		CreatedAt:       item.Sys.CreatedAt,
		UpdatedAt:       item.Sys.UpdatedAt,
		ProjectCategory: item.Fields.ProjectCategory,
		ProjectTags:     item.Fields.ProjectTags,
		bodyText:        bodyText,
	}
}

// fallbackSlug mirrors the site's post-YYYY-MM-DD-xxxx convention for
// entries saved without a slug, xxxx being the last four characters of the
// entry id.
func fallbackSlug(publishedAt, sysID string) string {
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		t = time.Now().UTC()
	}
	suffix := strings.ToLower(sysID)
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("post-%04d-%02d-%02d-%s", t.Year(), int(t.Month()), t.Day(), suffix)
}
