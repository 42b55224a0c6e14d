package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"paligo/taxonomy/internal/config"
	"paligo/taxonomy/internal/domain"
	"paligo/taxonomy/internal/proxy"
)

type TaxonomyClient interface {
	CreateTaxonomy(ctx context.Context, req *domain.CreateTaxonomyRequest) (*domain.Taxonomy, error)
	Close() error
}

// APIError is returned when the service answers anything but 201 Created
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error: %d: %s", e.StatusCode, e.Detail)
}

type paligoClient struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
}

func NewPaligoClient(cfg config.PaligoConfig, proxySupplier proxy.ProxySupplier) TaxonomyClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(0).
		SetBasicAuth(cfg.Username, cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &paligoClient{
		rl:         rl,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
	}
}

func (c *paligoClient) Close() error {
	return c.httpClient.Close()
}

func (c *paligoClient) CreateTaxonomy(ctx context.Context, req *domain.CreateTaxonomyRequest) (*domain.Taxonomy, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.baseURL + "/taxonomies/")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to create taxonomy %q: %w", req.Title, err)
	}

	body := resp.String()
	if resp.StatusCode() != http.StatusCreated {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Detail:     errorDetail(resp.Header().Get("Content-Type"), body),
		}
	}

	var taxonomy domain.Taxonomy
	if err := json.Unmarshal([]byte(body), &taxonomy); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Detail:     fmt.Sprintf("unreadable response: %v", err),
		}
	}
	if taxonomy.ID == nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Detail:     "created without id; children skipped",
		}
	}

	log.Debugf("Created taxonomy %q with id %s", req.Title, taxonomy.ID)
	return &taxonomy, nil
}

// errorDetail prefers the JSON body, then the visible text of an HTML
// error page, then the raw text.
func errorDetail(contentType, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		compact, err := json.Marshal(parsed)
		if err == nil {
			return string(compact)
		}
	}

	if strings.Contains(contentType, "html") || strings.HasPrefix(body, "<") {
		if text, err := htmlText(body); err == nil && text != "" {
			return text
		}
	}

	return body
}
