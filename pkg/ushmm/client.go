// Package ushmm provides a client for the USHMM collections catalog
// public JSON endpoints.
package ushmm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/oral-history-lab/transcript-cli/internal/model"
	"github.com/oral-history-lab/transcript-cli/internal/resilience"
)

// Client defines the catalog operations used by the scrape command.
type Client interface {
	// SearchIRN searches the catalog for an RG number and returns the IRN
	// of the document whose rg_number matches exactly. found is false when
	// no document matches.
	SearchIRN(ctx context.Context, rgNumber string) (irn string, found bool, err error)

	// Record fetches a catalog record by IRN.
	Record(ctx context.Context, irn string) (*model.CatalogRecord, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.hc = hc
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithRateLimit caps outgoing requests per second. The catalog is a shared
// public resource; stay polite.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	hc        *http.Client
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// NewClient creates a catalog client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://collections.ushmm.org",
		userAgent: "transcript-cli",
		hc:        &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	RGNumber string     `json:"rg_number"`
	IRN      flexString `json:"irn"`
}

type recordResponse struct {
	Response struct {
		Document recordDoc `json:"document"`
	} `json:"response"`
}

type recordDoc struct {
	InterviewSummary flexField `json:"interview_summary"`
	Interviewee      flexField `json:"interviewee"`
	Interviewer      flexField `json:"interviewer"`
	DisplayDate      flexField `json:"display_date"`
	SubjectTopical   flexField `json:"subject_topical"`
	SubjectGeography flexField `json:"subject_geography"`
	SubjectPerson    flexField `json:"subject_person"`
	SubjectCorporate flexField `json:"subject_corporate"`
}

func (c *httpClient) SearchIRN(ctx context.Context, rgNumber string) (string, bool, error) {
	q := url.Values{"q": {rgNumber}}
	endpoint := fmt.Sprintf("%s/search/catalog.json?%s", c.baseURL, q.Encode())

	var sr searchResponse
	if err := c.getJSON(ctx, endpoint, &sr); err != nil {
		return "", false, eris.Wrapf(err, "ushmm: search %s", rgNumber)
	}

	for _, doc := range sr.Response.Docs {
		// Normalize non-breaking hyphens the catalog occasionally emits.
		if strings.ReplaceAll(doc.RGNumber, "‑", "-") == rgNumber {
			return string(doc.IRN), true, nil
		}
	}
	return "", false, nil
}

func (c *httpClient) Record(ctx context.Context, irn string) (*model.CatalogRecord, error) {
	endpoint := fmt.Sprintf("%s/search/catalog/irn%s.json", c.baseURL, url.PathEscape(irn))

	var rr recordResponse
	if err := c.getJSON(ctx, endpoint, &rr); err != nil {
		return nil, eris.Wrapf(err, "ushmm: record irn%s", irn)
	}

	doc := rr.Response.Document
	return &model.CatalogRecord{
		InterviewSummary: doc.InterviewSummary.Join(),
		Interviewee:      doc.Interviewee.Join(),
		Interviewer:      doc.Interviewer.Join(),
		InterviewDate:    doc.DisplayDate.Join(),
		SubjectTopical:   doc.SubjectTopical.Join(),
		SubjectGeography: doc.SubjectGeography.Join(),
		SubjectPerson:    doc.SubjectPerson.Join(),
		SubjectCorporate: doc.SubjectCorporate.Join(),
	}, nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	body, err := resilience.Do(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, eris.Wrap(err, "build request")
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "read body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "decode json")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
