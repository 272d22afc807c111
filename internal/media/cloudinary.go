package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

type cloudinary struct {
	cfg     CloudinaryConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
	logger  *slog.Logger
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCloudinaryHost uploads images to Cloudinary as signed base64 data URIs.
// Calls go through a circuit breaker that opens after sustained failures.
// Uploads abandoned by the caller do not count as failures.
func NewCloudinaryHost(cfg CloudinaryConfig, logger *slog.Logger) Host {
	logger = logger.With("host", "cloudinary")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cloudinary",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.IntervalDuration(),
		Timeout:     cfg.Breaker.TimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.Breaker.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &cloudinary{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.TimeoutDuration()},
		breaker: breaker,
		now:     time.Now,
		logger:  logger,
	}
}

func (c *cloudinary) Put(ctx context.Context, obj Object) (*Hosted, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		return c.upload(ctx, obj)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Hosted), nil
}

func (c *cloudinary) upload(ctx context.Context, obj Object) (*Hosted, error) {
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if c.cfg.Folder != "" {
		params["folder"] = c.cfg.Folder
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", Sign(params, c.cfg.APISecret))
	form.Set("file", "data:"+obj.ContentType+";base64,"+base64.StdEncoding.EncodeToString(obj.Data))

	endpoint := fmt.Sprintf("%s/%s/image/upload", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.CloudName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out cloudinaryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("cloudinary status %d: %s", resp.StatusCode, msg)
	}

	if out.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary response missing secure_url")
	}

	return &Hosted{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// Sign computes the Cloudinary request signature: the SHA-1 hex digest of the
// alphabetically sorted key=value pairs joined by '&', followed by the secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
