// Package lcu talks to the League client's local HTTPS API.
//
// The client is a loopback peer with a self-signed certificate that comes and
// goes with the game. Reads therefore report absence instead of errors and
// writes are best effort.
package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"lol-runesync/internal/constants"
	"lol-runesync/internal/domain"
	"lol-runesync/internal/lockfile"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	summonerPath    = "/lol-summoner/v1/current-summoner"
	champSelectPath = "/lol-champ-select/v1/session"
	runePagesPath   = "/lol-perks/v1/pages"
)

type Client struct {
	id      string
	baseURL string
	auth    string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

// New builds a session for the client described by info. Certificate
// validation is off for this client only: the peer is always 127.0.0.1 and
// signs with its own root.
func New(info *lockfile.Info, logger zerolog.Logger) *Client {
	id, err := gonanoid.New(constants.ConnectionIDLength)
	if err != nil {
		id = fmt.Sprintf("%d", info.PID)
	}

	return &Client{
		id:      id,
		baseURL: fmt.Sprintf("https://%s:%d", constants.LocalHost, info.Port),
		auth:    "Basic " + info.AuthToken(),
		client: &fasthttp.Client{
			TLSConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // loopback, self-signed
			},
			ReadTimeout:         constants.LocalAPITimeout,
			WriteTimeout:        constants.LocalAPITimeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		logger: logger.With().Str("conn_id", id).Int("port", info.Port).Logger(),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON fetches path and decodes the body into T. Any transport error,
// non-2xx status or decode failure yields ok == false.
func GetJSON[T any](ctx context.Context, c *Client, path string) (T, bool) {
	var result T

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, fasthttp.MethodGet, path)

	if err := c.do(ctx, req, resp); err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("local api unreachable")
		return result, false
	}
	if !isSuccess(resp.StatusCode()) {
		c.logger.Debug().Int("status", resp.StatusCode()).Str("path", path).Msg("local api returned non-success status")
		return result, false
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("failed to decode local api response")
		return result, false
	}
	return result, true
}

// Delete issues a DELETE and ignores the outcome.
func (c *Client) Delete(ctx context.Context, path string) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, fasthttp.MethodDelete, path)
	c.fireAndForget(ctx, req, resp, path)
}

// Post sends body as JSON and ignores the outcome.
func (c *Client) Post(ctx context.Context, path string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("failed to encode request body")
		return
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, fasthttp.MethodPost, path)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)
	c.fireAndForget(ctx, req, resp, path)
}

func (c *Client) CurrentSummoner(ctx context.Context) (domain.Summoner, bool) {
	return GetJSON[domain.Summoner](ctx, c, summonerPath)
}

func (c *Client) ChampSelectSession(ctx context.Context) (domain.ChampSelectSession, bool) {
	return GetJSON[domain.ChampSelectSession](ctx, c, champSelectPath)
}

func (c *Client) RunePages(ctx context.Context) ([]domain.RunePage, bool) {
	return GetJSON[[]domain.RunePage](ctx, c, runePagesPath)
}

func (c *Client) DeleteRunePage(ctx context.Context, id int64) {
	c.Delete(ctx, fmt.Sprintf("%s/%d", runePagesPath, id))
}

func (c *Client) CreateRunePage(ctx context.Context, page domain.NewRunePage) {
	c.Post(ctx, runePagesPath, page)
}

func (c *Client) prepare(req *fasthttp.Request, method, path string) {
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.Do(req, resp)
}

func (c *Client) fireAndForget(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response, path string) {
	method := string(req.Header.Method())
	if err := c.do(ctx, req, resp); err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("local api write failed")
		return
	}
	if !isSuccess(resp.StatusCode()) {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode()).
			Bytes("body", resp.Body()).
			Msg("local api write rejected")
		return
	}
	c.logger.Debug().Str("method", method).Str("path", path).Msg("local api write accepted")
}

func isSuccess(status int) bool {
	return status >= fasthttp.StatusOK && status < fasthttp.StatusMultipleChoices
}
