package api

import (
	"context"
	"fmt"
	"net/url"

	"lol-runesync/internal/config"
	"lol-runesync/internal/domain"

	"github.com/valyala/fasthttp"
)

// StatsClient fetches recommended builds from the configured build source.
//
//	GET {base}/builds/{version}/{championId}?role=&mode=&region=
type StatsClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

func NewStatsClient(cfg *config.Config) *StatsClient {
	return &StatsClient{
		baseURL: cfg.StatsBaseURL,
		apiKey:  cfg.StatsAPIKey,
		client:  newHTTPClient(),
	}
}

type BuildQuery struct {
	Version    string
	ChampionID int
	Role       string
	Mode       string
	Region     string
}

func (c *StatsClient) GetBuild(ctx context.Context, q BuildQuery) (*domain.Build, error) {
	params := url.Values{}
	params.Set("role", q.Role)
	params.Set("mode", q.Mode)
	params.Set("region", q.Region)
	u := fmt.Sprintf("%s/builds/%s/%d?%s", c.baseURL, url.PathEscape(q.Version), q.ChampionID, params.Encode())

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"Authorization": c.apiKey}
	}

	resp, err := doRequest[BuildResponse](ctx, c.client, u, headers)
	if err != nil {
		return nil, err
	}

	role := resp.Role
	if role == "" {
		role = q.Role
	}
	return &domain.Build{
		ChampionID:     q.ChampionID,
		Version:        q.Version,
		Role:           role,
		Mode:           q.Mode,
		Region:         q.Region,
		RuneIDs:        resp.RuneIDs,
		ShardIDs:       resp.ShardIDs,
		PrimaryStyleID: resp.PrimaryStyleID,
		SubStyleID:     resp.SubStyleID,
		Matches:        resp.Matches,
		WinRate:        resp.WinRate,
	}, nil
}

type BuildResponse struct {
	ChampionID     int     `json:"championId"`
	Role           string  `json:"role"`
	RuneIDs        []int   `json:"runeIds"`
	ShardIDs       []int   `json:"shardIds"`
	PrimaryStyleID int     `json:"primaryStyleId"`
	SubStyleID     int     `json:"subStyleId"`
	Matches        int     `json:"matches"`
	WinRate        float64 `json:"winRate"`
}
