package api

import (
	"context"
	"fmt"
	"strconv"

	"lol-runesync/internal/config"
	"lol-runesync/internal/domain"

	"github.com/valyala/fasthttp"
)

// DDragonClient reads static game data (versions, champions, runes) from
// Riot's Data Dragon CDN.
type DDragonClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewDDragonClient(cfg *config.Config) *DDragonClient {
	return &DDragonClient{
		baseURL: cfg.DDragonBaseURL,
		client:  newHTTPClient(),
	}
}

func (c *DDragonClient) LatestVersion(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/api/versions.json", c.baseURL)
	versions, err := doRequest[[]string](ctx, c.client, url, nil)
	if err != nil {
		return "", err
	}
	if len(*versions) == 0 {
		return "", fmt.Errorf("no versions listed at %s", url)
	}
	return (*versions)[0], nil
}

func (c *DDragonClient) GetChampions(ctx context.Context, version string) ([]domain.Champion, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, version)
	resp, err := doRequest[ChampionListResponse](ctx, c.client, url, nil)
	if err != nil {
		return nil, err
	}

	champs := make([]domain.Champion, 0, len(resp.Data))
	for _, ch := range resp.Data {
		key, err := strconv.Atoi(ch.Key)
		if err != nil {
			continue
		}
		champs = append(champs, domain.Champion{
			Key:     key,
			ID:      ch.ID,
			Name:    ch.Name,
			Version: version,
		})
	}
	return champs, nil
}

// GetRunes flattens runesReforged.json into per-rune metadata. The slot
// index inside a style is the rune's row.
func (c *DDragonClient) GetRunes(ctx context.Context, version string) ([]domain.RuneMeta, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/runesReforged.json", c.baseURL, version)
	styles, err := doRequest[[]RuneStyle](ctx, c.client, url, nil)
	if err != nil {
		return nil, err
	}

	var out []domain.RuneMeta
	for _, style := range *styles {
		for row, slot := range style.Slots {
			for _, r := range slot.Runes {
				out = append(out, domain.RuneMeta{
					ID:      r.ID,
					StyleID: style.ID,
					Row:     row,
					Name:    r.Name,
					Version: version,
				})
			}
		}
	}
	return out, nil
}

type ChampionListResponse struct {
	Type    string                  `json:"type"`
	Version string                  `json:"version"`
	Data    map[string]ChampionData `json:"data"`
}

type ChampionData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type RuneStyle struct {
	ID    int        `json:"id"`
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Slots []RuneSlot `json:"slots"`
}

type RuneSlot struct {
	Runes []RuneData `json:"runes"`
}

type RuneData struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}
