package lcu_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"lol-runesync/internal/domain"
	"lol-runesync/internal/lcu"
	"lol-runesync/internal/lcu/lcutest"
	"lol-runesync/internal/lockfile"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsBasicAuthToLoopback(t *testing.T) {
	srv := lcutest.New(t, "secretXYZ")
	srv.SetSummoner(domain.Summoner{GameName: "Faker", TagLine: "KR1", SummonerLevel: 800})

	c := lcu.New(srv.Info(), zerolog.Nop())
	assert.Equal(t, "https://127.0.0.1:"+strconv.Itoa(srv.Port()), c.BaseURL())
	assert.Len(t, c.ID(), 8)

	sum, ok := c.CurrentSummoner(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Faker#KR1", sum.RiotID())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:secretXYZ"))
	assert.Equal(t, want, reqs[0].Auth)
}

func TestClient_ChampSelectSession(t *testing.T) {
	srv := lcutest.New(t, "pw")
	srv.SetChampSelect(&domain.ChampSelectSession{
		LocalPlayerCellID: 2,
		MyTeam:            []domain.TeamMember{{CellID: 1, ChampionID: 10}, {CellID: 2, ChampionID: 99}},
	})

	c := lcu.New(srv.Info(), zerolog.Nop())
	cs, ok := c.ChampSelectSession(context.Background())
	require.True(t, ok)
	assert.Equal(t, 99, cs.LocalChampion())
}

func TestGetJSON_AbsenceCases(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv := lcutest.New(t, "pw")
		c := lcu.New(srv.Info(), zerolog.Nop())

		_, ok := c.ChampSelectSession(context.Background())
		assert.False(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		srv := lcutest.New(t, "pw")
		info := srv.Info()
		info.Password = "other"
		c := lcu.New(info, zerolog.Nop())

		_, ok := c.RunePages(context.Background())
		assert.False(t, ok)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := lcutest.New(t, "pw")
		info := srv.Info()
		srv.Close()
		c := lcu.New(info, zerolog.Nop())

		_, ok := c.RunePages(context.Background())
		assert.False(t, ok)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		srv := lcutest.New(t, "pw")
		srv.SetSummoner(domain.Summoner{GameName: "x"})
		c := lcu.New(srv.Info(), zerolog.Nop())

		// summoner is an object, not a list of pages
		_, ok := lcu.GetJSON[[]domain.RunePage](context.Background(), c, "/lol-summoner/v1/current-summoner")
		assert.False(t, ok)
	})
}

func TestClient_CreateAndDeleteRunePage(t *testing.T) {
	srv := lcutest.New(t, "pw")
	srv.SetPages([]domain.RunePage{{ID: 7, Name: "old", IsDeletable: true, Current: true}})
	c := lcu.New(srv.Info(), zerolog.Nop())
	ctx := context.Background()

	c.DeleteRunePage(ctx, 7)
	c.CreateRunePage(ctx, domain.NewRunePage{
		Name:            "runesync: Ahri, Ranked",
		PrimaryStyleID:  8100,
		SubStyleID:      8200,
		SelectedPerkIDs: []int{8112, 8139, 8138, 8135, 8226, 8210, 5008, 5008, 5002},
		Current:         true,
	})

	pages, ok := c.RunePages(ctx)
	require.True(t, ok)
	require.Len(t, pages, 1)
	assert.Equal(t, "runesync: Ahri, Ranked", pages[0].Name)
	assert.Len(t, pages[0].SelectedPerkIDs, 9)

	var posted map[string]any
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost {
			require.NoError(t, json.Unmarshal(r.Body, &posted))
		}
	}
	assert.Equal(t, float64(8100), posted["primaryStyleId"])
	assert.Equal(t, float64(8200), posted["subStyleId"])
	assert.Contains(t, posted, "selectedPerkIds")
}

func TestClient_WritesAreBestEffort(t *testing.T) {
	srv := lcutest.New(t, "pw")
	srv.FailWrites(true)
	c := lcu.New(srv.Info(), zerolog.Nop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.DeleteRunePage(ctx, 1)
		c.CreateRunePage(ctx, domain.NewRunePage{Name: "x"})
	})
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/lol-perks/v1/pages/"))
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/lol-perks/v1/pages"))

	unreachable := lcu.New(&lockfile.Info{Port: 1, Password: "pw"}, zerolog.Nop())
	assert.NotPanics(t, func() {
		unreachable.CreateRunePage(ctx, domain.NewRunePage{Name: "x"})
	})
}
