package domain

import (
	"time"
)

// Local client payloads. Field names follow the client's camelCase JSON.

type Summoner struct {
	SummonerID    int64  `json:"summonerId"`
	Puuid         string `json:"puuid"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	DisplayName   string `json:"displayName"`
	SummonerLevel int    `json:"summonerLevel"`
}

func (s Summoner) RiotID() string {
	if s.GameName == "" {
		return s.DisplayName
	}
	if s.TagLine == "" {
		return s.GameName
	}
	return s.GameName + "#" + s.TagLine
}

type ChampSelectSession struct {
	LocalPlayerCellID int          `json:"localPlayerCellId"`
	MyTeam            []TeamMember `json:"myTeam"`
}

type TeamMember struct {
	CellID     int `json:"cellId"`
	ChampionID int `json:"championId"`
}

// LocalChampion returns the local player's champion id, or 0 when the
// player is missing from the team list or has not locked in yet.
func (s ChampSelectSession) LocalChampion() int {
	for _, m := range s.MyTeam {
		if m.CellID == s.LocalPlayerCellID {
			if m.ChampionID > 0 {
				return m.ChampionID
			}
			return 0
		}
	}
	return 0
}

type RunePage struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Current         bool   `json:"current"`
	IsActive        bool   `json:"isActive"`
	IsDeletable     bool   `json:"isDeletable"`
	IsEditable      bool   `json:"isEditable"`
	PrimaryStyleID  int    `json:"primaryStyleId"`
	SubStyleID      int    `json:"subStyleId"`
	SelectedPerkIDs []int  `json:"selectedPerkIds"`
}

type NewRunePage struct {
	Name            string `json:"name"`
	PrimaryStyleID  int    `json:"primaryStyleId"`
	SubStyleID      int    `json:"subStyleId"`
	SelectedPerkIDs []int  `json:"selectedPerkIds"`
	Current         bool   `json:"current"`
}

// Static game data.

type Champion struct {
	Key     int // numeric id used by the client
	ID      string
	Name    string
	Version string
}

type RuneMeta struct {
	ID      int
	StyleID int
	Row     int // 0 is the keystone row
	Name    string
	Version string
}

// Build is a recommended rune setup for one champion as reported by the
// build source.
type Build struct {
	ChampionID     int
	Version        string
	Role           string
	Mode           string
	Region         string
	RuneIDs        []int
	ShardIDs       []int
	PrimaryStyleID int
	SubStyleID     int
	Matches        int
	WinRate        float64
	FetchedAt      time.Time
}

// Recommendation bundles what the poller needs to build and name a page.
type Recommendation struct {
	Champion Champion
	Mode     string
	Build    Build
	Runes    map[int]RuneMeta
}
