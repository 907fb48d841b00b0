// Package poller watches champion select and publishes a rune page once per
// locked champion.
package poller

import (
	"context"
	"sync"
	"time"

	"lol-runesync/internal/constants"
	"lol-runesync/internal/domain"
	"lol-runesync/internal/lcu"
	"lol-runesync/internal/lockfile"
	"lol-runesync/internal/runes"
	"lol-runesync/internal/service"

	"github.com/rs/zerolog"
)

type State int

const (
	Disconnected State = iota
	Idle
	ChampionLocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ChampionLocked:
		return "champion_locked"
	default:
		return "disconnected"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Client is the local client session as seen by the poller.
type Client interface {
	service.PageClient
	ID() string
	CurrentSummoner(ctx context.Context) (domain.Summoner, bool)
	ChampSelectSession(ctx context.Context) (domain.ChampSelectSession, bool)
}

// Connector opens a session to the local client or reports why it cannot.
type Connector func() (Client, error)

type Recommender interface {
	Recommend(ctx context.Context, championID int) (*domain.Recommendation, error)
}

type Publisher interface {
	Publish(ctx context.Context, client service.PageClient, name string, draft runes.Draft) bool
}

// LockfileConnector discovers the client through its lockfile on every call.
func LockfileConnector(locator *lockfile.Locator, logger zerolog.Logger) Connector {
	return func() (Client, error) {
		info, err := locator.Locate()
		if err != nil {
			return nil, err
		}
		return lcu.New(info, logger), nil
	}
}

// Status is a point-in-time copy of what the poller knows.
type Status struct {
	State           State     `json:"state"`
	ChampionID      int       `json:"champion_id,omitempty"`
	ChampionName    string    `json:"champion_name,omitempty"`
	ConnectionID    string    `json:"connection_id,omitempty"`
	Summoner        string    `json:"summoner,omitempty"`
	LastPage        string    `json:"last_page,omitempty"`
	LastPublishedAt time.Time `json:"last_published_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	LastError       string    `json:"last_error,omitempty"`
}

type Poller struct {
	connect     Connector
	recommender Recommender
	publisher   Publisher
	interval    time.Duration
	logger      zerolog.Logger

	// owned by whoever holds pollMu
	pollMu   sync.Mutex
	client   Client
	state    State
	champion int
	lastPoll time.Time
	// summoner last logged as connected; nil while no client is found
	announced *string

	statusMu sync.RWMutex
	status   Status
}

func New(connect Connector, recommender Recommender, publisher Publisher, logger zerolog.Logger) *Poller {
	return &Poller{
		connect:     connect,
		recommender: recommender,
		publisher:   publisher,
		interval:    constants.AutoDetectInterval,
		logger:      logger,
	}
}

// Tick polls if at least one interval has passed since the previous tick and
// reports whether it did.
func (p *Poller) Tick(ctx context.Context, now time.Time) bool {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	if !p.lastPoll.IsZero() && now.Sub(p.lastPoll) < p.interval {
		return false
	}
	p.lastPoll = now
	p.poll(ctx)
	return true
}

// Poll runs one detection cycle regardless of the interval.
func (p *Poller) Poll(ctx context.Context) {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	p.poll(ctx)
}

func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

func (p *Poller) poll(ctx context.Context) {
	p.updateStatus(func(s *Status) { s.LastPollAt = time.Now() })

	if p.client == nil {
		client, err := p.connect()
		if err != nil {
			p.logger.Debug().Err(err).Msg("local client not found")
			p.announced = nil
			p.transition(Disconnected, 0)
			p.updateStatus(func(s *Status) {
				s.ConnectionID = ""
				s.Summoner = ""
				s.LastError = err.Error()
			})
			return
		}
		p.client = client
		p.onConnect(ctx)
	}

	session, ok := p.client.ChampSelectSession(ctx)
	if !ok {
		p.logger.Debug().Str("conn_id", p.client.ID()).Msg("champ select unavailable, dropping session")
		p.client = nil
		p.transition(Disconnected, 0)
		p.updateStatus(func(s *Status) {
			s.ConnectionID = ""
			s.Summoner = ""
		})
		return
	}

	champion := session.LocalChampion()
	if champion <= 0 {
		p.transition(Idle, 0)
		return
	}
	if p.state == ChampionLocked && p.champion == champion {
		return
	}

	p.transition(ChampionLocked, champion)
	p.publish(ctx, champion)
}

func (p *Poller) onConnect(ctx context.Context) {
	summoner, ok := p.client.CurrentSummoner(ctx)
	riotID := ""
	if ok {
		riotID = summoner.RiotID()
	}

	p.updateStatus(func(s *Status) {
		s.ConnectionID = p.client.ID()
		s.Summoner = riotID
		s.LastError = ""
	})

	// out of champ select the session is reopened every poll; log only new logins
	if p.announced == nil || *p.announced != riotID {
		p.announced = &riotID
		p.logger.Info().Str("conn_id", p.client.ID()).Str("summoner", riotID).Msg("connected to local client")
	}
}

func (p *Poller) transition(next State, champion int) {
	if p.state == next && p.champion == champion {
		return
	}

	p.logger.Info().
		Stringer("from", p.state).
		Stringer("to", next).
		Int("champion_id", champion).
		Msg("state changed")

	p.state = next
	p.champion = champion
	p.updateStatus(func(s *Status) {
		s.State = next
		s.ChampionID = champion
		if champion == 0 {
			s.ChampionName = ""
		}
	})
}

// publish runs once per champion lock. A failed recommendation is not
// retried until the champion changes.
func (p *Poller) publish(ctx context.Context, championID int) {
	rec, err := p.recommender.Recommend(ctx, championID)
	if err != nil {
		p.logger.Error().Err(err).Int("champion_id", championID).Msg("failed to get recommendation")
		p.updateStatus(func(s *Status) { s.LastError = err.Error() })
		return
	}

	draft := runes.BuildPage(rec.Build.RuneIDs, rec.Build.ShardIDs, rec.Runes)
	name := service.PageName(rec.Champion.Name, rec.Mode)

	p.updateStatus(func(s *Status) { s.ChampionName = rec.Champion.Name })

	if !p.publisher.Publish(ctx, p.client, name, draft) {
		p.updateStatus(func(s *Status) { s.LastError = "rune page not published" })
		return
	}

	p.updateStatus(func(s *Status) {
		s.LastPage = name
		s.LastPublishedAt = time.Now()
		s.LastError = ""
	})
}

func (p *Poller) updateStatus(fn func(*Status)) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	fn(&p.status)
}
