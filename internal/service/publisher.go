package service

import (
	"context"
	"strings"

	"lol-runesync/internal/constants"
	"lol-runesync/internal/domain"
	"lol-runesync/internal/runes"

	"github.com/rs/zerolog"
)

// PageClient is the part of the local client session the publisher needs.
type PageClient interface {
	RunePages(ctx context.Context) ([]domain.RunePage, bool)
	DeleteRunePage(ctx context.Context, id int64)
	CreateRunePage(ctx context.Context, page domain.NewRunePage)
}

type RunePagePublisher struct {
	logger zerolog.Logger
}

func NewRunePagePublisher(logger zerolog.Logger) *RunePagePublisher {
	return &RunePagePublisher{logger: logger}
}

// Publish replaces the page selected by SelectReplaceable with draft.
//
// Delete and create are separate best-effort calls. If the create fails after
// the delete went through the player has no custom page until the next
// champion change publishes again.
func (p *RunePagePublisher) Publish(ctx context.Context, client PageClient, name string, draft runes.Draft) bool {
	if !draft.Valid() {
		p.logger.Warn().
			Str("name", name).
			Int("primary_style_id", draft.PrimaryStyleID).
			Int("sub_style_id", draft.SubStyleID).
			Ints("perk_ids", draft.PerkIDs).
			Msg("refusing to publish incomplete rune page")
		return false
	}

	pages, ok := client.RunePages(ctx)
	if !ok {
		p.logger.Debug().Str("name", name).Msg("rune pages unavailable, skipping publish")
		return false
	}

	if old := SelectReplaceable(pages); old != nil {
		p.logger.Debug().Int64("page_id", old.ID).Str("page_name", old.Name).Msg("deleting rune page")
		client.DeleteRunePage(ctx, old.ID)
	}

	client.CreateRunePage(ctx, domain.NewRunePage{
		Name:            name,
		PrimaryStyleID:  draft.PrimaryStyleID,
		SubStyleID:      draft.SubStyleID,
		SelectedPerkIDs: draft.PerkIDs,
		Current:         true,
	})

	p.logger.Info().
		Str("name", name).
		Int("primary_style_id", draft.PrimaryStyleID).
		Int("sub_style_id", draft.SubStyleID).
		Msg("rune page published")
	return true
}

// SelectReplaceable picks the page to overwrite: a deletable page created by
// runesync first, otherwise the current page if it is deletable.
func SelectReplaceable(pages []domain.RunePage) *domain.RunePage {
	for i := range pages {
		if strings.HasPrefix(pages[i].Name, constants.PageNamePrefix) && pages[i].IsDeletable {
			return &pages[i]
		}
	}
	for i := range pages {
		if pages[i].Current && pages[i].IsDeletable {
			return &pages[i]
		}
	}
	return nil
}

// PageName formats the name of a page authored by runesync.
func PageName(champion, mode string) string {
	return constants.PageNamePrefix + " " + champion + ", " + mode
}
