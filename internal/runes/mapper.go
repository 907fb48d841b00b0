// Package runes turns a recommended rune list into the client's page layout.
package runes

import (
	"lol-runesync/internal/domain"
)

// Unset marks a style id the mapper could not determine.
const Unset = -1

const (
	primaryCount = 4
	subCount     = 2
	shardCount   = 3
	keystoneRow  = 0
)

type StyleGroup struct {
	StyleID int
	RuneIDs []int
}

type Draft struct {
	PrimaryStyleID int
	SubStyleID     int
	PerkIDs        []int
}

// Valid reports whether the draft is a complete 4 + 2 + 3 page.
func (d Draft) Valid() bool {
	return d.PrimaryStyleID != Unset &&
		d.SubStyleID != Unset &&
		d.PrimaryStyleID != d.SubStyleID &&
		len(d.PerkIDs) == primaryCount+subCount+shardCount
}

// GroupRunes groups rune ids by parent style, keeping both the groups and
// the ids inside them in input order. Ids without metadata are dropped.
func GroupRunes(runeIDs []int, meta map[int]domain.RuneMeta) []StyleGroup {
	var groups []StyleGroup
	index := make(map[int]int)

	for _, id := range runeIDs {
		info, ok := meta[id]
		if !ok {
			continue
		}
		i, seen := index[info.StyleID]
		if !seen {
			i = len(groups)
			index[info.StyleID] = i
			groups = append(groups, StyleGroup{StyleID: info.StyleID})
		}
		groups[i].RuneIDs = append(groups[i].RuneIDs, id)
	}
	return groups
}

// BuildPage classifies runeIDs into a primary style (the one holding the
// keystone) and a secondary style, then appends the shards.
//
// When the input cannot produce a 4/2 split the returned draft has both
// style ids set to Unset and must not be published.
func BuildPage(runeIDs, shardIDs []int, meta map[int]domain.RuneMeta) Draft {
	groups := GroupRunes(runeIDs, meta)

	primary, keystone := findKeystoneGroup(runeIDs, groups, meta)
	if primary < 0 {
		return degraded(groups, shardIDs)
	}

	primaryIDs := takePrimary(groups[primary].RuneIDs, keystone)
	if len(primaryIDs) != primaryCount {
		return degraded(groups, shardIDs)
	}

	sub := -1
	for i := range groups {
		if i != primary {
			sub = i
			break
		}
	}
	if sub < 0 || len(groups[sub].RuneIDs) < subCount || len(shardIDs) < shardCount {
		return degraded(groups, shardIDs)
	}

	perks := make([]int, 0, primaryCount+subCount+shardCount)
	perks = append(perks, primaryIDs...)
	perks = append(perks, groups[sub].RuneIDs[:subCount]...)
	perks = append(perks, shardIDs[:shardCount]...)

	return Draft{
		PrimaryStyleID: groups[primary].StyleID,
		SubStyleID:     groups[sub].StyleID,
		PerkIDs:        perks,
	}
}

func findKeystoneGroup(runeIDs []int, groups []StyleGroup, meta map[int]domain.RuneMeta) (int, int) {
	for _, id := range runeIDs {
		info, ok := meta[id]
		if !ok || info.Row != keystoneRow {
			continue
		}
		for gi, g := range groups {
			if g.StyleID == info.StyleID {
				return gi, id
			}
		}
	}
	return -1, 0
}

// takePrimary keeps the keystone plus the first three other ids.
func takePrimary(ids []int, keystone int) []int {
	out := make([]int, 0, primaryCount)
	others := 0
	haveKeystone := false
	for _, id := range ids {
		switch {
		case id == keystone && !haveKeystone:
			haveKeystone = true
			out = append(out, id)
		case others < primaryCount-1:
			others++
			out = append(out, id)
		}
	}
	return out
}

func degraded(groups []StyleGroup, shardIDs []int) Draft {
	var perks []int
	for _, g := range groups {
		perks = append(perks, g.RuneIDs...)
	}
	perks = append(perks, shardIDs...)
	return Draft{PrimaryStyleID: Unset, SubStyleID: Unset, PerkIDs: perks}
}
