package runes

import (
	"testing"

	"lol-runesync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	domination = 8100
	sorcery    = 8200
	precision  = 8000
)

var testMeta = map[int]domain.RuneMeta{
	// Domination
	8112: {ID: 8112, StyleID: domination, Row: 0, Name: "Electrocute"},
	8126: {ID: 8126, StyleID: domination, Row: 1, Name: "Cheap Shot"},
	8138: {ID: 8138, StyleID: domination, Row: 2, Name: "Eyeball Collection"},
	8135: {ID: 8135, StyleID: domination, Row: 3, Name: "Treasure Hunter"},
	// Sorcery
	8214: {ID: 8214, StyleID: sorcery, Row: 0, Name: "Summon Aery"},
	8226: {ID: 8226, StyleID: sorcery, Row: 1, Name: "Manaflow Band"},
	8233: {ID: 8233, StyleID: sorcery, Row: 2, Name: "Absolute Focus"},
	8236: {ID: 8236, StyleID: sorcery, Row: 3, Name: "Gathering Storm"},
	// Precision
	8010: {ID: 8010, StyleID: precision, Row: 0, Name: "Conqueror"},
	9111: {ID: 9111, StyleID: precision, Row: 1, Name: "Triumph"},
}

var shards = []int{5008, 5008, 5002}

func TestGroupRunes(t *testing.T) {
	groups := GroupRunes([]int{8112, 8233, 8126, 9999, 8236, 8138}, testMeta)

	require.Len(t, groups, 2)
	assert.Equal(t, StyleGroup{StyleID: domination, RuneIDs: []int{8112, 8126, 8138}}, groups[0])
	assert.Equal(t, StyleGroup{StyleID: sorcery, RuneIDs: []int{8233, 8236}}, groups[1])
}

func TestBuildPage(t *testing.T) {
	cases := []struct {
		name        string
		runes       []int
		shards      []int
		wantPrimary int
		wantSub     int
		wantPerks   []int
	}{
		{
			name:        "canonical order",
			runes:       []int{8112, 8126, 8138, 8135, 8233, 8236},
			shards:      shards,
			wantPrimary: domination,
			wantSub:     sorcery,
			wantPerks:   []int{8112, 8126, 8138, 8135, 8233, 8236, 5008, 5008, 5002},
		},
		{
			name:        "secondary listed first",
			runes:       []int{8233, 8236, 8112, 8126, 8138, 8135},
			shards:      shards,
			wantPrimary: domination,
			wantSub:     sorcery,
			wantPerks:   []int{8112, 8126, 8138, 8135, 8233, 8236, 5008, 5008, 5002},
		},
		{
			name:        "interleaved",
			runes:       []int{8126, 8233, 8112, 8138, 8236, 8135},
			shards:      shards,
			wantPrimary: domination,
			wantSub:     sorcery,
			wantPerks:   []int{8126, 8112, 8138, 8135, 8233, 8236, 5008, 5008, 5002},
		},
		{
			name:        "unknown ids dropped",
			runes:       []int{1, 8112, 8126, 2, 8138, 8135, 8233, 8236, 3},
			shards:      shards,
			wantPrimary: domination,
			wantSub:     sorcery,
			wantPerks:   []int{8112, 8126, 8138, 8135, 8233, 8236, 5008, 5008, 5002},
		},
		{
			name:        "oversized primary keeps keystone",
			runes:       []int{8126, 8138, 8135, 8126, 8112, 8233, 8236},
			shards:      shards,
			wantPrimary: domination,
			wantSub:     sorcery,
			wantPerks:   []int{8126, 8138, 8135, 8112, 8233, 8236, 5008, 5008, 5002},
		},
		{
			name:        "degraded result keeps every shard",
			runes:       []int{8010, 9111, 8126, 8138, 8135},
			shards:      []int{5005, 5008, 5001, 5002},
			wantPrimary: Unset,
			wantSub:     Unset,
			wantPerks:   []int{8010, 9111, 8126, 8138, 8135, 5005, 5008, 5001, 5002},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := BuildPage(tc.runes, tc.shards, testMeta)
			assert.Equal(t, tc.wantPrimary, d.PrimaryStyleID)
			assert.Equal(t, tc.wantSub, d.SubStyleID)
			assert.Equal(t, tc.wantPerks, d.PerkIDs)
		})
	}
}

func TestBuildPage_ValidShape(t *testing.T) {
	d := BuildPage([]int{8112, 8126, 8138, 8135, 8233, 8236}, []int{5005, 5008, 5001, 5002}, testMeta)

	require.True(t, d.Valid())
	assert.Len(t, d.PerkIDs, 9)
	assert.Equal(t, []int{5005, 5008, 5001}, d.PerkIDs[6:])
	assert.Equal(t, 8112, d.PerkIDs[0])
}

func TestBuildPage_Deterministic(t *testing.T) {
	in := []int{8233, 8112, 8236, 8126, 8138, 8135}
	first := BuildPage(in, shards, testMeta)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildPage(in, shards, testMeta))
	}
}

func TestBuildPage_Degenerate(t *testing.T) {
	cases := []struct {
		name   string
		runes  []int
		shards []int
	}{
		{name: "single style", runes: []int{8112, 8126, 8138, 8135}, shards: shards},
		{name: "no metadata", runes: []int{1, 2, 3, 4, 5, 6}, shards: shards},
		{name: "empty", runes: nil, shards: nil},
		{name: "no keystone", runes: []int{8126, 8138, 8135, 8233, 8236, 9111}, shards: shards},
		{name: "primary too small", runes: []int{8112, 8126, 8138, 8233, 8236}, shards: shards},
		{name: "secondary too small", runes: []int{8112, 8126, 8138, 8135, 8233}, shards: shards},
		{name: "missing shards", runes: []int{8112, 8126, 8138, 8135, 8233, 8236}, shards: []int{5008}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := BuildPage(tc.runes, tc.shards, testMeta)
			assert.Equal(t, Unset, d.PrimaryStyleID)
			assert.Equal(t, Unset, d.SubStyleID)
			assert.False(t, d.Valid())
		})
	}
}

func TestBuildPage_DegenerateKeepsCollectedIDs(t *testing.T) {
	d := BuildPage([]int{8112, 8126, 8138, 8135}, shards, testMeta)
	assert.Equal(t, []int{8112, 8126, 8138, 8135, 5008, 5008, 5002}, d.PerkIDs)
}
