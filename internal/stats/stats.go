// Package stats derives counts and leaderboards from a grid snapshot. Every figure uses the
// same counting rule: a block counts as claimed iff its status is dug.
package stats

import (
	"sort"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/clock"
	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// DefaultMinerColor decorates miners without a registered color.
const DefaultMinerColor = "#888"

// UserCount is one entry of the per-user distribution.
type UserCount struct {
	Identity string `json:"identity"`
	Count    int    `json:"count"`
}

// Distribution is sorted by descending count, ties by identity ascending.
type Distribution []UserCount

// Summary holds the board totals.
type Summary struct {
	Total   int `json:"total"`
	Claimed int `json:"claimed"`
	Empty   int `json:"empty"`
}

// Report is the board summary with the full per-user distribution.
type Report struct {
	Summary
	Distribution Distribution `json:"distribution"`
}

// Miner is a leaderboard row.
type Miner struct {
	Identity string `json:"identity"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

// UserSummary describes one identity's standing.
type UserSummary struct {
	Identity  string `json:"identity"`
	Owned     int    `json:"owned"`
	Today     int    `json:"today"`
	Remaining *int   `json:"remaining"`
}

// CountClaimed returns the number of dug blocks.
func CountClaimed(g grid.Grid) int {
	n := 0
	for _, b := range g {
		if b.IsDug() {
			n++
		}
	}
	return n
}

// PerUserDistribution counts dug blocks per owner.
func PerUserDistribution(g grid.Grid) Distribution {
	counts := make(map[string]int)
	for _, b := range g {
		if b.IsDug() {
			counts[b.Owner]++
		}
	}

	out := make(Distribution, 0, len(counts))
	for identity, n := range counts {
		out = append(out, UserCount{Identity: identity, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Identity < out[j].Identity
	})
	return out
}

// Total sums the counts. It always equals CountClaimed of the same grid.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c.Count
	}
	return n
}

// AsMap returns identity -> count.
func (d Distribution) AsMap() map[string]int {
	m := make(map[string]int, len(d))
	for _, c := range d {
		m[c.Identity] = c.Count
	}
	return m
}

// Summarize returns the board totals.
func Summarize(g grid.Grid) Summary {
	claimed := CountClaimed(g)
	return Summary{Total: len(g), Claimed: claimed, Empty: len(g) - claimed}
}

// NewReport computes the summary and distribution from one grid.
func NewReport(g grid.Grid) Report {
	return Report{
		Summary:      Summarize(g),
		Distribution: PerUserDistribution(g),
	}
}

// TopMiners returns the first n entries of the distribution with each miner's color.
// n <= 0 returns every miner.
func TopMiners(doc *grid.Document, n int) []Miner {
	dist := PerUserDistribution(doc.Grid)
	if n > 0 && n < len(dist) {
		dist = dist[:n]
	}

	out := make([]Miner, 0, len(dist))
	for _, c := range dist {
		color, ok := doc.UserColor(c.Identity)
		if !ok {
			color = DefaultMinerColor
		}
		out = append(out, Miner{Identity: c.Identity, Count: c.Count, Color: color})
	}
	return out
}

// ClaimsOnDay counts blocks identity dug on the UTC day of now.
func ClaimsOnDay(g grid.Grid, identity string, now time.Time) int {
	day := clock.Day(now)
	n := 0
	for _, b := range g {
		if b.IsDug() && b.Owner == identity && !b.DugAt.IsZero() && clock.Day(b.DugAt) == day {
			n++
		}
	}
	return n
}

// ForUser summarizes identity. With dailyLimit <= 0 there is no quota and Remaining is nil.
func ForUser(g grid.Grid, identity string, now time.Time, dailyLimit int) UserSummary {
	s := UserSummary{Identity: identity, Today: ClaimsOnDay(g, identity, now)}
	for _, b := range g {
		if b.IsDug() && b.Owner == identity {
			s.Owned++
		}
	}
	if dailyLimit > 0 {
		remaining := dailyLimit - s.Today
		if remaining < 0 {
			remaining = 0
		}
		s.Remaining = &remaining
	}
	return s
}
