package model

import (
	"math"
	"sort"
)

// Stats summarizes the current coupon set.
type Stats struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Drawn             int `json:"drawn"`
	ParticipationRate int `json:"participation_rate"` // percent of coupons drawn
}

// ComputeStats derives counts and the participation rate from a coupon list.
// The rate is round(100 * drawn / total), 0 for an empty set.
func ComputeStats(coupons []Coupon) Stats {
	s := Stats{Total: len(coupons)}
	for _, c := range coupons {
		switch c.Status {
		case StatusDrawn:
			s.Drawn++
		default:
			s.Active++
		}
	}
	if s.Total > 0 {
		s.ParticipationRate = int(math.Round(100 * float64(s.Drawn) / float64(s.Total)))
	}
	return s
}

// RecentWinners returns the newest n drawn coupons, most recent draw first.
// The input is expected in created_at descending order; winners are ordered
// by drawn_at instead so the leaderboard follows draw order.
func RecentWinners(coupons []Coupon, n int) []Coupon {
	winners := make([]Coupon, 0, n)
	for _, c := range coupons {
		if c.Status == StatusDrawn {
			winners = append(winners, c)
		}
	}
	sort.Slice(winners, func(i, j int) bool {
		a, b := winners[i].DrawnAt, winners[j].DrawnAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	if len(winners) > n {
		winners = winners[:n]
	}
	return winners
}
