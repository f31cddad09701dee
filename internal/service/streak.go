package service

import (
	"math"
	"sort"
	"time"
)

// StreakLookback is the fixed number of most recent redemptions examined
// when computing a streak. Activity older than the lookback window cannot
// extend a streak, so streaks are capped at this many days.
const StreakLookback = 30

// currentStreak computes the consecutive-day attendance count from the
// redemption timestamps:
//
//  1. Each timestamp is reduced to a calendar day in loc and days are
//     deduplicated, so multiple meals on one day count once.
//  2. Walking the distinct days from most recent backwards, a day whose
//     distance from today equals the running counter extends the streak.
//     A distance of counter+1 also extends it: the one-day grace keeps
//     today's absence from zeroing the streak before the student has
//     redeemed. The grace compares against the counter at every step,
//     so a gap landing exactly on counter+1 extends the streak too.
//
// An empty history yields 0.
func currentStreak(timestamps []time.Time, now time.Time, loc *time.Location) int {
	if len(timestamps) == 0 {
		return 0
	}

	today := startOfDay(now, loc)

	seen := make(map[int]struct{}, len(timestamps))
	distances := make([]int, 0, len(timestamps))
	for _, ts := range timestamps {
		d := wholeDaysBetween(startOfDay(ts, loc), today)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		distances = append(distances, d)
	}

	// Ascending distance = most recent day first.
	sort.Ints(distances)

	streak := 0
	for _, d := range distances {
		if d == streak || d == streak+1 {
			streak++
			continue
		}
		break
	}
	return streak
}

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// wholeDaysBetween counts calendar days from day up to today. Rounding
// absorbs DST-shortened or -lengthened days. Negative for future days.
func wholeDaysBetween(day, today time.Time) int {
	return int(math.Round(today.Sub(day).Hours() / 24))
}
