package stats

import (
	"math"
	"time"
	"unicode/utf8"

	"chatstat/internal/models"
)

// Aggregate folds a collection of chats into a single statistics
// snapshot, optionally filtered by an inclusive calendar-day range.
//
// When a range is active, a message with an unparseable timestamp is
// excluded entirely: the filter demands a defined instant. Without a
// range every message counts toward role and character totals, and only
// the day/hour buckets require a parsed timestamp.
//
// A chat contributes to TotalChats, MaxMessagesInOneChat and
// CharacterUsage only if at least one of its messages is in range.
// Empty input yields a valid all-zero snapshot, not an error. The
// function is pure: two calls over identical inputs produce identical
// snapshots.
func Aggregate(chats []models.Chat, rng models.DateRange) *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Range = rng

	rangeActive := !rng.IsZero()
	startT, hasStart := rng.StartTime()
	endT, hasEnd := rng.EndTime()

	byDay := make(map[string][]TimedMessage)
	dayFiles := make(map[string]map[string]struct{})

	for ci := range chats {
		chat := &chats[ci]
		inRange := 0

		for _, msg := range chat.Messages {
			at, parsed := Parse(msg.SendDate)
			if rangeActive {
				if !parsed {
					continue
				}
				if hasStart && at.Before(startT) {
					continue
				}
				if hasEnd && at.After(endT) {
					continue
				}
			}

			inRange++
			snap.TotalMessages++

			chars := utf8.RuneCountInString(msg.Text)
			tokens := messageTokens(msg)
			if msg.IsUser {
				snap.UserMessages++
				snap.UserChars += chars
				snap.UserTokens += tokens
			} else {
				snap.AIMessages++
				snap.AIChars += chars
				snap.AITokens += tokens
				if msg.Model != "" {
					snap.ModelUsage[msg.Model]++
				}
			}

			if parsed {
				day := models.DayKey(at)
				snap.DailyActivity[day]++
				snap.HourlyActivity[at.In(time.Local).Hour()]++
				byDay[day] = append(byDay[day], TimedMessage{At: at, Msg: msg})

				files := dayFiles[day]
				if files == nil {
					files = make(map[string]struct{})
					dayFiles[day] = files
				}
				files[chat.FileName] = struct{}{}
			}
		}

		if inRange > 0 {
			snap.TotalChats++
			if inRange > snap.MaxMessagesInOneChat {
				snap.MaxMessagesInOneChat = inRange
			}
			snap.CharacterUsage[chat.Character()] += inRange
		}
	}

	for day, files := range dayFiles {
		snap.DailyFiles[day] = len(files)
	}

	snap.DailyDuration = DailyDurations(byDay)
	for _, minutes := range snap.DailyDuration {
		snap.TotalDurationMin += minutes
	}

	if snap.TotalChats > 0 {
		snap.AvgMessagesPerChat = int(math.Round(float64(snap.TotalMessages) / float64(snap.TotalChats)))
	}
	if snap.UserMessages > 0 {
		snap.AIUserRatio = math.Round(float64(snap.AIMessages)/float64(snap.UserMessages)*100) / 100
	}

	snap.FirstActiveDay, snap.LastActiveDay, snap.DaysActive = activeSpan(snap.DailyActivity)

	return snap
}

// messageTokens prefers the host's authoritative token count and falls
// back to estimation when it is absent or invalid.
func messageTokens(msg models.Message) int {
	if msg.HasTokenCount() {
		return *msg.TokenCount
	}
	return EstimateTokens(msg.Text)
}

// activeSpan returns the first and last active day keys and the
// inclusive day count between them. Day keys compare lexicographically.
func activeSpan(daily map[string]int) (first, last string, days int) {
	for day := range daily {
		if first == "" || day < first {
			first = day
		}
		if day > last {
			last = day
		}
	}
	if first == "" {
		return "", "", 0
	}

	ft, errF := time.ParseInLocation(models.DayKeyLayout, first, time.Local)
	lt, errL := time.ParseInLocation(models.DayKeyLayout, last, time.Local)
	if errF != nil || errL != nil {
		return first, last, 1
	}
	days = int(math.Round(lt.Sub(ft).Hours()/24)) + 1
	return first, last, days
}

// Bounds scans every parseable timestamp and returns the earliest and
// latest local calendar days present in the data, ignoring any range.
// The renderer uses this to bound its date picker.
func Bounds(chats []models.Chat) models.DateRange {
	var first, last string
	for ci := range chats {
		for _, msg := range chats[ci].Messages {
			at, ok := Parse(msg.SendDate)
			if !ok {
				continue
			}
			day := models.DayKey(at)
			if first == "" || day < first {
				first = day
			}
			if day > last {
				last = day
			}
		}
	}
	return models.DateRange{Start: first, End: last}
}
