package types

import (
	"strconv"
	"strings"
	"time"
)

// PageSize is the fixed number of notes per result page.
const PageSize = 20

// AgeBucket is a named time window evaluated against a note's creation date.
type AgeBucket string

const (
	AgeOneWeek    AgeBucket = "one_week"
	AgeOneMonth   AgeBucket = "one_month"
	AgeThreeMonth AgeBucket = "three_month"
	AgeAllTime    AgeBucket = "all_time"
	AgeArchive    AgeBucket = "archive"
)

// ParseAgeBucket maps a raw query value to a bucket. Unknown or empty values
// fall back to one_week. The short spellings used by the first frontend
// ("1week", "alltime", ...) are still accepted.
func ParseAgeBucket(raw string) AgeBucket {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(AgeOneWeek), "1week":
		return AgeOneWeek
	case string(AgeOneMonth), "1month":
		return AgeOneMonth
	case string(AgeThreeMonth), "3month":
		return AgeThreeMonth
	case string(AgeAllTime), "alltime":
		return AgeAllTime
	case string(AgeArchive):
		return AgeArchive
	default:
		return AgeOneWeek
	}
}

// CompiledFilter is the normalized predicate set for one list request.
// Ownership scoping is deliberately not part of it: the repository adds the
// user_id predicate unconditionally, so a compilation bug can never widen
// visibility across users.
type CompiledFilter struct {
	Bucket       AgeBucket
	CreatedAfter *time.Time // nil when the bucket carries no date window
	Archived     *bool      // nil when both states are visible (all_time)
	Search       string     // case-insensitive substring on title; empty disables
	Page         int
	Limit        int
	Offset       int
}

// CompileFilter normalizes raw list-request parameters. Date windows are
// anchored to now, which callers take from the request time.
func CompileFilter(age, search, page string, now time.Time) CompiledFilter {
	f := CompiledFilter{
		Bucket: ParseAgeBucket(age),
		Search: strings.TrimSpace(search),
		Limit:  PageSize,
	}

	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || p < 1 {
		p = 1
	}
	f.Page = p
	f.Offset = PageSize * (p - 1)

	switch f.Bucket {
	case AgeOneWeek:
		f.CreatedAfter = timePtr(now.Add(-7 * 24 * time.Hour))
		f.Archived = boolPtr(false)
	case AgeOneMonth:
		f.CreatedAfter = timePtr(now.Add(-30 * 24 * time.Hour))
		f.Archived = boolPtr(false)
	case AgeThreeMonth:
		f.CreatedAfter = timePtr(now.Add(-90 * 24 * time.Hour))
		f.Archived = boolPtr(false)
	case AgeArchive:
		f.Archived = boolPtr(true)
	case AgeAllTime:
		// No date or archive constraint.
	}

	return f
}

func timePtr(t time.Time) *time.Time { return &t }
func boolPtr(b bool) *bool           { return &b }
