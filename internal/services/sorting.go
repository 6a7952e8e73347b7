package services

import (
	"cmp"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mediascope/internal/models"
)

// SortLogs orders logs in place. Missing values sort last in both
// directions; ties fall back to external id ascending (numerically when
// both ids are numbers) and then media type.
func SortLogs(logs []models.UserMediaLog, key models.SortKey) {
	if !key.Valid() {
		key = models.DefaultSort
	}
	primary := primaryCompare(key)
	sort.SliceStable(logs, func(i, j int) bool {
		if c := primary(&logs[i], &logs[j]); c != 0 {
			return c < 0
		}
		if c := compareExternalID(logs[i].ExternalID, logs[j].ExternalID); c != 0 {
			return c < 0
		}
		return logs[i].MediaType < logs[j].MediaType
	})
}

type logCompare func(a, b *models.UserMediaLog) int

func primaryCompare(key models.SortKey) logCompare {
	switch key {
	case models.SortWatchedAsc:
		return byOptional(watchedDate, cmp.Compare[string], false)
	case models.SortReleaseDesc:
		return byOptional(releaseDate, cmp.Compare[string], true)
	case models.SortReleaseAsc:
		return byOptional(releaseDate, cmp.Compare[string], false)
	case models.SortTitleAsc, models.SortTitleDesc:
		// a Collator keeps internal buffers, so one per sort call
		col := collate.New(language.English, collate.IgnoreCase, collate.Loose)
		return byOptional(title, col.CompareString, key == models.SortTitleDesc)
	case models.SortScoreDesc:
		return byOptional(averageScore, cmp.Compare[float64], true)
	case models.SortScoreAsc:
		return byOptional(averageScore, cmp.Compare[float64], false)
	case models.SortRatingDesc:
		return byOptional(rating, cmp.Compare[int], true)
	case models.SortRatingAsc:
		return byOptional(rating, cmp.Compare[int], false)
	default:
		return byOptional(watchedDate, cmp.Compare[string], true)
	}
}

func byOptional[T any](get func(*models.UserMediaLog) *T, compare func(a, b T) int, desc bool) logCompare {
	return func(a, b *models.UserMediaLog) int {
		va, vb := get(a), get(b)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		c := compare(*va, *vb)
		if desc {
			return -c
		}
		return c
	}
}

func watchedDate(l *models.UserMediaLog) *string { return l.WatchedDate }

func rating(l *models.UserMediaLog) *int { return l.Rating }

func releaseDate(l *models.UserMediaLog) *string {
	if l.Media == nil {
		return nil
	}
	return l.Media.ReleaseDate
}

func averageScore(l *models.UserMediaLog) *float64 {
	if l.Media == nil {
		return nil
	}
	return l.Media.AverageScore
}

func title(l *models.UserMediaLog) *string {
	if l.Media == nil || l.Media.Title == "" {
		return nil
	}
	return &l.Media.Title
}

func compareExternalID(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(na, nb)
	}
	return cmp.Compare(a, b)
}
