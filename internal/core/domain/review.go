package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrReviewTooLong = errors.New("review text is too long (max 2000 chars)")

const MaxReviewLen = 2000

type WeeklyReview struct {
	WeekNumber      int    `json:"week_number"`
	WentWell        string `json:"went_well"`
	CouldBeImproved string `json:"could_be_improved"`
}

// NewWeeklyReview trims both fields. Blank reviews are allowed; they simply
// carry no content.
func NewWeeklyReview(week int, wentWell, couldBeImproved string) (WeeklyReview, error) {
	wentWell = strings.TrimSpace(wentWell)
	couldBeImproved = strings.TrimSpace(couldBeImproved)

	if utf8.RuneCountInString(wentWell) > MaxReviewLen || utf8.RuneCountInString(couldBeImproved) > MaxReviewLen {
		return WeeklyReview{}, ErrReviewTooLong
	}

	return WeeklyReview{
		WeekNumber:      week,
		WentWell:        wentWell,
		CouldBeImproved: couldBeImproved,
	}, nil
}

// HasContent is true when either field is non-blank after trimming.
func (r WeeklyReview) HasContent() bool {
	return strings.TrimSpace(r.WentWell) != "" || strings.TrimSpace(r.CouldBeImproved) != ""
}
