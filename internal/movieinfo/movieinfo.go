package movieinfo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("movie info not found")
	ErrValidation = errors.New("invalid movie info")
)

// MovieInfo describes one movie. ReleasedAt is a calendar date in
// YYYY-MM-DD form, or empty when unknown.
type MovieInfo struct {
	ID         string   `json:"id" bson:"_id"`
	Title      string   `json:"title" bson:"title"`
	Year       int      `json:"year" bson:"year"`
	Cast       []string `json:"cast" bson:"cast"`
	ReleasedAt string   `json:"releasedAt,omitempty" bson:"released_at,omitempty"`
}

// Filter narrows listings. Zero values match everything.
type Filter struct {
	Year int
}

func (f Filter) match(m MovieInfo) bool {
	return f.Year == 0 || m.Year == f.Year
}

// Validate reports every problem at once, wrapped in ErrValidation.
func (m MovieInfo) Validate() error {
	var problems []string
	if strings.TrimSpace(m.Title) == "" {
		problems = append(problems, "title must be present")
	}
	if m.Year <= 0 {
		problems = append(problems, "year must be a positive value")
	}
	if len(m.Cast) == 0 {
		problems = append(problems, "cast must be present")
	}
	for _, name := range m.Cast {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "cast must not contain blank names")
			break
		}
	}
	if m.ReleasedAt != "" {
		if _, err := time.Parse(time.DateOnly, m.ReleasedAt); err != nil {
			problems = append(problems, "releasedAt must be a date in YYYY-MM-DD format")
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, ", "))
}
