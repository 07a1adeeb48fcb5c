package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies an auctionable item.
type Category string

const (
	CategoryBatsman      Category = "batsman"
	CategoryBowler       Category = "bowler"
	CategoryAllRounder   Category = "all-rounder"
	CategoryWicketKeeper Category = "wicket-keeper"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryBatsman,
	CategoryBowler,
	CategoryAllRounder,
	CategoryWicketKeeper,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes s and checks it against the known set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Item is a single auctionable player from the catalogue.
type Item struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Category         Category        `json:"category"`
	PerformanceScore float64         `json:"performance_score"`
	Stats            json.RawMessage `json:"stats,omitempty"`
	CreatedBy        uuid.UUID       `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}
