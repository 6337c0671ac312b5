package league

import (
	"fmt"
	"strings"
)

// League is a competition as published by the basketball feed.
type League struct {
	ID     int64
	Name   string
	Type   string
	Season string
	Logo   string
}

// Normalize trims the free-text fields; a missing logo is stored as "".
func (l League) Normalize() League {
	l.Name = strings.TrimSpace(l.Name)
	l.Type = strings.TrimSpace(l.Type)
	l.Season = strings.TrimSpace(l.Season)
	l.Logo = strings.TrimSpace(l.Logo)
	return l
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be > 0")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

func (l League) String() string {
	return l.Name
}
