package team

import (
	"fmt"
	"strings"
)

// Team is a basketball club referenced by games as home or away side.
type Team struct {
	ID   int64
	Name string
	Logo string
}

func (t Team) Normalize() Team {
	t.Name = strings.TrimSpace(t.Name)
	t.Logo = strings.TrimSpace(t.Logo)
	return t
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be > 0")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (t Team) String() string {
	return t.Name
}
