package country

import (
	"fmt"
	"strings"
)

const codeFallback = "N/A"

// Country groups games and is the unit of user entitlement.
type Country struct {
	ID   int64
	Name string
	Code string
	Flag string
}

func (c Country) Normalize() Country {
	c.Name = strings.TrimSpace(c.Name)
	c.Code = strings.TrimSpace(c.Code)
	c.Flag = strings.TrimSpace(c.Flag)
	return c
}

func (c Country) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("country id must be > 0")
	}
	if c.Name == "" {
		return fmt.Errorf("country name is required")
	}

	return nil
}

// CodeOrNA returns the short code, or "N/A" when the feed left it blank.
func (c Country) CodeOrNA() string {
	if code := strings.TrimSpace(c.Code); code != "" {
		return code
	}
	return codeFallback
}

func (c Country) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.CodeOrNA())
}
