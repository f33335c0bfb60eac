package news

import (
	"fmt"
	"strings"
)

// Category partitions the feed. Likes is synthetic: it is materialized from
// the local favorites and never fetched.
type Category string

const (
	Latest Category = "latest"
	Market Category = "market"
	Crypto Category = "crypto"
	Likes  Category = "likes"
)

// Categories lists the fetchable categories in menu order.
var Categories = []Category{Latest, Market, Crypto}

// AllCategories lists every category the reader can show, likes last.
var AllCategories = []Category{Latest, Market, Crypto, Likes}

// Fetchable reports whether the category is backed by the remote API.
func (c Category) Fetchable() bool {
	switch c {
	case Latest, Market, Crypto:
		return true
	}
	return false
}

// Title returns the menu label.
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: latest, market, crypto, likes)", s)
}
