// Package icons maps trivia categories to the icon artwork shown next to them.
// The sidebar and the question cards both resolve icons here.
package icons

import "strings"

// Icon is a category icon: a display name and the path of its static asset.
type Icon struct {
	Name  string
	Asset string
}

// Fallback is used for categories the mapping does not know.
var Fallback = Icon{Name: "category", Asset: "/static/icons/category.svg"}

var (
	science       = Icon{Name: "science", Asset: "/static/icons/science.svg"}
	art           = Icon{Name: "art", Asset: "/static/icons/art.svg"}
	geography     = Icon{Name: "geography", Asset: "/static/icons/geography.svg"}
	entertainment = Icon{Name: "entertainment", Asset: "/static/icons/entertainment.svg"}
	sports        = Icon{Name: "sports", Asset: "/static/icons/sports.svg"}
	// History has no artwork of its own and shares geography's.
	history = Icon{Name: "history", Asset: geography.Asset}
)

var byID = map[int]Icon{
	1: science,
	2: art,
	3: geography,
	4: history,
	5: entertainment,
	6: sports,
}

var byLabel = map[string]Icon{
	"science":       science,
	"art":           art,
	"geography":     geography,
	"history":       history,
	"entertainment": entertainment,
	"sports":        sports,
}

// ForID returns the icon for a category id, or Fallback.
func ForID(id int) Icon {
	if icon, ok := byID[id]; ok {
		return icon
	}
	return Fallback
}

// ForLabel returns the icon for a category label, ignoring case and
// surrounding whitespace, or Fallback.
func ForLabel(label string) Icon {
	if icon, ok := byLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return icon
	}
	return Fallback
}

// Resolve prefers the id and falls back to the label.
func Resolve(id int, label string) Icon {
	if icon := ForID(id); icon != Fallback {
		return icon
	}
	return ForLabel(label)
}
