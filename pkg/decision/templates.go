package decision

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Template is a ready-made deliberation skeleton.
type Template struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Criteria    []string `yaml:"criteria" json:"criteria"`
	Contenders  []string `yaml:"contenders" json:"contenders"`
}

// BuiltinTemplates returns the templates shipped with the app.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Key:         "restaurant",
			Name:        "Restaurant Choice",
			Description: "Decide where to eat",
			Criteria:    []string{"Price", "Distance", "Quality"},
			Contenders:  []string{"Italian", "Japanese", "Mexican"},
		},
		{
			Key:         "product",
			Name:        "Product Purchase",
			Description: "Compare products to buy",
			Criteria:    []string{"Price", "Features", "Reviews"},
			Contenders:  []string{"Option A", "Option B", "Option C"},
		},
		{
			Key:         "travel",
			Name:        "Travel Destination",
			Description: "Pick your next adventure",
			Criteria:    []string{"Cost", "Activities", "Weather"},
			Contenders:  []string{"Beach", "Mountains", "City"},
		},
	}
}

// LookupTemplate finds a template by key among the built-ins and extra.
// Extra templates shadow built-ins with the same key.
func LookupTemplate(key string, extra ...Template) (Template, bool) {
	for _, t := range extra {
		if strings.EqualFold(t.Key, key) {
			return t, true
		}
	}
	for _, t := range BuiltinTemplates() {
		if strings.EqualFold(t.Key, key) {
			return t, true
		}
	}
	return Template{}, false
}

// Instantiate creates a deliberation from the template. Criteria share the
// weight equally; contenders start unrated.
func (t Template) Instantiate(now time.Time) Deliberation {
	d := NewDeliberation(t.Name, now)
	for _, name := range t.Criteria {
		d = d.AddCriterion(NewCriterion(name, 1.0/float64(len(t.Criteria))))
	}
	for _, name := range t.Contenders {
		d = d.AddContender(NewContender(name))
	}
	return d
}

// SplitOptions parses comma-separated options, trimming blanks.
func SplitOptions(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PickRandom chooses one option uniformly. A nil rng uses the global source.
func PickRandom(options []string, rng *rand.Rand) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	if rng == nil {
		return options[rand.IntN(len(options))], true
	}
	return options[rng.IntN(len(options))], true
}
