package mls

import (
	"strings"

	"LundyVoice/pkg/nlp"
)

type Status string

const (
	StatusLive         Status = "live"
	StatusPilot        Status = "pilot"
	StatusInDiscussion Status = "in discussion"
)

// Partner is one organization on the roster.
type Partner struct {
	Name       string `yaml:"name" json:"name"`
	City       string `yaml:"city" json:"city"`
	State      string `yaml:"state" json:"state"`
	AgentCount int    `yaml:"agents" json:"agents"`
	Status     Status `yaml:"status" json:"status"`
}

// Active reports whether the partner is live or in pilot.
func (p Partner) Active() bool {
	return p.Status == StatusLive || p.Status == StatusPilot
}

// Roster is read-only after construction.
type Roster struct {
	partners   []Partner
	normalized []string
}

func NewRoster(partners []Partner) *Roster {
	r := &Roster{
		partners:   make([]Partner, len(partners)),
		normalized: make([]string, len(partners)),
	}
	copy(r.partners, partners)
	for i, p := range r.partners {
		r.partners[i].State = strings.ToUpper(strings.TrimSpace(p.State))
		r.normalized[i] = nlp.Normalize(p.Name).Clean
	}
	return r
}

func (r *Roster) Partners() []Partner {
	out := make([]Partner, len(r.partners))
	copy(out, r.partners)
	return out
}

func (r *Roster) Filter(keep func(Partner) bool) []Partner {
	var out []Partner
	for _, p := range r.partners {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) ByName(name string) (Partner, bool) {
	for _, p := range r.partners {
		if p.Name == name {
			return p, true
		}
	}
	return Partner{}, false
}

// TotalAgents sums agent counts over the given partners.
func TotalAgents(partners []Partner) int {
	total := 0
	for _, p := range partners {
		total += p.AgentCount
	}
	return total
}
