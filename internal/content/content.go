package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"LundyVoice/pkg/assistant"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/mls"
)

//go:embed content.yaml
var embedded []byte

// Page is the visible text of one route, used to seed the page index.
type Page struct {
	Path string `yaml:"path"`
	Text string `yaml:"text"`
}

// Content is everything the assistant knows before any page reports its text.
type Content struct {
	Summaries  []knowledge.PageSummary    `yaml:"summaries"`
	Pages      []Page                     `yaml:"pages"`
	Partners   []mls.Partner              `yaml:"partners"`
	Compliance []assistant.ComplianceItem `yaml:"compliance"`
}

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	return Parse(embedded)
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Content, error) {
	c := &Content{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate content: %w", err)
	}

	if len(c.Compliance) == 0 {
		c.Compliance = assistant.DefaultComplianceItems()
	}

	return c, nil
}

func (c *Content) Validate() error {
	for i, s := range c.Summaries {
		if s.Path == "" {
			return fmt.Errorf("summary %d has no path", i)
		}
	}

	for i, p := range c.Pages {
		if p.Path == "" {
			return fmt.Errorf("page %d has no path", i)
		}
	}

	for _, p := range c.Partners {
		if p.Name == "" {
			return errors.New("partner without a name")
		}
		switch p.Status {
		case mls.StatusLive, mls.StatusPilot, mls.StatusInDiscussion:
		default:
			return fmt.Errorf("partner %q has unknown status %q", p.Name, p.Status)
		}
		if p.AgentCount < 0 {
			return fmt.Errorf("partner %q has a negative agent count", p.Name)
		}
	}

	return nil
}

func (c *Content) Roster() *mls.Roster {
	return mls.NewRoster(c.Partners)
}

func (c *Content) SummaryResolver() *knowledge.SummaryResolver {
	return knowledge.NewSummaryResolver(c.Summaries)
}

// Dispatcher wires the content into a dispatcher answering page questions
// from pages. Extra options are applied last.
func (c *Content) Dispatcher(pages *knowledge.Store, opts ...assistant.Option) *assistant.Dispatcher {
	base := []assistant.Option{
		assistant.WithSummaries(c.SummaryResolver()),
		assistant.WithPartners(mls.NewResolver(c.Roster())),
		assistant.WithComplianceItems(c.Compliance),
	}
	if pages != nil {
		base = append(base, assistant.WithPageSearch(pages))
	}
	return assistant.NewDispatcher(append(base, opts...)...)
}

// Seed indexes every page's text into store immediately.
func (c *Content) Seed(store *knowledge.Store) int {
	total := 0
	for _, p := range c.Pages {
		total += store.Replace(p.Path, p.Text)
	}
	return total
}
