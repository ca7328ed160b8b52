package assistant

import (
	"fmt"
	"strings"
	"time"
)

const (
	ComplianceOpenMessage    = "Here’s your Navigator compliance check. All systems are live."
	ComplianceOffPageMessage = "Compliance panel is only available on the Navigator page."
)

type ComplianceItem struct {
	Label  string `yaml:"label" json:"label"`
	Status string `yaml:"status" json:"status"`
	Detail string `yaml:"detail" json:"detail"`
}

func DefaultComplianceItems() []ComplianceItem {
	return []ComplianceItem{
		{Label: "Documents uploaded", Status: "Pass", Detail: "12 handbooks + 4 PDFs indexed"},
		{Label: "FAQ indexing", Status: "Pass", Detail: "Site + PDFs in RAG index"},
		{Label: "RAG engine ready", Status: "Pass", Detail: "Embeddings warmed"},
		{Label: "Web speech active", Status: "Pass", Detail: "Mic + TTS verified"},
	}
}

// ComplianceReport renders items as the downloadable markdown report.
func ComplianceReport(items []ComplianceItem, now time.Time) string {
	if len(items) == 0 {
		items = DefaultComplianceItems()
	}

	var b strings.Builder
	b.WriteString("# Navigator Compliance Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format(time.RFC3339))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s — %s\n", item.Label, item.Status, item.Detail)
	}
	return b.String()
}
