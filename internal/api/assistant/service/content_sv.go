package assistantService

import (
	"context"

	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
	assistantPkg "LundyVoice/pkg/assistant"
	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/knowledge"
)

const complianceReportName = "compliance-report.md"

func (s *assistantService) UpdatePageContent(ctx context.Context, req assistant.PageContentRequest) (*assistant.PageContentResponse, error) {
	path := knowledge.NormalizePath(req.Path)

	if !req.Immediate {
		s.pages.Notify(path, req.Text)
		return &assistant.PageContentResponse{Path: path, Pending: true}, nil
	}

	chunks := s.pages.Replace(path, req.Text)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"path":       path,
		"chunks":     chunks,
	}).Debug("Page index rebuilt")

	return &assistant.PageContentResponse{Path: path, Chunks: chunks}, nil
}

func (s *assistantService) ComplianceReport(ctx context.Context) *assistant.ComplianceReportResponse {
	now := s.now().UTC()
	return &assistant.ComplianceReportResponse{
		Report:      assistantPkg.ComplianceReport(s.compliance, now),
		Items:       s.compliance,
		GeneratedAt: now,
	}
}

func (s *assistantService) ArchiveComplianceReport(ctx context.Context) (*assistant.ComplianceArchiveResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.archive == nil {
		return nil, assistant.ErrArchiveUnavailable
	}

	report := s.ComplianceReport(ctx)

	location, err := s.archive.UploadReport(ctx, complianceReportName, []byte(report.Report), "text/markdown")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to archive compliance report")
		return nil, assistant.ErrArchiveFailed
	}

	resp := &assistant.ComplianceArchiveResponse{Location: location, GeneratedAt: report.GeneratedAt}

	url, err := s.archive.PresignUrl(location)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to presign compliance report")
		return resp, nil
	}
	resp.DownloadURL = url

	return resp, nil
}

func (s *assistantService) GetOnboarding(ctx context.Context, clientID string) (*assistant.OnboardingResponse, error) {
	seen, err := s.sessions.OnboardingSeen(ctx, clientID)
	if err != nil {
		return nil, assistant.ErrSessionStore
	}
	return &assistant.OnboardingResponse{ClientID: clientID, Seen: seen}, nil
}

func (s *assistantService) SetOnboarding(ctx context.Context, clientID string, seen bool) (*assistant.OnboardingResponse, error) {
	if err := s.sessions.SetOnboardingSeen(ctx, clientID, seen); err != nil {
		return nil, assistant.ErrSessionStore
	}
	return &assistant.OnboardingResponse{ClientID: clientID, Seen: seen}, nil
}
