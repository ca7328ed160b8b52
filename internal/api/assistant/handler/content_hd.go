package assistantHandler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"LundyVoice/internal/api/assistant"
	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/handlerUtil"
	"LundyVoice/pkg/log"
)

func (h *AssistantHandler) UpdatePageContent(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.PageContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.assistantService.UpdatePageContent(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_page_content")
	}

	status := fiber.StatusOK
	if resp.Pending {
		status = fiber.StatusAccepted
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, status, resp)
	}
}

func (h *AssistantHandler) GetComplianceReport(ctx *fiber.Ctx) error {
	c := contextPkg.FromFiberCtx(ctx)
	errHandler := handlerUtil.New(h.log)

	resp := h.assistantService.ComplianceReport(c)

	if ctx.Query("format") == "markdown" {
		ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="compliance-report.md"`)
		return ctx.Status(fiber.StatusOK).SendString(resp.Report)
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) ArchiveComplianceReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing archive compliance report request")

	resp, err := h.assistantService.ArchiveComplianceReport(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "archive_compliance_report")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}

func (h *AssistantHandler) GetOnboarding(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	resp, err := h.assistantService.GetOnboarding(c, ctx.Params("client_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_onboarding")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *AssistantHandler) SetOnboarding(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.OnboardingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.assistantService.SetOnboarding(c, ctx.Params("client_id"), req.Seen)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "set_onboarding")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}
