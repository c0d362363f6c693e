package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"docqa-be/internal/dto"
	"docqa-be/internal/pkg/apperr"
	"docqa-be/internal/pkg/serverutils"
	"docqa-be/internal/service"
	"docqa-be/pkg/rag/answer"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	ingestService  service.IIngestService
	queryService   service.IQueryService
}

func NewSessionController(
	sessionService service.ISessionService,
	ingestService service.IIngestService,
	queryService service.IQueryService,
) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		ingestService:  ingestService,
		queryService:   queryService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Post("", c.Create)
	h.Post(":id/ingest", c.Ingest)
	h.Post(":id/query", c.Query)
	h.Delete(":id/documents/:docId", c.DeleteDocument)
	h.Get(":id/status", c.Status)
	h.Post(":id/refresh", c.Refresh)
	h.Get(":id/health", c.Health)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

// Ingest accepts either a multipart upload under the "file" field or a JSON
// body with a "url" field.
func (c *sessionController) Ingest(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")

	if fileHeader, err := ctx.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperr.Validation("could not open uploaded file: %v", err)
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			return apperr.Validation("could not read uploaded file: %v", err)
		}

		res, err := c.ingestService.IngestFile(ctx.Context(), sessionID, fileHeader.Filename, raw)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Document ingested", res))
	}

	var req dto.IngestURLRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Malformed("expected a file upload or a JSON body with 'url'")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.IngestURL(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document ingested", res))
}

func (c *sessionController) Query(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")

	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Malformed("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if req.Stream {
		return c.queryStream(ctx, sessionID, &req)
	}

	res, err := c.queryService.Query(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Query answered", res))
}

// queryStream answers over SSE. Retrieval errors happen before the stream
// starts and surface as normal HTTP errors; once streaming begins the only
// failure channel is the in-band error event.
func (c *sessionController) queryStream(ctx *fiber.Ctx, sessionID string, req *dto.QueryRequest) error {
	// The fiber ctx is recycled once this handler returns, so the stream
	// goroutine gets its own cancellable context.
	streamCtx, cancel := context.WithCancel(context.Background())

	events, err := c.queryService.QueryStream(streamCtx, sessionID, req)
	if err != nil {
		cancel()
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		broken := false
		for evt := range events {
			// After a write failure the client is gone. Cancel generation
			// and keep draining so the producer goroutine can finish.
			if broken {
				continue
			}
			if err := writeSSE(w, evt); err != nil {
				broken = true
				cancel()
			}
		}
	})
	return nil
}

func writeSSE(w *bufio.Writer, evt answer.Event) error {
	data, err := json.Marshal(evt.Data)
	if err != nil {
		data = []byte("null")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data); err != nil {
		return err
	}
	return w.Flush()
}

func (c *sessionController) DeleteDocument(ctx *fiber.Ctx) error {
	if err := c.sessionService.RemoveDocument(ctx.Context(), ctx.Params("id"), ctx.Params("docId")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *sessionController) Status(ctx *fiber.Ctx) error {
	res := c.sessionService.Status(ctx.Context(), ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse("Session status", res))
}

func (c *sessionController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Refresh(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session refreshed", res))
}

func (c *sessionController) Health(ctx *fiber.Ctx) error {
	if err := c.sessionService.SessionHealth(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session active", nil))
}
