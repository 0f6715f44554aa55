package server

import (
	"replog/app/service/record"
	"replog/app/service/transcript"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type submitRequest struct {
	Text string `json:"text"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply       string            `json:"reply"`
	UpdatedForm map[string]string `json:"updated_form,omitempty"`
}

type stateResponse struct {
	Entries          []transcript.Entry `json:"entries"`
	Record           record.Interaction `json:"record"`
	AwaitingResponse bool               `json:"awaiting_response"`
}

func (s *Service) registerRoutes() {
	api := s.app.Group("/api")
	api.Post("/messages", s.handleSubmit)
	api.Get("/transcript", s.handleTranscript)
	api.Get("/record", s.handleRecord)
	api.Get("/status", s.handleStatus)
	api.Get("/state", s.handleState)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}

		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWS))

	// The builtin engine also speaks the extraction wire contract, so the
	// client can be pointed back at this process.
	if s.extractorSvc != nil {
		s.app.Post("/chat", s.handleChat)
	}
}

func (s *Service) handleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	s.conversationSvc.Submit(c.UserContext(), req.Text)

	return c.JSON(s.snapshot())
}

func (s *Service) handleTranscript(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"entries": s.transcriptSvc.Entries(),
	})
}

func (s *Service) handleRecord(c *fiber.Ctx) error {
	return c.JSON(s.recordSvc.Current())
}

func (s *Service) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"awaiting_response": s.conversationSvc.AwaitingResponse(),
	})
}

func (s *Service) handleState(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.extractorSvc.Extract(c.UserContext(), req.Message)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "extraction failed")
	}

	return c.JSON(chatResponse{
		Reply:       result.Reply,
		UpdatedForm: result.UpdatedForm,
	})
}

func (s *Service) snapshot() stateResponse {
	return stateResponse{
		Entries:          s.transcriptSvc.Entries(),
		Record:           s.recordSvc.Current(),
		AwaitingResponse: s.conversationSvc.AwaitingResponse(),
	}
}
