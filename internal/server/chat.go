package server

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/tutor"
)

const missingFields = "Missing required fields"

type chatRequest struct {
	Message         string       `json:"message"`
	TargetLanguage  string       `json:"targetLanguage"`
	CEFRLevel       string       `json:"cefrLevel"`
	SessionType     string       `json:"sessionType"`
	History         []tutor.Turn `json:"history"`
	KnownWords      []string     `json:"knownWords"`
	ReviewWords     []string     `json:"reviewWords"`
	CompletedTopics []string     `json:"completedTopics"`
	Mode            string       `json:"mode"`
	Scenario        string       `json:"scenario"`
	Topic           string       `json:"topic"`
}

type quizRequest struct {
	TargetLanguage string `json:"targetLanguage"`
	CEFRLevel      string `json:"cefrLevel"`
	Topic          string `json:"topic"`
}

// decode unmarshals the request body. A malformed body is an internal
// error, matching how the web client reports it.
func decode(c *fiber.Ctx, v any) error {
	return json.Unmarshal(c.Body(), v)
}

func parseLanguage(s string) (lang.Language, error) {
	l, err := lang.ParseLanguage(s)
	if err != nil {
		return "", badRequest("Unsupported targetLanguage")
	}
	return l, nil
}

func parseLevel(s string) (lang.Level, error) {
	v, err := lang.ParseLevel(s)
	if err != nil {
		return "", badRequest("Unsupported cefrLevel")
	}
	return v, nil
}

func (s *Server) chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" || req.TargetLanguage == "" || req.CEFRLevel == "" {
		return badRequest(missingFields)
	}

	in := tutor.Input{
		Message:         req.Message,
		History:         req.History,
		KnownWords:      req.KnownWords,
		ReviewWords:     req.ReviewWords,
		CompletedTopics: req.CompletedTopics,
		Scenario:        req.Scenario,
		Topic:           req.Topic,
	}
	var err error
	if in.Language, err = parseLanguage(req.TargetLanguage); err != nil {
		return err
	}
	if in.Level, err = parseLevel(req.CEFRLevel); err != nil {
		return err
	}
	if in.SessionType, err = lang.ParseSessionType(req.SessionType); err != nil {
		return badRequest("Unsupported sessionType")
	}
	if in.Mode, err = prompts.ParseMode(req.Mode); err != nil {
		return badRequest("Unsupported mode")
	}
	return s.streamTutor(c, in)
}

func (s *Server) assess(c *fiber.Ctx) error {
	var req chatRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" || req.TargetLanguage == "" {
		return badRequest(missingFields)
	}

	in := tutor.Input{
		Message:     req.Message,
		History:     req.History,
		SessionType: lang.SessionAssessment,
		Route:       router.RouteAssessment,
	}
	var err error
	if in.Language, err = parseLanguage(req.TargetLanguage); err != nil {
		return err
	}
	if req.CEFRLevel != "" {
		if in.Level, err = parseLevel(req.CEFRLevel); err != nil {
			return err
		}
	}
	return s.streamTutor(c, in)
}

// streamTutor answers with an event stream of reply fragments.
func (s *Server) streamTutor(c *fiber.Ctx, in tutor.Input) error {
	ctx := c.UserContext()
	route := s.tutor.Route(in)
	setStreamHeaders(c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		_, err := s.tutor.Stream(ctx, in, func(chunk string) error {
			return writeFrame(w, Frame{Text: chunk})
		})
		if err != nil {
			s.logger.Printf("%s stream: %v", route, err)
			_ = writeFrame(w, Frame{Error: err.Error()})
			return
		}
		_ = writeDone(w)
	})
	return nil
}

func setStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
}

func (s *Server) quiz(c *fiber.Ctx) error {
	var req quizRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if req.TargetLanguage == "" || req.CEFRLevel == "" || strings.TrimSpace(req.Topic) == "" {
		return badRequest(missingFields)
	}
	l, err := parseLanguage(req.TargetLanguage)
	if err != nil {
		return err
	}
	level, err := parseLevel(req.CEFRLevel)
	if err != nil {
		return err
	}

	quiz, err := s.tutor.Quiz(c.UserContext(), tutor.QuizInput{Language: l, Level: level, Topic: req.Topic})
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// background detaches a stream writer from the request so that state is
// still saved when the client goes away mid-reply.
func background(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
