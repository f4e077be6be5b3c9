package server

import (
	"bufio"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/lingua/internal/backup"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/vocab"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": s.version})
}

func langParam(c *fiber.Ctx) (lang.Language, error) {
	return parseLanguage(c.Params("lang"))
}

// Profiles

type profileRequest struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

func (s *Server) listProfiles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"userId":         s.learner.Profiles.UserID(),
		"activeLanguage": s.learner.Profiles.ActiveLanguage(),
		"profiles":       s.learner.Profiles.Profiles(),
	})
}

func (s *Server) createProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if req.Language == "" {
		return badRequest(missingFields)
	}
	l, err := parseLanguage(req.Language)
	if err != nil {
		return err
	}
	var level lang.Level
	if req.Level != "" {
		if level, err = parseLevel(req.Level); err != nil {
			return err
		}
	}
	p, err := s.learner.Profiles.CreateProfile(c.UserContext(), l, level)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	p, err := s.learner.Profiles.Profile(l)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) setActiveLanguage(c *fiber.Ctx) error {
	var req profileRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	l, err := parseLanguage(req.Language)
	if err != nil {
		return err
	}
	if err := s.learner.Profiles.SetActiveLanguage(c.UserContext(), l); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activeLanguage": l})
}

func (s *Server) updateLevel(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	level, err := parseLevel(req.Level)
	if err != nil {
		return err
	}
	from, err := s.learner.Profiles.UpdateLevel(c.UserContext(), l, level)
	if err != nil {
		return err
	}
	return c.JSON(learner.LevelChange{From: from, To: level})
}

func (s *Server) addXP(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	var req struct {
		XP int `json:"xp"`
	}
	if err := decode(c, &req); err != nil {
		return err
	}
	p, err := s.learner.Profiles.AddXP(c.UserContext(), l, req.XP)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Vocabulary

func (s *Server) listVocab(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	return c.JSON(s.learner.Vocab.Entries(l))
}

func (s *Server) addVocab(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	var w vocab.NewWord
	if err := decode(c, &w); err != nil {
		return err
	}
	if strings.TrimSpace(w.Word) == "" || strings.TrimSpace(w.Translation) == "" {
		return badRequest(missingFields)
	}
	e, added, err := s.learner.Vocab.AddWord(c.UserContext(), l, w)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(e)
}

func (s *Server) dueVocab(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	return c.JSON(s.learner.Vocab.WordsForReview(l, c.QueryInt("limit", vocab.DefaultDueLimit)))
}

func (s *Server) vocabStats(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	return c.JSON(s.learner.Vocab.Stats(l))
}

func (s *Server) reviewVocab(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	var req struct {
		Correct *bool `json:"correct"`
	}
	if err := decode(c, &req); err != nil {
		return err
	}
	if req.Correct == nil {
		return badRequest(missingFields)
	}
	e, unlocked, err := s.learner.ReviewWord(c.UserContext(), l, c.Params("id"), *req.Correct)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entry": e, "unlocked": unlocked})
}

func (s *Server) removeVocab(c *fiber.Ctx) error {
	l, err := langParam(c)
	if err != nil {
		return err
	}
	if err := s.learner.Vocab.RemoveWord(c.UserContext(), l, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sessions

func (s *Server) listSessions(c *fiber.Ctx) error {
	return c.JSON(s.learner.Chat.Sessions())
}

func (s *Server) getSession(c *fiber.Ctx) error {
	sess, err := s.learner.Chat.Session(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

func (s *Server) clearSession(c *fiber.Ctx) error {
	if err := s.learner.Chat.ClearSession(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Progress

func (s *Server) listAchievements(c *fiber.Ctx) error {
	return c.JSON(s.learner.Achievements.Statuses(s.learner.Stats()))
}

func (s *Server) stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stats": s.learner.Stats(),
		"today": s.learner.Daily.Today(),
	})
}

func (s *Server) report(c *fiber.Ctx) error {
	r := backup.BuildReport(s.learner, s.now())
	if c.Query("format") == "text" {
		return c.SendString(r.Text())
	}
	return c.JSON(r)
}

// Backup

func (s *Server) exportBackup(c *fiber.Ctx) error {
	d, err := s.backup.Export(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(backup.Filename(s.now()))
	return c.JSON(d)
}

func (s *Server) importBackup(c *fiber.Ctx) error {
	var d backup.Data
	if err := decode(c, &d); err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := s.backup.Import(ctx, &d); err != nil {
		return err
	}
	if err := s.learner.Reload(ctx); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"imported": true})
}

func (s *Server) reset(c *fiber.Ctx) error {
	if err := s.learner.Reset(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Learn

type learnRequest struct {
	Message     string `json:"message"`
	SessionType string `json:"sessionType"`
	Mode        string `json:"mode"`
	Scenario    string `json:"scenario"`
	Topic       string `json:"topic"`
	Route       string `json:"route"`
	Review      bool   `json:"review"`
}

// learn runs an exchange in the active profile's language and streams it.
// The final frame before the done marker carries the exchange outcome.
func (s *Server) learn(c *fiber.Ctx) error {
	var req learnRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(missingFields)
	}
	m := learner.Message{Text: req.Message, Scenario: req.Scenario, Topic: req.Topic, Review: req.Review}
	var err error
	if m.SessionType, err = lang.ParseSessionType(req.SessionType); err != nil {
		return badRequest("Unsupported sessionType")
	}
	if m.Mode, err = prompts.ParseMode(req.Mode); err != nil {
		return badRequest("Unsupported mode")
	}
	if req.Route != "" {
		if m.Route, err = router.ParseRoute(req.Route); err != nil {
			return badRequest("Unsupported route")
		}
	}
	p, err := s.learner.Profiles.ActiveProfile()
	if err != nil {
		return err
	}
	if m.Review && len(s.learner.Vocab.WordsForReview(p.TargetLanguage, 1)) == 0 {
		return learner.ErrNothingToReview
	}

	ctx := background(c.UserContext())
	setStreamHeaders(c)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		out, err := s.learner.Send(ctx, m, func(chunk string) error {
			return writeFrame(w, Frame{Text: chunk})
		})
		if err != nil {
			s.logger.Printf("learn: %v", err)
			_ = writeFrame(w, Frame{Error: err.Error()})
			return
		}
		_ = writeFrame(w, Frame{Route: string(out.Route), Outcome: out})
		_ = writeDone(w)
	})
	return nil
}
