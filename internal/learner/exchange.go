package learner

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lingua/internal/achievements"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/markup"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/vocab"
)

// LevelChange reports a CEFR level set by a placement result.
type LevelChange struct {
	From lang.Level `json:"from"`
	To   lang.Level `json:"to"`
}

// Outcome summarises what an exchange changed.
type Outcome struct {
	SessionID string       `json:"sessionId,omitempty"`
	Route     router.Route `json:"route,omitempty"`
	Reply     string       `json:"reply,omitempty"`

	XPGained        int                        `json:"xpGained"`
	Skill           progress.Skill             `json:"skill"`
	WordsAdded      int                        `json:"wordsAdded"`
	WordsReviewed   int                        `json:"wordsReviewed"`
	TopicsCompleted []string                   `json:"topicsCompleted,omitempty"`
	LevelChange     *LevelChange               `json:"levelChange,omitempty"`
	Unlocked        []achievements.Achievement `json:"unlocked,omitempty"`
	Markup          markup.Parsed              `json:"markup"`
	Daily           progress.Daily             `json:"daily"`
}

// RecordExchange applies the bookkeeping for a completed exchange in
// language l whose tutor reply was reply.
func (s *Service) RecordExchange(ctx context.Context, l lang.Language, t lang.SessionType, reply string) (*Outcome, error) {
	out := &Outcome{Reply: reply, Skill: progress.SkillFor(t)}

	if err := s.addXP(ctx, l, ExchangeXP, out); err != nil {
		return nil, err
	}
	daily, err := s.Daily.RecordMessage(ctx)
	if err != nil {
		return nil, err
	}
	out.Daily = daily
	if _, err := s.Profiles.UpdateSkill(ctx, l, out.Skill, ExchangeSkillDelta); err != nil {
		return nil, err
	}
	if _, err := s.Profiles.RecordActivity(ctx, l); err != nil {
		return nil, err
	}

	out.Markup = markup.Parse(reply)
	if err := s.harvest(ctx, l, out); err != nil {
		return nil, err
	}

	if out.Unlocked, err = s.unlock(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) addXP(ctx context.Context, l lang.Language, xp int, out *Outcome) error {
	if xp <= 0 {
		return nil
	}
	if _, err := s.Profiles.AddXP(ctx, l, xp); err != nil {
		return err
	}
	out.XPGained += xp
	return nil
}

// harvest applies the effects of the tagged blocks in a reply.
func (s *Service) harvest(ctx context.Context, l lang.Language, out *Outcome) error {
	p := out.Markup

	if len(p.Vocab) > 0 {
		words := make([]vocab.NewWord, 0, len(p.Vocab))
		for _, v := range p.Vocab {
			words = append(words, vocab.NewWord{
				Word:         v.Word,
				Translation:  v.Translation,
				PartOfSpeech: v.PartOfSpeech,
				Example:      v.Example,
			})
		}
		added, err := s.Vocab.AddWords(ctx, l, words)
		if err != nil {
			return err
		}
		out.WordsAdded = added
	}

	for _, r := range p.Reviews {
		for _, w := range r.Mastered {
			if err := s.review(ctx, l, w, true, out); err != nil {
				return err
			}
		}
		for _, w := range r.NeedsWork {
			if err := s.review(ctx, l, w, false, out); err != nil {
				return err
			}
		}
		if err := s.addXP(ctx, l, r.XPEarned, out); err != nil {
			return err
		}
	}

	for _, lc := range p.LessonsComplete {
		added, err := s.Profiles.AddCompletedTopic(ctx, l, lc.Topic)
		if err != nil {
			return err
		}
		if added {
			out.TopicsCompleted = append(out.TopicsCompleted, lc.Topic)
		}
		if err := s.addXP(ctx, l, lc.XPEarned, out); err != nil {
			return err
		}
	}

	for _, pr := range p.Placements {
		level := lang.Level(pr.Level)
		from, err := s.Profiles.UpdateLevel(ctx, l, level)
		if err != nil {
			return err
		}
		out.LevelChange = &LevelChange{From: from, To: level}
		if err := s.addXP(ctx, l, PlacementXP, out); err != nil {
			return err
		}
	}

	for _, q := range p.QuizResults {
		if err := s.addXP(ctx, l, q.XPEarned, out); err != nil {
			return err
		}
	}
	return nil
}

// review applies one review outcome. Words the learner never saved are
// ignored.
func (s *Service) review(ctx context.Context, l lang.Language, word string, correct bool, out *Outcome) error {
	if _, err := s.Vocab.ReviewByWord(ctx, l, word, correct); err != nil {
		if errors.Is(err, vocab.ErrWordNotFound) {
			return nil
		}
		return fmt.Errorf("review %q: %w", word, err)
	}
	daily, err := s.Daily.RecordWordReview(ctx)
	if err != nil {
		return err
	}
	out.Daily = daily
	out.WordsReviewed++
	return nil
}

// Stats aggregates the learner statistics achievements are measured on.
func (s *Service) Stats() achievements.Stats {
	var st achievements.Stats
	for _, p := range s.Profiles.Profiles() {
		st.LanguageCount++
		st.TotalXP += p.TotalXP
		st.Streak = max(st.Streak, p.Streak)
		st.CompletedTopics += len(p.CompletedTopics)
	}
	for _, sess := range s.Chat.Sessions() {
		st.TotalMessages += sess.UserMessages()
		if len(sess.Messages) > 0 {
			st.TotalSessions++
		}
	}
	v := s.Vocab.TotalStats()
	st.TotalVocab = v.Total
	st.MasteredVocab = v.Mastered
	return st
}

// ReviewWord records a manual flashcard review of the word with the given
// id and returns the updated entry with any achievements it unlocked.
func (s *Service) ReviewWord(ctx context.Context, l lang.Language, id string, correct bool) (vocab.Entry, []achievements.Achievement, error) {
	e, err := s.Vocab.ReviewWord(ctx, l, id, correct)
	if err != nil {
		return vocab.Entry{}, nil, err
	}
	if _, err := s.Daily.RecordWordReview(ctx); err != nil {
		return e, nil, err
	}
	unlocked, err := s.unlock(ctx)
	return e, unlocked, err
}

func (s *Service) unlock(ctx context.Context) ([]achievements.Achievement, error) {
	fresh, err := s.Achievements.CheckAndUnlock(ctx, s.Stats())
	if err != nil {
		return nil, err
	}
	var out []achievements.Achievement
	for _, u := range fresh {
		if a, ok := achievements.Lookup(u.AchievementID); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// QuizXPPerAnswer is awarded for each correct quiz answer.
const QuizXPPerAnswer = 10

// RecordQuiz applies the result of a generated quiz taken in language l.
func (s *Service) RecordQuiz(ctx context.Context, l lang.Language, correct, total int) (*Outcome, error) {
	if correct < 0 || correct > total {
		return nil, fmt.Errorf("quiz score %d/%d out of range", correct, total)
	}
	out := &Outcome{Skill: progress.SkillFor(lang.SessionExercise)}
	if err := s.addXP(ctx, l, correct*QuizXPPerAnswer, out); err != nil {
		return nil, err
	}
	if _, err := s.Profiles.UpdateSkill(ctx, l, out.Skill, correct*ExchangeSkillDelta); err != nil {
		return nil, err
	}
	if _, err := s.Profiles.RecordActivity(ctx, l); err != nil {
		return nil, err
	}
	out.Daily = s.Daily.Today()

	var err error
	if out.Unlocked, err = s.unlock(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
