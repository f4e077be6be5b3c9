package backup

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/vocab"
)

// barCells is the width of a skill bar in the text report.
const barCells = 20

// Report summarises the learner's progress across languages.
type Report struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Languages   []LanguageReport `json:"languages"`
	Totals      Totals           `json:"totalStats"`
}

// LanguageReport is one language's section of a Report.
type LanguageReport struct {
	Language        string                 `json:"language"`
	LanguageCode    lang.Language          `json:"languageCode"`
	TutorName       string                 `json:"tutorName"`
	CEFRLevel       lang.Level             `json:"cefrLevel"`
	CEFRDescription string                 `json:"cefrDescription"`
	XP              int                    `json:"xp"`
	Streak          int                    `json:"streak"`
	CompletedTopics []string               `json:"completedTopics"`
	SkillScores     map[progress.Skill]int `json:"skillScores"`
	Vocabulary      vocab.Stats            `json:"vocabulary"`
	Sessions        int                    `json:"sessions"`
	Messages        int                    `json:"messages"`
}

// Totals adds up every language.
type Totals struct {
	TotalXP       int `json:"totalXP"`
	TotalWords    int `json:"totalWords"`
	TotalSessions int `json:"totalSessions"`
	TotalMessages int `json:"totalMessages"`
}

// BuildReport collects a report from the learner's stores. Sessions and
// messages count only sessions held in that language.
func BuildReport(ls *learner.Service, now time.Time) Report {
	r := Report{GeneratedAt: now.UTC(), Languages: []LanguageReport{}}

	sessions := ls.Chat.Sessions()
	for _, p := range ls.Profiles.Profiles() {
		l := p.TargetLanguage
		info := l.Info()
		lr := LanguageReport{
			Language:        info.Name,
			LanguageCode:    l,
			TutorName:       info.TutorName,
			CEFRLevel:       p.CEFRLevel,
			CEFRDescription: p.CEFRLevel.Description(),
			XP:              p.TotalXP,
			Streak:          p.Streak,
			CompletedTopics: p.CompletedTopics,
			SkillScores:     p.SkillScores,
			Vocabulary:      ls.Vocab.Stats(l),
		}
		for _, s := range sessions {
			if s.Language != l || len(s.Messages) == 0 {
				continue
			}
			lr.Sessions++
			lr.Messages += s.UserMessages()
		}

		r.Totals.TotalXP += lr.XP
		r.Totals.TotalWords += lr.Vocabulary.Total
		r.Totals.TotalSessions += lr.Sessions
		r.Totals.TotalMessages += lr.Messages
		r.Languages = append(r.Languages, lr)
	}
	return r
}

// Bar renders a 0..100 score as a fixed-width bar.
func Bar(score int) string {
	filled := max(0, min(barCells, (score+2)/5))
	return strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
}

// Text renders the report for terminals and chat.
func (r Report) Text() string {
	var b strings.Builder

	b.WriteString("=== Lingua Progress Report ===\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.DateOnly))

	for _, l := range r.Languages {
		fmt.Fprintf(&b, "--- %s (%s - %s) ---\n", l.Language, l.CEFRLevel, l.CEFRDescription)
		fmt.Fprintf(&b, "Tutor: %s\n", l.TutorName)
		fmt.Fprintf(&b, "XP: %d  |  Streak: %d days\n", l.XP, l.Streak)
		fmt.Fprintf(&b, "Sessions: %d  |  Messages: %d\n\n", l.Sessions, l.Messages)

		b.WriteString("Skills:\n")
		for _, s := range progress.Skills() {
			score := l.SkillScores[s]
			fmt.Fprintf(&b, "  %-14s %s %d%%\n", s, Bar(score), score)
		}

		b.WriteString("\nVocabulary:\n")
		fmt.Fprintf(&b, "  Total: %d  |  Mastered: %d  |  Learning: %d\n",
			l.Vocabulary.Total, l.Vocabulary.Mastered, l.Vocabulary.Learning)

		if len(l.CompletedTopics) > 0 {
			fmt.Fprintf(&b, "\nCompleted Topics (%d):\n", len(l.CompletedTopics))
			for _, t := range l.CompletedTopics {
				fmt.Fprintf(&b, "  - %s\n", t)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("--- Overall ---\n")
	fmt.Fprintf(&b, "Total XP: %d\n", r.Totals.TotalXP)
	fmt.Fprintf(&b, "Total Words: %d\n", r.Totals.TotalWords)
	fmt.Fprintf(&b, "Total Sessions: %d\n", r.Totals.TotalSessions)
	fmt.Fprintf(&b, "Total Messages: %d", r.Totals.TotalMessages)
	return b.String()
}
