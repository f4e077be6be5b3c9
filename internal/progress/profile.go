// Package progress tracks per-language learner profiles and daily
// activity counters.
package progress

import "github.com/abhisek/lingua/internal/lang"

// Skill is one of the learner's tracked abilities.
type Skill string

const (
	SkillGrammar      Skill = "grammar"
	SkillVocabulary   Skill = "vocabulary"
	SkillConversation Skill = "conversation"
	SkillReading      Skill = "reading"
	SkillCulture      Skill = "culture"
)

// Skills returns every skill in display order.
func Skills() []Skill {
	return []Skill{SkillGrammar, SkillVocabulary, SkillConversation, SkillReading, SkillCulture}
}

// Valid reports whether s is a tracked skill.
func (s Skill) Valid() bool {
	for _, k := range Skills() {
		if s == k {
			return true
		}
	}
	return false
}

// SkillFor maps a session type to the skill an exchange in it practises.
func SkillFor(t lang.SessionType) Skill {
	switch t {
	case lang.SessionLesson, lang.SessionExercise:
		return SkillGrammar
	case lang.SessionVocabulary:
		return SkillVocabulary
	case lang.SessionCulture:
		return SkillCulture
	case lang.SessionAssessment:
		return SkillReading
	default:
		return SkillConversation
	}
}

// MaxSkill is the ceiling for a skill score.
const MaxSkill = 100

// Profile is the learner's progress in one target language.
type Profile struct {
	ID              string        `json:"id"`
	TargetLanguage  lang.Language `json:"targetLanguage"`
	NativeLanguage  string        `json:"nativeLanguage"`
	CEFRLevel       lang.Level    `json:"cefrLevel"`
	TotalXP         int           `json:"totalXP"`
	Streak          int           `json:"streak"`
	LastActiveDate  string        `json:"lastActiveDate,omitempty"`
	CompletedTopics []string      `json:"completedTopics"`
	SkillScores     map[Skill]int `json:"skillScores"`
}

func (p *Profile) normalize() {
	if p.CompletedTopics == nil {
		p.CompletedTopics = []string{}
	}
	if p.SkillScores == nil {
		p.SkillScores = make(map[Skill]int, len(Skills()))
	}
	for _, s := range Skills() {
		if _, ok := p.SkillScores[s]; !ok {
			p.SkillScores[s] = 0
		}
	}
}

func (p Profile) clone() Profile {
	p.CompletedTopics = append([]string{}, p.CompletedTopics...)
	scores := make(map[Skill]int, len(p.SkillScores))
	for k, v := range p.SkillScores {
		scores[k] = v
	}
	p.SkillScores = scores
	return p
}

// HasTopic reports whether topic has been completed.
func (p Profile) HasTopic(topic string) bool {
	for _, t := range p.CompletedTopics {
		if t == topic {
			return true
		}
	}
	return false
}
