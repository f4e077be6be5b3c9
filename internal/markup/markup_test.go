package markup

import (
	"strings"
	"testing"
)

const lessonReply = `¡Muy bien! Aquí tienes palabras nuevas:

[VOCAB]
{
  "word": "manzana",
  "translation": "apple",
  "partOfSpeech": "noun",
  "example": "Como una manzana.",
  "context": "everyday"
}
[/VOCAB]

[VOCAB]
{"word": "pera", "translation": "pear"}
[/VOCAB]

Dijiste [CORRECTION: "yo es" → "yo soy" | Explanation: ser conjugates to soy in first person] y eso está bien.

[LESSON COMPLETE]
{"topic": "Food and drink", "xpEarned": 30, "vocabularyLearned": ["manzana"], "performance": "good"}
[/LESSON COMPLETE]

¡Hasta luego!`

func TestParse_ExtractsBlocks(t *testing.T) {
	p := Parse(lessonReply)

	if len(p.Vocab) != 2 {
		t.Fatalf("expected 2 vocab items, got %d", len(p.Vocab))
	}
	if p.Vocab[0].Word != "manzana" || p.Vocab[0].PartOfSpeech != "noun" {
		t.Errorf("first vocab = %+v", p.Vocab[0])
	}
	if p.Vocab[1].Word != "pera" {
		t.Errorf("second vocab = %+v", p.Vocab[1])
	}
	if len(p.LessonsComplete) != 1 || p.LessonsComplete[0].XPEarned != 30 {
		t.Errorf("lesson complete = %+v", p.LessonsComplete)
	}
	if len(p.Corrections) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(p.Corrections))
	}
	c := p.Corrections[0]
	if c.Grammar || c.Wrong != "yo es" || c.Right != "yo soy" {
		t.Errorf("correction = %+v", c)
	}
	if p.Skipped != 0 {
		t.Errorf("skipped = %d", p.Skipped)
	}
}

func TestParse_SkipsInvalidBlocks(t *testing.T) {
	text := `[VOCAB]{"word": "Hund"}[/VOCAB]
[VOCAB]not json[/VOCAB]
[PLACEMENT RESULT]{"level": "Z9", "score": 40}[/PLACEMENT RESULT]
[PLACEMENT RESULT]{"level": "B1", "score": 64, "strengths": ["listening"]}[/PLACEMENT RESULT]`

	p := Parse(text)
	if len(p.Vocab) != 0 {
		t.Errorf("vocab without translation should be skipped: %+v", p.Vocab)
	}
	if len(p.Placements) != 1 || p.Placements[0].Level != "B1" {
		t.Errorf("placements = %+v", p.Placements)
	}
	if p.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", p.Skipped)
	}
}

func TestParse_ReviewAndQuizResults(t *testing.T) {
	text := "Great work!\n[REVIEW RESULT]\n```json\n" +
		`{"reviewed": ["der Hund", "die Katze"], "mastered": ["der Hund"], "needsWork": ["die Katze"], "xpEarned": 2}` +
		"\n```\n[/REVIEW RESULT]\n" +
		`[QUIZ RESULT]{"score": 4, "maxScore": 5, "xpEarned": 40, "feedback": "Sehr gut"}[/QUIZ RESULT]`

	p := Parse(text)
	if len(p.Reviews) != 1 {
		t.Fatalf("expected review result, skipped=%d", p.Skipped)
	}
	r := p.Reviews[0]
	if len(r.Mastered) != 1 || r.NeedsWork[0] != "die Katze" || r.XPEarned != 2 {
		t.Errorf("review = %+v", r)
	}
	if len(p.QuizResults) != 1 || p.QuizResults[0].XPEarned != 40 {
		t.Errorf("quiz = %+v", p.QuizResults)
	}
}

func TestParse_VocabArray(t *testing.T) {
	text := `[VOCAB][{"word": "uno", "translation": "one"}, {"word": "dos", "translation": "two"}][/VOCAB]`
	p := Parse(text)
	if len(p.Vocab) != 2 || p.Vocab[1].Word != "dos" {
		t.Errorf("vocab = %+v", p.Vocab)
	}
}

func TestParse_VocabArrayWithBadItemIsSkippedWhole(t *testing.T) {
	text := `[VOCAB][{"word": "uno", "translation": "one"}, {"word": "dos"}][/VOCAB]
[VOCAB]{"word": "tres", "translation": "three"}[/VOCAB]`
	p := Parse(text)
	if len(p.Vocab) != 1 || p.Vocab[0].Word != "tres" {
		t.Errorf("vocab = %+v", p.Vocab)
	}
	if p.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", p.Skipped)
	}
}

func TestParse_GrammarMarkerAndIdiom(t *testing.T) {
	text := `[GRAMMAR: "ich habe gegangen" → "ich bin gegangen" | Rule: motion verbs take sein]
[IDIOM]{"expression": "Tomaten auf den Augen haben", "literal": "to have tomatoes on the eyes", "meaning": "to not see something obvious"}[/IDIOM]
[LESSON PLAN]{"title": "At the Bäckerei", "topic": "Food and drink", "objectives": ["order bread"]}[/LESSON PLAN]
[EXERCISE]{"type": "fill-blank", "instruction": "Fill in", "question": "Ich ___ müde.", "correct": "bin"}[/EXERCISE]`

	p := Parse(text)
	if len(p.Corrections) != 1 || !p.Corrections[0].Grammar || p.Corrections[0].Explanation != "motion verbs take sein" {
		t.Errorf("corrections = %+v", p.Corrections)
	}
	if len(p.Idioms) != 1 || p.Idioms[0].Literal == "" {
		t.Errorf("idioms = %+v", p.Idioms)
	}
	if len(p.LessonPlans) != 1 || p.LessonPlans[0].Title != "At the Bäckerei" {
		t.Errorf("lesson plans = %+v", p.LessonPlans)
	}
	if len(p.Exercises) != 1 || p.Exercises[0].Correct != "bin" {
		t.Errorf("exercises = %+v", p.Exercises)
	}
	if p.Empty() {
		t.Error("expected non-empty result")
	}
}

func TestBlocks_Ordered(t *testing.T) {
	text := `[IDIOM]{}[/IDIOM] middle [VOCAB]{}[/VOCAB] end [IDIOM]{}[/IDIOM]`
	blocks := Blocks(text)
	want := []Kind{KindIdiom, KindVocab, KindIdiom}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != want[i] {
			t.Errorf("block %d kind = %s, want %s", i, b.Kind, want[i])
		}
	}
}

func TestStrip(t *testing.T) {
	got := Strip(lessonReply)

	for _, tag := range []string{"[VOCAB]", "[/VOCAB]", "[LESSON COMPLETE]", "[CORRECTION:"} {
		if strings.Contains(got, tag) {
			t.Errorf("stripped text still contains %s", tag)
		}
	}
	if !strings.HasPrefix(got, "¡Muy bien!") || !strings.HasSuffix(got, "¡Hasta luego!") {
		t.Errorf("unexpected stripped text:\n%s", got)
	}
	if !strings.Contains(got, `"yo es" → "yo soy" (ser conjugates to soy in first person)`) {
		t.Errorf("correction not rendered:\n%s", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Error("blank lines not collapsed")
	}
}

func TestRender_KeepsVocabLines(t *testing.T) {
	got := Render(lessonReply)
	if !strings.Contains(got, "• manzana: apple (Como una manzana.)") {
		t.Errorf("missing vocab line:\n%s", got)
	}
	if !strings.Contains(got, "• pera: pear") {
		t.Errorf("missing second vocab line:\n%s", got)
	}
	if strings.Contains(got, "Food and drink") {
		t.Error("lesson complete block should be removed")
	}
}

func TestParse_PlainText(t *testing.T) {
	p := Parse("Hallo! Wie geht's?")
	if !p.Empty() || p.Skipped != 0 {
		t.Errorf("expected nothing, got %+v", p)
	}
}
