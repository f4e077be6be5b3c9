// Package markup extracts the tagged blocks and inline correction markers
// that tutor replies embed in their text.
package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/lingua/internal/llm"
)

// Block is one raw tagged block.
type Block struct {
	Kind  Kind
	Body  string
	Start int
	End   int
}

var blockPatterns = func() map[Kind]*regexp.Regexp {
	out := make(map[Kind]*regexp.Regexp, len(Kinds()))
	for _, k := range Kinds() {
		q := regexp.QuoteMeta(string(k))
		out[k] = regexp.MustCompile(`(?s)\[` + q + `\](.*?)\[/` + q + `\]`)
	}
	return out
}()

var (
	inlinePattern = regexp.MustCompile(`\[(CORRECTION|GRAMMAR):\s*"([^"]*)"\s*(?:→|->)\s*"([^"]*)"\s*\|\s*(?:Explanation|Rule):\s*([^\]]*)\]`)
	fencePattern  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// Blocks returns every tagged block in text, ordered by position.
func Blocks(text string) []Block {
	var out []Block
	for kind, re := range blockPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			out = append(out, Block{
				Kind:  kind,
				Body:  strings.TrimSpace(text[m[2]:m[3]]),
				Start: m[0],
				End:   m[1],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Corrections returns the inline correction and grammar markers in text.
func Corrections(text string) []Correction {
	var out []Correction
	for _, m := range inlinePattern.FindAllStringSubmatch(text, -1) {
		out = append(out, Correction{
			Grammar:     m[1] == "GRAMMAR",
			Wrong:       m[2],
			Right:       m[3],
			Explanation: strings.TrimSpace(m[4]),
		})
	}
	return out
}

// Parse extracts and validates every block in text. Blocks that are not
// valid JSON or fail their schema are counted in Skipped.
func Parse(text string) Parsed {
	var p Parsed
	for _, b := range Blocks(text) {
		if err := p.add(b); err != nil {
			p.Skipped++
		}
	}
	p.Corrections = Corrections(text)
	return p
}

func (p *Parsed) add(b Block) error {
	body := unfence(b.Body)

	// A block may hold a single object or an array of them.
	var items []json.RawMessage
	if bytes.HasPrefix(body, []byte("[")) {
		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("%s block: %w", b.Kind, err)
		}
	} else {
		items = []json.RawMessage{body}
	}

	for _, raw := range items {
		if err := llm.ValidateJSON(schemas[b.Kind], raw); err != nil {
			return fmt.Errorf("%s block: %w", b.Kind, err)
		}
	}

	// Decode into a scratch value so a bad item drops the whole block.
	var staged Parsed
	for _, raw := range items {
		var err error
		switch b.Kind {
		case KindVocab:
			staged.Vocab, err = appendDecoded(staged.Vocab, raw)
		case KindExercise:
			staged.Exercises, err = appendDecoded(staged.Exercises, raw)
		case KindReviewResult:
			staged.Reviews, err = appendDecoded(staged.Reviews, raw)
		case KindPlacementResult:
			staged.Placements, err = appendDecoded(staged.Placements, raw)
		case KindLessonPlan:
			staged.LessonPlans, err = appendDecoded(staged.LessonPlans, raw)
		case KindLessonComplete:
			staged.LessonsComplete, err = appendDecoded(staged.LessonsComplete, raw)
		case KindQuizResult:
			staged.QuizResults, err = appendDecoded(staged.QuizResults, raw)
		case KindIdiom:
			staged.Idioms, err = appendDecoded(staged.Idioms, raw)
		}
		if err != nil {
			return fmt.Errorf("%s block: %w", b.Kind, err)
		}
	}

	p.Vocab = append(p.Vocab, staged.Vocab...)
	p.Exercises = append(p.Exercises, staged.Exercises...)
	p.Reviews = append(p.Reviews, staged.Reviews...)
	p.Placements = append(p.Placements, staged.Placements...)
	p.LessonPlans = append(p.LessonPlans, staged.LessonPlans...)
	p.LessonsComplete = append(p.LessonsComplete, staged.LessonsComplete...)
	p.QuizResults = append(p.QuizResults, staged.QuizResults...)
	p.Idioms = append(p.Idioms, staged.Idioms...)
	return nil
}

func appendDecoded[T any](list []T, raw json.RawMessage) ([]T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return list, err
	}
	return append(list, v), nil
}

func unfence(body string) json.RawMessage {
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}
	return json.RawMessage(strings.TrimSpace(body))
}

// Strip removes tagged blocks and rewrites inline markers as plain text,
// for front ends that cannot render markup.
func Strip(text string) string {
	return clean(replaceBlocks(text, func(Block) string { return "" }))
}

// Render is like Strip but keeps vocabulary and idiom blocks as short
// bullet lines.
func Render(text string) string {
	return clean(replaceBlocks(text, func(b Block) string {
		var parsed Parsed
		if err := parsed.add(b); err != nil {
			return ""
		}
		var lines []string
		for _, v := range parsed.Vocab {
			line := fmt.Sprintf("• %s: %s", v.Word, v.Translation)
			if v.Example != "" {
				line += fmt.Sprintf(" (%s)", v.Example)
			}
			lines = append(lines, line)
		}
		for _, i := range parsed.Idioms {
			lines = append(lines, fmt.Sprintf("• %s: %s", i.Expression, i.Meaning))
		}
		return strings.Join(lines, "\n")
	}))
}

func replaceBlocks(text string, repl func(Block) string) string {
	var b strings.Builder
	last := 0
	for _, blk := range Blocks(text) {
		if blk.Start < last {
			continue // nested inside a previous block
		}
		b.WriteString(text[last:blk.Start])
		b.WriteString(repl(blk))
		last = blk.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func clean(text string) string {
	text = inlinePattern.ReplaceAllStringFunc(text, func(s string) string {
		m := inlinePattern.FindStringSubmatch(s)
		return fmt.Sprintf("%q → %q (%s)", m[2], m[3], strings.TrimSpace(m[4]))
	})
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
