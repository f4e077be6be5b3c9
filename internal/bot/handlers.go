package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/lingua/internal/backup"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/markup"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/tutor"
)

const helpText = `Commands:
/lang <en|es|de> - choose the language to learn
/level <A1..C2> - set your CEFR level
/mode <conversation|lesson|exercise|assessment|vocabulary|culture> - choose the session type
/review - practise the words that are due
/stats - show your progress report
/reset - delete all progress
/help - show this message

Anything else you send goes to your tutor.`

const reviewPrompt = "Let's review my words."

// HandleMessage answers one incoming message.
func (b *Bot) HandleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m == nil || m.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}
	chatID := m.Chat.ID
	if _, err := b.sessionType(ctx, chatID); err != nil {
		return err
	}

	if !m.IsCommand() {
		return b.handleText(ctx, chatID, m.Text)
	}
	args := strings.TrimSpace(m.CommandArguments())
	switch m.Command() {
	case "start":
		return b.handleStart(chatID)
	case "help":
		return b.reply(chatID, helpText)
	case "lang":
		return b.handleLang(ctx, chatID, args)
	case "level":
		return b.handleLevel(ctx, chatID, args)
	case "mode":
		return b.handleMode(ctx, chatID, args)
	case "review":
		return b.handleReview(ctx, chatID)
	case "stats":
		return b.reply(chatID, backup.BuildReport(b.learner, b.now()).Text())
	case "reset":
		return b.handleReset(ctx, chatID)
	default:
		return b.reply(chatID, "Unknown command. Send /help for the list.")
	}
}

func (b *Bot) handleStart(chatID int64) error {
	var sb strings.Builder
	sb.WriteString("Welcome to Lingua! I can tutor you in:\n")
	for _, l := range lang.All() {
		info := l.Info()
		fmt.Fprintf(&sb, "  %s - %s (%s) with %s\n", l, info.Name, info.NativeName, info.TutorName)
	}
	if p, err := b.learner.Profiles.ActiveProfile(); err == nil {
		fmt.Fprintf(&sb, "\nYou are learning %s at %s. Just start writing!\n", p.TargetLanguage.Name(), p.CEFRLevel)
	} else {
		sb.WriteString("\nPick a language with /lang, e.g. /lang es\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpText)
	return b.reply(chatID, sb.String())
}

func (b *Bot) handleLang(ctx context.Context, chatID int64, arg string) error {
	l, err := lang.ParseLanguage(arg)
	if err != nil {
		return b.reply(chatID, "Usage: /lang <en|es|de>")
	}
	p, err := b.learner.Profiles.CreateProfile(ctx, l, "")
	if err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("Now learning %s with %s (%s - %s).",
		l.Name(), l.TutorName(), p.CEFRLevel, p.CEFRLevel.Description()))
}

func (b *Bot) handleLevel(ctx context.Context, chatID int64, arg string) error {
	level, err := lang.ParseLevel(arg)
	if err != nil {
		return b.reply(chatID, "Usage: /level <A1|A2|B1|B2|C1|C2>")
	}
	p, err := b.learner.Profiles.ActiveProfile()
	if errors.Is(err, progress.ErrNoProfile) {
		return b.reply(chatID, "Pick a language first with /lang.")
	}
	if err != nil {
		return err
	}
	if _, err := b.learner.Profiles.UpdateLevel(ctx, p.TargetLanguage, level); err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("Level set to %s (%s).", level, level.Description()))
}

func (b *Bot) handleMode(ctx context.Context, chatID int64, arg string) error {
	if arg == "" {
		return b.reply(chatID, "Usage: /mode <conversation|lesson|exercise|assessment|vocabulary|culture>")
	}
	t, err := lang.ParseSessionType(arg)
	if err != nil {
		return b.reply(chatID, "Usage: /mode <conversation|lesson|exercise|assessment|vocabulary|culture>")
	}
	if err := b.setSessionType(ctx, chatID, t); err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("Session type set to %s.", t))
}

func (b *Bot) handleReset(ctx context.Context, chatID int64) error {
	if err := b.learner.Reset(ctx); err != nil {
		return err
	}
	return b.reply(chatID, "All progress deleted. Pick a language with /lang to start again.")
}

func (b *Bot) handleReview(ctx context.Context, chatID int64) error {
	return b.exchange(ctx, chatID, learner.Message{Text: reviewPrompt, SessionType: lang.SessionVocabulary, Review: true})
}

func (b *Bot) handleText(ctx context.Context, chatID int64, text string) error {
	t, err := b.sessionType(ctx, chatID)
	if err != nil {
		return err
	}
	return b.exchange(ctx, chatID, learner.Message{Text: text, SessionType: t})
}

// exchange runs one tutor exchange and sends the plain-text reply.
func (b *Bot) exchange(ctx context.Context, chatID int64, m learner.Message) error {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Printf("chat %d: typing action: %v", chatID, err)
	}

	out, err := b.learner.Send(ctx, m, nil)
	switch {
	case errors.Is(err, progress.ErrNoProfile):
		return b.reply(chatID, "Pick a language first with /lang, e.g. /lang de")
	case errors.Is(err, learner.ErrNothingToReview):
		return b.reply(chatID, "No words are due for review right now.")
	case errors.Is(err, tutor.ErrEmptyMessage):
		return nil
	case err != nil:
		var partial string
		if out != nil {
			partial = markup.Strip(out.Reply)
		}
		if partial != "" {
			partial += "\n\n"
		}
		if rerr := b.reply(chatID, partial+"Sorry, the tutor is unavailable right now. Please try again."); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return b.reply(chatID, summary(out))
}

// summary renders the reply followed by what the exchange changed.
func summary(out *learner.Outcome) string {
	var sb strings.Builder
	sb.WriteString(markup.Strip(out.Reply))

	var notes []string
	if out.WordsAdded > 0 {
		notes = append(notes, fmt.Sprintf("+%d new words saved", out.WordsAdded))
	}
	if out.WordsReviewed > 0 {
		notes = append(notes, fmt.Sprintf("%d words reviewed", out.WordsReviewed))
	}
	for _, topic := range out.TopicsCompleted {
		notes = append(notes, fmt.Sprintf("Lesson complete: %s", topic))
	}
	if lc := out.LevelChange; lc != nil {
		notes = append(notes, fmt.Sprintf("Level: %s -> %s (%s)", lc.From, lc.To, lc.To.Description()))
	}
	for _, a := range out.Unlocked {
		notes = append(notes, fmt.Sprintf("Achievement unlocked: %s", a.Title))
	}
	if len(notes) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(notes, "\n"))
	}
	return sb.String()
}
