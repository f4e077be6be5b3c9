// Package bot is the Telegram front end. Every chat that talks to the bot
// shares the single local learner.
package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/store"
)

// StateKey is the state entry the known chats are persisted under.
const StateKey = "lingua-bot-chats"

// maxMessageLen is Telegram's limit on a single text message.
const maxMessageLen = 4096

// Sender is the part of the Telegram API the bot writes with.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UpdateSource delivers incoming updates by long polling.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Connect authorizes against the Telegram API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

type chatState struct {
	Chats map[int64]lang.SessionType `json:"chats"`
}

// Options configures a Bot.
type Options struct {
	Learner *learner.Service
	Repo    store.StateRepo
	Logger  *log.Logger

	// Timeout is the long-poll timeout in seconds.
	Timeout int
}

// Bot answers Telegram messages with the tutor.
type Bot struct {
	api     Sender
	learner *learner.Service
	repo    store.StateRepo
	logger  *log.Logger
	timeout int
	now     func() time.Time

	mu sync.Mutex
	st chatState
}

// New creates a bot writing through api and loads the known chats.
func New(ctx context.Context, api Sender, opts Options) (*Bot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	b := &Bot{
		api:     api,
		learner: opts.Learner,
		repo:    opts.Repo,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
		st:      chatState{Chats: make(map[int64]lang.SessionType)},
	}
	if _, err := store.LoadJSON(ctx, b.repo, StateKey, &b.st); err != nil {
		return nil, fmt.Errorf("load bot chats: %w", err)
	}
	if b.st.Chats == nil {
		b.st.Chats = make(map[int64]lang.SessionType)
	}
	return b, nil
}

// Run polls for updates until ctx is cancelled. Updates are handled one
// at a time since they share one learner.
func (b *Bot) Run(ctx context.Context, src UpdateSource) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.timeout
	updates := src.GetUpdatesChan(cfg)
	b.logger.Printf("telegram bot polling for updates")

	for {
		select {
		case <-ctx.Done():
			src.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if err := b.HandleMessage(ctx, update.Message); err != nil {
				b.logger.Printf("chat %d: %v", update.Message.Chat.ID, err)
			}
		}
	}
}

// Chats returns the ids of every chat that has talked to the bot.
func (b *Bot) Chats() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.st.Chats))
	for id := range b.st.Chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// sessionType returns the chat's mode, remembering the chat on first
// contact.
func (b *Bot) sessionType(ctx context.Context, chatID int64) (lang.SessionType, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.st.Chats[chatID]; ok {
		return t, nil
	}
	b.st.Chats[chatID] = lang.SessionConversation
	return lang.SessionConversation, b.persist(ctx)
}

func (b *Bot) setSessionType(ctx context.Context, chatID int64, t lang.SessionType) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.st.Chats[chatID] = t
	return b.persist(ctx)
}

func (b *Bot) persist(ctx context.Context) error {
	if err := store.SaveJSON(ctx, b.repo, StateKey, b.st, 0); err != nil {
		return fmt.Errorf("save bot chats: %w", err)
	}
	return nil
}

// NotifyDue tells every known chat that words are due for review.
func (b *Bot) NotifyDue(_ context.Context, l lang.Language, count int) error {
	word := "words"
	if count == 1 {
		word = "word"
	}
	text := fmt.Sprintf("You have %d %s %s due for review. Send /review to practice with %s.",
		count, l.Name(), word, l.TutorName())

	var firstErr error
	for _, id := range b.Chats() {
		if err := b.reply(id, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// reply sends text, split to fit Telegram's message limit.
func (b *Bot) reply(chatID int64, text string) error {
	for _, part := range split(text, maxMessageLen) {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return fmt.Errorf("send to %d: %w", chatID, err)
		}
	}
	return nil
}

// split cuts text into pieces of at most n runes, preferring line breaks.
func split(text string, n int) []string {
	var parts []string
	for utf8.RuneCountInString(text) > n {
		runes := []rune(text)
		cut := n
		for i := n - 1; i > n/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		text = string(runes[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
