// Package telegram runs check-ins as a Telegram conversation. Every chat owns
// one flow; choice questions are answered with a reply keyboard.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// Sender is the part of *bot.Bot the conversation needs.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

var _ Sender = (*bot.Bot)(nil)

// Option configures a Bot.
type Option func(*Bot)

// WithStore sets the backend; each chat writes below "chats/<chat id>/".
func WithStore(s store.Store) Option {
	return func(b *Bot) {
		if s != nil {
			b.store = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver receives lifecycle events of every chat flow.
func WithObserver(observer flow.Observer) Option {
	return func(b *Bot) {
		b.observer = observer
	}
}

// WithFlowOptions appends options applied to every chat flow.
func WithFlowOptions(options ...flow.Option) Option {
	return func(b *Bot) {
		b.flowOptions = append(b.flowOptions, options...)
	}
}

type chat struct {
	mu            sync.Mutex
	flow          *flow.Flow
	awaitingExtra bool
}

// Bot holds the conversations of all chats.
type Bot struct {
	questions   []question.Question
	store       store.Store
	logger      *zap.Logger
	observer    flow.Observer
	flowOptions []flow.Option

	mu    sync.Mutex
	chats map[int64]*chat
}

// New validates questions and returns a bot with no active chats.
func New(questions []question.Question, options ...Option) (*Bot, error) {
	if err := question.Validate(questions); err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	b := &Bot{
		questions: question.CloneAll(questions),
		logger:    zap.NewNop(),
		chats:     map[int64]*chat{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.store == nil {
		b.store = store.NewMemory()
	}
	return b, nil
}

// Start connects to Telegram with token and serves updates until ctx ends.
func (b *Bot) Start(ctx context.Context, token string, options ...bot.Option) error {
	options = append([]bot.Option{bot.WithDefaultHandler(b.Handler)}, options...)
	tb, err := bot.New(token, options...)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	b.logger.Info("telegram bot started")
	tb.Start(ctx)
	b.logger.Info("telegram bot stopped")
	return nil
}

// Handler matches bot.HandlerFunc.
func (b *Bot) Handler(ctx context.Context, tb *bot.Bot, update *models.Update) {
	if err := b.HandleUpdate(ctx, tb, update); err != nil {
		b.logger.Error("handle update", zap.Error(err))
	}
}

// HandleUpdate advances the conversation of the update's chat. Updates
// without a message are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, sender Sender, update *models.Update) error {
	if update == nil || update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	// Commands are matched on trimmed text; answers keep the message as sent.
	text := update.Message.Text
	conv := &conversation{bot: b, sender: sender, chatID: chatID}

	switch strings.TrimSpace(text) {
	case CommandStart:
		if _, err := b.begin(chatID); err != nil {
			return err
		}
		return conv.send(ctx, flow.Title+"\n\n"+flow.GreetingPrompt, removeKeyboard())
	case CommandCancel:
		b.drop(chatID)
		return conv.send(ctx, MessageCancelled, removeKeyboard())
	}

	c, ok := b.chat(chatID)
	if !ok {
		return conv.send(ctx, MessageStartHint, nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	conv.chat = c

	switch c.flow.Stage() {
	case flow.StageGreeting:
		return conv.greeting(ctx, text)
	case flow.StageQuestions:
		return conv.answer(ctx, text)
	default:
		return conv.send(ctx, MessageAlreadyDone, removeKeyboard())
	}
}

func (b *Bot) begin(chatID int64) (*chat, error) {
	opts := []flow.Option{
		flow.WithStore(store.WithPrefix(b.store, fmt.Sprintf("chats/%d", chatID))),
		flow.WithLogger(b.logger.With(zap.Int64("chat", chatID))),
	}
	if b.observer != nil {
		opts = append(opts, flow.WithObserver("telegram", b.observer))
	}
	opts = append(opts, b.flowOptions...)
	f, err := flow.New(b.questions, opts...)
	if err != nil {
		return nil, err
	}
	c := &chat{flow: f}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[chatID] = c
	return c, nil
}

func (b *Bot) chat(chatID int64) (*chat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.chats[chatID]
	return c, ok
}

func (b *Bot) drop(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chats, chatID)
}

// conversation handles one update for one chat.
type conversation struct {
	bot    *Bot
	sender Sender
	chatID int64
	chat   *chat
}

func (c *conversation) greeting(ctx context.Context, text string) error {
	f := c.chat.flow
	if err := f.SubmitInitial(ctx, text); err != nil {
		if errors.Is(err, flow.ErrEmptyResponse) {
			return c.send(ctx, render.Message(err), nil)
		}
		return err
	}
	if err := c.send(ctx, flow.QuestionsIntro, nil); err != nil {
		return err
	}
	return c.ask(ctx)
}

func (c *conversation) answer(ctx context.Context, text string) error {
	f := c.chat.flow
	step := render.NewStep(f)
	q := step.Question
	if q == nil {
		return fmt.Errorf("telegram: no current question")
	}

	if c.chat.awaitingExtra {
		extra := text
		if strings.TrimSpace(extra) == CommandSkip {
			extra = ""
		}
		if err := f.RecordExtra(extra); err != nil {
			return err
		}
		c.chat.awaitingExtra = false
		return c.submit(ctx)
	}

	if strings.TrimSpace(text) != "" {
		if err := f.Record(choiceValue(q, text)); err != nil {
			if errors.Is(err, walker.ErrInvalidAnswer) {
				if err := c.send(ctx, render.Message(err), nil); err != nil {
					return err
				}
				return c.ask(ctx)
			}
			return err
		}
	}
	if q.AllowExtra && f.Walker().CanSubmit() {
		c.chat.awaitingExtra = true
		return c.send(ctx, q.ExtraPrompt+"\n"+MessageSkipHint, removeKeyboard())
	}
	return c.submit(ctx)
}

func (c *conversation) submit(ctx context.Context) error {
	f := c.chat.flow
	if _, err := f.Submit(ctx); err != nil {
		if errors.Is(err, walker.ErrNoAnswer) {
			if err := c.send(ctx, render.Message(err), nil); err != nil {
				return err
			}
			return c.ask(ctx)
		}
		return err
	}
	if f.Stage() == flow.StageFinished {
		return c.send(ctx, flow.ThanksTitle+"\n"+flow.ThanksBody, removeKeyboard())
	}
	return c.ask(ctx)
}

// ask sends the current question, with a keyboard for choice questions.
func (c *conversation) ask(ctx context.Context) error {
	step := render.NewStep(c.chat.flow)
	q := step.Question
	if q == nil {
		return nil
	}
	text := fmt.Sprintf("[%s] %s", step.Position(), q.Prompt)
	if len(q.Choices) == 0 {
		return c.send(ctx, text, removeKeyboard())
	}
	row := make([]models.KeyboardButton, 0, len(q.Choices))
	for _, choice := range q.Choices {
		row = append(row, models.KeyboardButton{Text: choice.Label})
	}
	return c.send(ctx, text, &models.ReplyKeyboardMarkup{
		Keyboard:        [][]models.KeyboardButton{row},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	})
}

func (c *conversation) send(ctx context.Context, text string, markup models.ReplyMarkup) error {
	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      c.chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// choiceValue maps a keyboard label ("2 (Regular)") back to its value. Free
// text and unknown labels pass through unchanged.
func choiceValue(q *render.QuestionView, text string) string {
	trimmed := strings.TrimSpace(text)
	for _, choice := range q.Choices {
		if choice.Label == trimmed || choice.Value == trimmed {
			return choice.Value
		}
	}
	return text
}

func removeKeyboard() models.ReplyMarkup {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}
