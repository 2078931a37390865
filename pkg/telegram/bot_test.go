package telegram_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/metrics"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/telegram"
)

const chatID int64 = 42

type recorder struct {
	sent []*bot.SendMessageParams
	err  error
}

func (r *recorder) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.sent = append(r.sent, params)
	return &models.Message{ID: len(r.sent)}, nil
}

func (r *recorder) last(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

func message(text string) *models.Update {
	return &models.Update{Message: &models.Message{Chat: models.Chat{ID: chatID}, Text: text}}
}

func newBot(t *testing.T, opts ...telegram.Option) (*telegram.Bot, *store.Memory, *recorder) {
	t.Helper()
	mem := store.NewMemory()
	b, err := telegram.New(question.Default(), append([]telegram.Option{telegram.WithStore(mem)}, opts...)...)
	require.NoError(t, err)
	return b, mem, &recorder{}
}

func say(t *testing.T, b *telegram.Bot, r *recorder, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, b.HandleUpdate(context.Background(), r, message(text)), text)
	}
}

func TestCheckIn_Complete(t *testing.T) {
	m := metrics.New()
	b, mem, r := newBot(t, telegram.WithObserver(m))

	say(t, b, r, "/start")
	assert.Contains(t, r.last(t).Text, flow.GreetingPrompt)
	assert.Equal(t, chatID, r.last(t).ChatID)

	say(t, b, r, "Un día largo")
	mood := r.last(t)
	assert.Equal(t, "[1/3] ¿Cómo te sientes hoy?", mood.Text)
	keyboard, ok := mood.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok, "expected a reply keyboard, got %T", mood.ReplyMarkup)
	require.Len(t, keyboard.Keyboard, 1)
	assert.Len(t, keyboard.Keyboard[0], 5)
	assert.Equal(t, "😊", keyboard.Keyboard[0][0].Text)

	say(t, b, r, "😔")
	sleep := r.last(t)
	assert.Equal(t, "[2/3] ¿Cómo dormiste hoy?", sleep.Text)
	keyboard = sleep.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	assert.Equal(t, "1 (Mal)", keyboard.Keyboard[0][0].Text)

	say(t, b, r, "1 (Mal)")
	assert.Contains(t, r.last(t).Text, flow.ExtraPrompt)
	assert.Contains(t, r.last(t).Text, telegram.MessageSkipHint)

	say(t, b, r, "dormí poco")
	assert.Equal(t, "[3/3] ¿Qué fue lo más relevante de tu día?", r.last(t).Text)
	_, removed := r.last(t).ReplyMarkup.(*models.ReplyKeyboardRemove)
	assert.True(t, removed)

	say(t, b, r, "fin")
	assert.Contains(t, r.last(t).Text, flow.ThanksTitle)

	blob, err := mem.Get(context.Background(), "chats/42/dynamicFormData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"😔","sleep":1,"sleep_extra":"dormí poco","notes":"fin"}`, string(blob))
	initial, err := flow.LoadInitial(context.Background(), store.WithPrefix(mem, "chats/42"), "")
	require.NoError(t, err)
	assert.Equal(t, "Un día largo", initial.DayMood)

	assert.Equal(t, 3.0, sumAnswered(m))

	say(t, b, r, "otra cosa")
	assert.Equal(t, telegram.MessageAlreadyDone, r.last(t).Text)
}

func sumAnswered(m *metrics.Metrics) float64 {
	var total float64
	for _, id := range []string{"mood", "sleep", "notes"} {
		total += testutil.ToFloat64(m.AnsweredTotal.WithLabelValues("telegram", id))
	}
	return total
}

func TestCheckIn_SkipExtraAndRetries(t *testing.T) {
	b, mem, r := newBot(t)

	say(t, b, r, "/start", "  ")
	assert.Equal(t, render.MessageEmptyResponse, r.last(t).Text)

	say(t, b, r, "bien", "🤖")
	assert.Equal(t, "[1/3] ¿Cómo te sientes hoy?", r.last(t).Text)
	assert.Equal(t, render.MessageInvalidAnswer, r.sent[len(r.sent)-2].Text)

	say(t, b, r, "😊", "3", telegram.CommandSkip)
	assert.Equal(t, "[3/3] ¿Qué fue lo más relevante de tu día?", r.last(t).Text)

	say(t, b, r, "")
	assert.Equal(t, render.MessageNoAnswer, r.sent[len(r.sent)-2].Text)

	say(t, b, r, "todo bien")
	blob, err := mem.Get(context.Background(), "chats/42/dynamicFormData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"😊","sleep":3,"notes":"todo bien"}`, string(blob))
}

func TestWithoutStartAndCancel(t *testing.T) {
	b, mem, r := newBot(t)

	say(t, b, r, "hola")
	assert.Equal(t, telegram.MessageStartHint, r.last(t).Text)

	say(t, b, r, "/start", "bien", telegram.CommandCancel)
	assert.Equal(t, telegram.MessageCancelled, r.last(t).Text)

	say(t, b, r, "😊")
	assert.Equal(t, telegram.MessageStartHint, r.last(t).Text)
	_, err := mem.Get(context.Background(), "chats/42/dynamicFormData")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIgnoresUpdatesWithoutMessage(t *testing.T) {
	b, _, r := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), r, &models.Update{}))
	require.NoError(t, b.HandleUpdate(context.Background(), r, nil))
	assert.Empty(t, r.sent)
}

func TestSendFailureIsReturned(t *testing.T) {
	b, _, r := newBot(t)
	r.err = errors.New("network down")
	err := b.HandleUpdate(context.Background(), r, message("/start"))
	assert.ErrorContains(t, err, "network down")
}

func TestCheckIn_TextKeptVerbatim(t *testing.T) {
	b, mem, r := newBot(t)

	say(t, b, r, "  /start ", "  Un día largo\n", " 😊 ", " 2 (Regular)", "  con siesta  ", "  fin\n")
	assert.Contains(t, r.last(t).Text, flow.ThanksTitle)

	blob, err := mem.Get(context.Background(), "chats/42/dynamicFormData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"😊","sleep":2,"sleep_extra":"  con siesta  ","notes":"  fin\n"}`, string(blob))
	initial, err := flow.LoadInitial(context.Background(), store.WithPrefix(mem, "chats/42"), "")
	require.NoError(t, err)
	assert.Equal(t, "  Un día largo\n", initial.DayMood)
}
