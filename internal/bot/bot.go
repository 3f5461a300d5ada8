package bot

import (
	"context"
	"fmt"
	"sync"

	"cherdak-bot/internal/dialog"
	"cherdak-bot/internal/keyboard"
	"cherdak-bot/internal/metrics"
	"cherdak-bot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	queueSize   = 64
	textFailure = "Ошибка при обработке запроса"
)

// Sender delivers outbound messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	Token    string
	Debug    bool
	Workers  int
	SendRate float64
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	machine  *dialog.Machine
	sessions session.Store
	metrics  *metrics.Metrics
	limiter  *rate.Limiter
	logger   *zap.Logger
	workers  int
}

func New(
	opts Options,
	machine *dialog.Machine,
	sessions session.Store,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = opts.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := newBot(botAPI, machine, sessions, m, logger, opts)
	b.api = botAPI
	return b, nil
}

func newBot(
	sender Sender,
	machine *dialog.Machine,
	sessions session.Store,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Bot {
	workers := max(opts.Workers, 1)
	burst := max(int(opts.SendRate), 1)

	return &Bot{
		sender:   sender,
		machine:  machine,
		sessions: sessions,
		metrics:  m,
		limiter:  rate.NewLimiter(rate.Limit(opts.SendRate), burst),
		logger:   logger,
		workers:  workers,
	}
}

// Start long-polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot", zap.Int("workers", b.workers))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	b.serve(ctx, updates)

	b.logger.Info("Shutting down bot")
	return nil
}

// serve fans updates out to workers by chat id. A chat always lands on the
// same worker, so its messages are handled one at a time and in order.
func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	queues := make([]chan *tgbotapi.Message, b.workers)
	var wg sync.WaitGroup

	for i := range queues {
		queues[i] = make(chan *tgbotapi.Message, queueSize)
		wg.Add(1)
		go func(queue <-chan *tgbotapi.Message) {
			defer wg.Done()
			for msg := range queue {
				// a message that was accepted is finished even during shutdown
				b.processMessage(context.WithoutCancel(ctx), msg)
			}
		}(queues[i])
	}

	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}

			queue := queues[shard(update.Message.Chat.ID, len(queues))]
			select {
			case queue <- update.Message:
			case <-ctx.Done():
				return
			}
		}
	}
}

func shard(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	text := msg.Text
	if msg.IsCommand() {
		// "/start@cherdak_bot" and "/start payload" route as "/start"
		if cmd := "/" + msg.Command(); dialog.IsCommand(cmd) {
			text = cmd
		}
	}

	sess, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.metrics.ObserveMessage("unknown", "session_error")
		b.sendError(ctx, chatID, textFailure)
		return
	}

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID),
		zap.String("state", string(sess.State)),
		zap.String("text", text))

	res := b.machine.Step(ctx, sess, dialog.Message{ChatID: chatID, UserID: userID, Text: text})

	if err := session.Persist(ctx, b.sessions, res.Session); err != nil {
		b.logger.Error("Failed to save user state",
			zap.Int64("chat_id", chatID),
			zap.String("state", string(res.Session.State)),
			zap.Error(err))

		// the stored session is stale now; replaying it could repeat the step
		if err := b.sessions.Clear(ctx, chatID); err != nil {
			b.logger.Error("Failed to reset user state",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}

		b.metrics.ObserveMessage(string(sess.State), "session_error")
		b.sendError(ctx, chatID, textFailure)
		return
	}

	b.metrics.ObserveMessage(string(sess.State), string(res.Outcome))

	for _, reply := range res.Replies {
		b.send(ctx, chatID, render(chatID, reply))
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, c tgbotapi.Chattable) {
	if err := b.limiter.Wait(ctx); err != nil {
		b.logger.Warn("Send throttling aborted",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	if _, err := b.sender.Send(c); err != nil {
		b.metrics.ObserveSendError()
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// sendError reports a failure and puts the main keyboard back, since the
// chat is idle afterwards.
func (b *Bot) sendError(ctx context.Context, chatID int64, text string) {
	b.send(ctx, chatID, render(chatID, dialog.Reply{Text: "❌ " + text, Keyboard: keyboard.Main()}))
}
