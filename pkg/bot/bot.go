// Package bot is the Telegram transport: it turns messages and button
// presses into library operations and sends the results back. All matching
// happens in the library's core; this layer only decodes, dispatches and
// formats.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hazyhaar/maktaba/pkg/api"
	"github.com/hazyhaar/maktaba/pkg/kit"
	"github.com/hazyhaar/maktaba/pkg/library"
)

// Config carries the transport settings.
type Config struct {
	Token        string  // Telegram bot token
	Admins       []int64 // user IDs allowed to add and delete books
	SuggestLimit int     // buttons offered on a failed lookup
}

// Bot runs the long-polling loop.
type Bot struct {
	tg        *tgbotapi.BotAPI
	svc       *library.Service
	ep        *api.Endpoints
	logger    *slog.Logger
	callbacks *callbackTable
	client    *http.Client
	suggestN  int
	admins    map[int64]struct{}

	addBook    kit.Endpoint
	removeBook kit.Endpoint
}

type addReq struct {
	scholar, title string
	fileURL        string
}

type removeReq struct {
	scholar, title string
}

// New connects to the Telegram API and wires the admin endpoints.
func New(cfg Config, svc *library.Service, ep *api.Endpoints, logger *slog.Logger) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SuggestLimit <= 0 {
		cfg.SuggestLimit = 5
	}

	b := &Bot{
		tg:        tg,
		svc:       svc,
		ep:        ep,
		logger:    logger,
		callbacks: newCallbackTable(0),
		client:    http.DefaultClient,
		suggestN:  cfg.SuggestLimit,
		admins:    make(map[int64]struct{}, len(cfg.Admins)),
	}
	for _, id := range cfg.Admins {
		b.admins[id] = struct{}{}
	}

	admin := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.AdminOnly(cfg.Admins), kit.Audit(logger, name))(ep)
	}
	b.addBook = admin("add_book", b.addEndpoint())
	b.removeBook = admin("remove_book", b.removeEndpoint())

	logger.Info("telegram bot authorized", "username", tg.Self.UserName)
	return b, nil
}

// Run consumes updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

// addEndpoint downloads the admin's PDF from Telegram and hands it to the
// library, which uploads it and records the catalog row.
func (b *Bot) addEndpoint() kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*addReq)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.fileURL, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch document: %w", err)
		}
		resp, err := b.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("fetch document: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch document: status %d", resp.StatusCode)
		}

		return b.svc.Add(ctx, req.scholar, req.title, resp.Body)
	}
}

func (b *Bot) removeEndpoint() kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*removeReq)
		return b.svc.Remove(ctx, req.scholar, req.title)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.tg.Send(c); err != nil {
		b.logger.Warn("telegram send failed", "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}
