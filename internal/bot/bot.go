// Package bot is the Bot API front-end: command handlers, conversations,
// inline search and file delivery.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/mrmalikoffl/movies-req-bot/internal/config"
	"github.com/mrmalikoffl/movies-req-bot/internal/dialer"
	"github.com/mrmalikoffl/movies-req-bot/internal/indexer"
	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
	"github.com/mrmalikoffl/movies-req-bot/internal/mtproto"
	"github.com/mrmalikoffl/movies-req-bot/internal/storage"
)

type Bot struct {
	tb       *tele.Bot
	store    *storage.Mongo
	mt       *mtproto.Client
	cfg      *config.Config
	sessions *sessionStore
}

var (
	selector    = &tele.ReplyMarkup{}
	btnDownload = selector.Data("⬇ Download", "download", "")
	btnCancel   = selector.Data("Cancel", "index_cancel", "")
)

func New(cfg *config.Config, store *storage.Mongo, mt *mtproto.Client) (*Bot, error) {
	settings := tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	if cfg.Bot.Proxy != "" {
		client, err := dialer.HTTPClient(cfg.Bot.Proxy)
		if err != nil {
			return nil, fmt.Errorf("failed to create bot proxy client: %w", err)
		}
		settings.Client = client
	}

	tb, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		tb:       tb,
		store:    store,
		mt:       mt,
		cfg:      cfg,
		sessions: newSessionStore(),
	}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/index", b.onIndex)
	b.tb.Handle("/stats", b.onStats)
	b.tb.Handle("/cancel", b.onCancel)

	b.tb.Handle("/setthumbnail", b.onSetThumbnail)
	b.tb.Handle("/setprefix", b.onSetPrefix)
	b.tb.Handle("/setcaption", b.onSetCaption)
	b.tb.Handle("/viewthumbnail", b.onViewThumbnail)
	b.tb.Handle("/viewprefix", b.onViewPrefix)
	b.tb.Handle("/viewcaption", b.onViewCaption)

	b.tb.Handle(tele.OnText, b.onText)
	b.tb.Handle(tele.OnPhoto, b.onPhoto)
	b.tb.Handle(tele.OnDocument, b.onMedia)
	b.tb.Handle(tele.OnVideo, b.onMedia)

	b.tb.Handle(tele.OnQuery, b.onInlineQuery)
	b.tb.Handle(&btnDownload, b.onDownload)
	b.tb.Handle(&btnCancel, b.onIndexCancel)
}

func (b *Bot) Start() {
	logger.Info.Printf("bot started (@%s)", b.tb.Me.Username)
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

// IndexChannel runs the indexing pipeline outside a bot conversation,
// forwarding through dumpChat to obtain file ids. Used by the CLI.
func (b *Bot) IndexChannel(ctx context.Context, channelID, dumpChat int64, mode indexer.Mode, progress indexer.Progress) (indexer.Report, error) {
	resolver := &fileIDResolver{tb: b.tb, dumpChat: dumpChat}
	return indexer.New(b.mt, b.store, resolver, b.cfg.Index).Run(ctx, channelID, mode, progress)
}

// ResolveFileID obtains a Bot API file id for a channel message by
// forwarding it to dumpChat and deleting the copy right away.
type fileIDResolver struct {
	tb       *tele.Bot
	dumpChat int64
}

func (r *fileIDResolver) ResolveFileID(channelID int64, messageID int) (string, error) {
	src := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    channelID,
	}
	forwarded, err := r.tb.Forward(tele.ChatID(r.dumpChat), src)
	if err != nil {
		return "", fmt.Errorf("forward message %d: %w", messageID, err)
	}
	defer func() {
		if err := r.tb.Delete(forwarded); err != nil {
			logger.Warn.Printf("failed to delete forwarded copy %d: %v", forwarded.ID, err)
		}
	}()

	if forwarded.Document == nil {
		return "", fmt.Errorf("forwarded message %d carries no document", messageID)
	}
	return forwarded.Document.FileID, nil
}
