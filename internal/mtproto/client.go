// Package mtproto wraps the gotd MTProto client used for channel history
// scans and for fetching files too large for the Bot API.
package mtproto

import (
	"context"
	"fmt"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/mrmalikoffl/movies-req-bot/internal/config"
	"github.com/mrmalikoffl/movies-req-bot/internal/dialer"
)

// Client keeps a gotd client running in the background, authorized as the
// bot itself (bot-token login, no phone number).
type Client struct {
	client *telegram.Client
	api    *tg.Client
	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}
}

// NewClient connects and authorizes the MTProto session. It blocks until
// the client is usable or the connection fails.
func NewClient(cfg config.MtprotoConfig, botToken string, log *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithCancel(context.Background())

	options := telegram.Options{
		SessionStorage: &telegram.FileSessionStorage{Path: cfg.SessionFile},
		Logger:         log,
	}

	if cfg.Proxy != "" {
		dial, err := dialer.FromURL(cfg.Proxy)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
		}
		options.Resolver = dcs.Plain(dcs.PlainOptions{
			Dial: dial.DialContext,
		})
	}

	client := telegram.NewClient(cfg.APIID, cfg.APIHash, options)

	c := &Client{
		client: client,
		ctx:    ctx,
		cancel: cancel,
		ready:  make(chan struct{}),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- client.Run(ctx, func(ctx context.Context) error {
			c.api = client.API()

			status, err := client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get auth status: %w", err)
			}
			if !status.Authorized {
				if _, err := client.Auth().Bot(ctx, botToken); err != nil {
					return fmt.Errorf("bot authorization failed: %w", err)
				}
			}

			close(c.ready)

			// Keep client running
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-c.ready:
		return c, nil
	case err := <-errChan:
		cancel()
		if err != nil && err != context.Canceled {
			return nil, fmt.Errorf("failed to initialize client: %w", err)
		}
		return nil, fmt.Errorf("client initialization failed")
	}
}

func (c *Client) API() *tg.Client {
	return c.api
}

// Close gracefully shuts down the background client.
func (c *Client) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

// ResolveChannel turns a Bot API chat id (-100xxxxxxxxxx) into an input
// channel with a valid access hash. Bots can fetch channels they are a
// member of directly; the dialog scan is the fallback.
func (c *Client) ResolveChannel(ctx context.Context, chatID int64) (*tg.InputChannel, error) {
	channelID := -(chatID + 1000000000000)
	if channelID <= 0 {
		return nil, fmt.Errorf("chat ID %d is not a channel", chatID)
	}

	chats, err := c.api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
		&tg.InputChannel{ChannelID: channelID},
	})
	if err == nil {
		for _, chat := range chats.GetChats() {
			if ch, ok := chat.(*tg.Channel); ok && ch.ID == channelID {
				return &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
			}
		}
	}

	return c.resolveChannelFromDialogs(ctx, channelID)
}

func (c *Client) resolveChannelFromDialogs(ctx context.Context, channelID int64) (*tg.InputChannel, error) {
	dialogs, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := dialogs.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	}

	for _, chat := range chats {
		if ch, ok := chat.(*tg.Channel); ok && ch.ID == channelID {
			return &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
		}
	}

	return nil, fmt.Errorf("channel %d not found (make sure the bot is an admin of this channel)", channelID)
}
