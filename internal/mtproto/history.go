package mtproto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/mrmalikoffl/movies-req-bot/internal/logger"
)

// HistoryItem is one channel message, with its document attributes pulled
// out when the message carries a file.
type HistoryItem struct {
	MessageID int
	Date      time.Time
	Document  *tg.Document
	FileName  string
	MimeType  string
	Size      int64
}

// ErrStopIteration lets a visitor end a history walk early without error.
var ErrStopIteration = errors.New("stop iteration")

type HistoryOptions struct {
	PageSize  int           // messages per request, capped at 100
	MaxTotal  int           // stop after this many messages, 0 = no cap
	PageDelay time.Duration // pause between pages
}

// WalkHistory pages through a channel's history newest-first and calls fn
// for every message. Flood waits reported by Telegram are slept through.
func (c *Client) WalkHistory(ctx context.Context, channel *tg.InputChannel, opts HistoryOptions, fn func(HistoryItem) error) error {
	if opts.PageSize <= 0 || opts.PageSize > 100 {
		opts.PageSize = 100
	}
	peer := &tg.InputPeerChannel{ChannelID: channel.ChannelID, AccessHash: channel.AccessHash}

	offsetID := 0
	seen := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := c.getHistoryPage(ctx, peer, offsetID, opts.PageSize)
		if err != nil {
			return fmt.Errorf("history(channel=%d, offset=%d): %w", channel.ChannelID, offsetID, err)
		}

		msgs := extractMessages(res)
		if len(msgs) == 0 {
			return nil
		}

		// Service messages and holes still carry IDs and must advance the
		// offset, otherwise a page without regular messages ends the walk.
		oldest := 0
		for _, mc := range msgs {
			if id := mc.GetID(); id > 0 && (oldest == 0 || id < oldest) {
				oldest = id
			}

			m, ok := mc.(*tg.Message)
			if !ok {
				continue
			}

			if err := fn(toHistoryItem(m)); err != nil {
				if errors.Is(err, ErrStopIteration) {
					return nil
				}
				return err
			}

			seen++
			if opts.MaxTotal > 0 && seen >= opts.MaxTotal {
				return nil
			}
		}

		if oldest == 0 || oldest == offsetID {
			return nil
		}
		offsetID = oldest

		if opts.PageDelay > 0 {
			select {
			case <-time.After(opts.PageDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (c *Client) getHistoryPage(ctx context.Context, peer tg.InputPeerClass, offsetID, limit int) (tg.MessagesMessagesClass, error) {
	for {
		res, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:     peer,
			OffsetID: offsetID,
			Limit:    limit,
		})
		if err == nil {
			return res, nil
		}
		if wait, ok := tgerr.AsFloodWait(err); ok {
			logger.Warn.Printf("flood wait %s on history page (offset=%d)", wait, offsetID)
			select {
			case <-time.After(wait + time.Second):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return nil, err
	}
}

func extractMessages(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch m := res.(type) {
	case *tg.MessagesMessages:
		return m.Messages
	case *tg.MessagesMessagesSlice:
		return m.Messages
	case *tg.MessagesChannelMessages:
		return m.Messages
	}
	return nil
}

func toHistoryItem(m *tg.Message) HistoryItem {
	item := HistoryItem{
		MessageID: m.ID,
		Date:      time.Unix(int64(m.Date), 0),
	}

	media, ok := m.Media.(*tg.MessageMediaDocument)
	if !ok {
		return item
	}
	doc, ok := media.Document.(*tg.Document)
	if !ok {
		return item
	}

	item.Document = doc
	item.MimeType = doc.MimeType
	item.Size = doc.Size
	for _, attr := range doc.Attributes {
		if fn, ok := attr.(*tg.DocumentAttributeFilename); ok {
			item.FileName = fn.FileName
		}
	}
	return item
}
