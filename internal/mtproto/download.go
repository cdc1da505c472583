package mtproto

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"github.com/mrmalikoffl/movies-req-bot/internal/util"
)

// DownloadDocument fetches the document attached to a channel message and
// writes it under destDir. This is the delivery path for files above the
// Bot API download limit.
func (c *Client) DownloadDocument(ctx context.Context, channel *tg.InputChannel, messageID int, destDir string) (string, error) {
	item, err := c.messageItem(ctx, channel, messageID)
	if err != nil {
		return "", err
	}
	if item.Document == nil {
		return "", fmt.Errorf("message %d has no document", messageID)
	}

	name := util.SafeBase(item.FileName)
	if name == "file" {
		name = fmt.Sprintf("%d_%d.mkv", channel.ChannelID, messageID)
	}
	dest := filepath.Join(destDir, name)

	loc := &tg.InputDocumentFileLocation{
		ID:            item.Document.ID,
		AccessHash:    item.Document.AccessHash,
		FileReference: item.Document.FileReference,
	}

	d := downloader.NewDownloader()
	if _, err := d.Download(c.api, loc).ToPath(ctx, dest); err != nil {
		return "", fmt.Errorf("download %q: %w", name, err)
	}
	return dest, nil
}

func (c *Client) messageItem(ctx context.Context, channel *tg.InputChannel, messageID int) (HistoryItem, error) {
	res, err := c.api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
		Channel: channel,
		ID:      []tg.InputMessageClass{&tg.InputMessageID{ID: messageID}},
	})
	if err != nil {
		return HistoryItem{}, fmt.Errorf("get message %d: %w", messageID, err)
	}

	for _, mc := range extractMessages(res) {
		if m, ok := mc.(*tg.Message); ok && m.ID == messageID {
			return toHistoryItem(m), nil
		}
	}
	return HistoryItem{}, fmt.Errorf("message %d not found in channel %d", messageID, channel.ChannelID)
}
