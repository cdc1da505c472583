// Package catalog defines the indexed movie records and the filename and
// query conventions used to produce them.
package catalog

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is one catalog record: an indexed movie file living in a Telegram
// channel, addressable both by Bot API file id and by its source message.
type Movie struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Year      int                `bson:"year"`
	Quality   string             `bson:"quality"`
	Language  string             `bson:"language,omitempty"`
	FileSize  string             `bson:"file_size"`
	FileID    string             `bson:"file_id"`
	MessageID int                `bson:"message_id"`
	ChannelID int64              `bson:"channel_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Caption renders the delivery caption line, e.g. "The Kid (1921, 720p, 700.00MB)".
func (m *Movie) Caption() string {
	return fmt.Sprintf("%s (%d, %s, %s)", m.Title, m.Year, m.Quality, m.FileSize)
}

// Label renders the short result title, e.g. "The Kid (1921)".
func (m *Movie) Label() string {
	return fmt.Sprintf("%s (%d)", m.Title, m.Year)
}

// FileName builds the delivered document name with an optional user prefix.
func (m *Movie) FileName(prefix string) string {
	return fmt.Sprintf("%s%s_%s.mkv", prefix, m.Title, m.Quality)
}

// UserSettings is a per-user preference record applied on delivery.
type UserSettings struct {
	ChatID          int64  `bson:"chat_id"`
	ThumbnailFileID string `bson:"thumbnail_file_id,omitempty"`
	Prefix          string `bson:"prefix,omitempty"`
	Caption         string `bson:"caption,omitempty"`
}

// DefaultCaption is used when a user never set one.
const DefaultCaption = "Enjoy the movie!"
