package storage

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
)

func TestSearchFilter(t *testing.T) {
	tests := []struct {
		name string
		q    catalog.Query
		want bson.M
	}{
		{
			"title only",
			catalog.Query{Title: "the kid"},
			bson.M{"$text": bson.M{"$search": "the kid"}},
		},
		{
			"title and year",
			catalog.Query{Title: "the kid", Year: 1921},
			bson.M{"$text": bson.M{"$search": "the kid"}, "year": 1921},
		},
		{
			"language only",
			catalog.Query{Language: "tamil"},
			bson.M{"language": "tamil"},
		},
		{
			"empty query matches all",
			catalog.Query{},
			bson.M{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchFilter(tt.q); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("searchFilter(%+v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}
