package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestQuotaMeter(t *testing.T) {
	m := NewQuotaMeter(120, nil)
	m.Charge("search.list", CostSearch)
	m.Charge("playlists.list", CostPlaylistsList)
	assert.Equal(t, 101, m.Used())
	assert.Equal(t, 19, m.Remaining())

	m.Charge("playlistItems.insert", CostPlaylistItemsAdd)
	assert.Equal(t, 151, m.Used())
	assert.Equal(t, 0, m.Remaining())

	assert.Equal(t, -1, NewQuotaMeter(0, nil).Remaining())
}

func TestIsQuotaExceeded(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("quotaExceeded"), false},
		{"reason", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}, true},
		{"daily limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "dailyLimitExceeded"}}}, true},
		{"marker in body", &googleapi.Error{Code: 403, Body: `{"reason":"quotaExceeded"}`}, true},
		{"wrapped", fmt.Errorf("call: %w", &googleapi.Error{Code: 403, Message: "quotaExceeded"}), true},
		{"other 403", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}}, false},
		{"wrong status", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}, false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaExceeded(tt.err))
		})
	}
}
