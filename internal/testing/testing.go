// Package testing contains shared test doubles and helpers.
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// FakeSource is an in-memory source client.
type FakeSource struct {
	Playlists []models.SourcePlaylist
	Tracks    map[string][]models.Track // playlist id -> tracks
	Err       error                     // when set, every call fails softly
	Calls     []string
}

func (f *FakeSource) ListOwnedPlaylists(ctx context.Context) models.Result[[]models.SourcePlaylist] {
	f.Calls = append(f.Calls, "playlists")
	if f.Err != nil {
		return models.Soft[[]models.SourcePlaylist](nil, f.Err)
	}
	return models.OK(f.Playlists)
}

func (f *FakeSource) ListPlaylistTracks(ctx context.Context, playlistID string) models.Result[[]models.Track] {
	f.Calls = append(f.Calls, "tracks:"+playlistID)
	if f.Err != nil {
		return models.Soft[[]models.Track](nil, f.Err)
	}
	return models.OK(f.Tracks[playlistID])
}

// FakeDestination is an in-memory destination client that charges the real quota table.
//
// Once an operation listed in QuotaOn is attempted it reports quota exhaustion, and every later
// call does too without being recorded in Calls.
type FakeDestination struct {
	Playlists  map[string]string       // name -> id
	Items      map[string][]string     // playlist id -> video ids
	Videos     map[models.Track]string // search results; absent tracks have no match
	FailCreate map[string]bool         // playlist names whose creation fails
	FailAdd    map[string]bool         // video ids whose insertion fails
	QuotaOn    map[string]bool         // "list", "items", "create", "search", "add"
	ListErr    error                   // returned softly by ListPlaylists

	Calls     []string
	cost      int
	nextID    int
	exhausted bool
}

// NewFakeDestination returns an empty destination.
func NewFakeDestination() *FakeDestination {
	return &FakeDestination{
		Playlists:  map[string]string{},
		Items:      map[string][]string{},
		Videos:     map[models.Track]string{},
		FailCreate: map[string]bool{},
		FailAdd:    map[string]bool{},
		QuotaOn:    map[string]bool{},
	}
}

var errFakeQuota = fmt.Errorf("%w: fake", shared.ErrQuotaExceeded)

// call records op and reports whether quota is exhausted.
func (f *FakeDestination) call(op, detail string, cost int) bool {
	if f.exhausted {
		return true
	}
	f.Calls = append(f.Calls, op+":"+detail)
	f.cost += cost
	if f.QuotaOn[op] {
		f.exhausted = true
	}
	return f.exhausted
}

// CallsOf returns the recorded calls of op.
func (f *FakeDestination) CallsOf(op string) []string {
	var out []string
	for _, c := range f.Calls {
		if len(c) > len(op) && c[:len(op)+1] == op+":" {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls and the quota total, keeping playlist state.
func (f *FakeDestination) ResetCalls() {
	f.Calls = nil
	f.cost = 0
	f.exhausted = false
}

func (f *FakeDestination) ListPlaylists(ctx context.Context) models.Result[map[string]string] {
	if f.call("list", "", 1) {
		return models.QuotaExceeded[map[string]string](errFakeQuota)
	}
	index := make(map[string]string, len(f.Playlists))
	for k, v := range f.Playlists {
		index[k] = v
	}
	if f.ListErr != nil {
		return models.Soft(index, f.ListErr)
	}
	return models.OK(index)
}

func (f *FakeDestination) GetPlaylistItems(ctx context.Context, playlistID string) models.Result[[]string] {
	if f.call("items", playlistID, 1) {
		return models.QuotaExceeded[[]string](errFakeQuota)
	}
	return models.OK(append([]string(nil), f.Items[playlistID]...))
}

func (f *FakeDestination) CreatePlaylist(ctx context.Context, name string) models.Result[models.DestinationPlaylist] {
	if f.call("create", name, 50) {
		return models.QuotaExceeded[models.DestinationPlaylist](errFakeQuota)
	}
	if f.FailCreate[name] {
		return models.Soft(models.DestinationPlaylist{}, errors.New("create failed"))
	}
	f.nextID++
	id := fmt.Sprintf("PL%d", f.nextID)
	f.Playlists[name] = id
	return models.OK(models.DestinationPlaylist{ID: id, Name: name})
}

func (f *FakeDestination) ResolveVideoID(ctx context.Context, track models.Track) models.Result[string] {
	if f.call("search", track.SearchQuery("music video"), 100) {
		return models.QuotaExceeded[string](errFakeQuota)
	}
	if id, ok := f.Videos[track]; ok {
		return models.OK(id)
	}
	return models.Soft("", fmt.Errorf("%w: %s", shared.ErrNoMatch, track))
}

func (f *FakeDestination) AddItem(ctx context.Context, playlistID, videoID string) models.Result[string] {
	if f.call("add", playlistID+":"+videoID, 50) {
		return models.QuotaExceeded[string](errFakeQuota)
	}
	if f.FailAdd[videoID] {
		return models.Soft("", errors.New("add failed"))
	}
	f.Items[playlistID] = append(f.Items[playlistID], videoID)
	return models.OK("item-" + videoID)
}

func (f *FakeDestination) QuotaCost() int { return f.cost }

// FakeRecorder collects recorded runs.
type FakeRecorder struct {
	Runs []models.SyncRun
	Err  error
}

func (r *FakeRecorder) Create(run models.SyncRun) error {
	if r.Err != nil {
		return r.Err
	}
	r.Runs = append(r.Runs, run)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

var _ io.Writer = (*FWriter)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
