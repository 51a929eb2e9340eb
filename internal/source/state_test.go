package source

import (
	"testing"

	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(kind Kind, titles ...string) Outcome {
	out := Outcome{Kind: kind, Offline: kind != Remote, ResolvedAt: t0}
	for _, title := range titles {
		out.Headlines = append(out.Headlines, news.Headline{Title: title, URL: "#"})
	}
	return out
}

func TestStateSwitchClearsAndApplies(t *testing.T) {
	s := NewState(news.News, KeepLast)

	tk, err := s.Switch(news.News)
	require.NoError(t, err)
	assert.True(t, s.Loading())
	require.True(t, s.Apply(tk, outcome(Remote, "a", "b")))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Offline)
	assert.Equal(t, Remote, snap.LastKind)
	assert.Len(t, snap.Headlines, 2)

	tk, err = s.Switch(news.Sports)
	require.NoError(t, err)
	snap = s.Snapshot()
	assert.Equal(t, news.Sports, snap.Service)
	assert.Empty(t, snap.Headlines, "old list must not be shown mid-switch")
	assert.Equal(t, news.Sports, tk.Service)
}

func TestStateSwitchRejectedWhileLoading(t *testing.T) {
	s := NewState(news.News, KeepLast)

	tk, err := s.Switch(news.Local)
	require.NoError(t, err)

	_, err = s.Switch(news.Sports)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, news.Local, s.Service())

	s.Apply(tk, outcome(Fallback, "x"))
	_, err = s.Switch(news.Sports)
	assert.NoError(t, err)
}

func TestStateStaleTicketDropped(t *testing.T) {
	s := NewState(news.News, KeepLast)

	first, _ := s.Switch(news.News)
	second := s.Refresh()

	assert.True(t, s.Apply(second, outcome(Remote, "fresh")))
	assert.False(t, s.Apply(first, outcome(Remote, "stale")))

	snap := s.Snapshot()
	require.Len(t, snap.Headlines, 1)
	assert.Equal(t, "fresh", snap.Headlines[0].Title)
}

func TestStateStaleResponseAfterSwitch(t *testing.T) {
	s := NewState(news.News, KeepLast)

	old, _ := s.Switch(news.Weather)
	newer := s.Refresh()
	// The refresh finishes first, then the user switches.
	s.Apply(newer, outcome(Remote, "weather"))
	sports, err := s.Switch(news.Sports)
	require.NoError(t, err)

	assert.False(t, s.Apply(old, outcome(Remote, "late weather")))
	assert.Empty(t, s.Snapshot().Headlines)
	assert.True(t, s.Apply(sports, outcome(Remote, "goal")))
}

func TestStateRefreshKeepsListUntilApply(t *testing.T) {
	s := NewState(news.News, KeepLast)
	tk, _ := s.Switch(news.News)
	s.Apply(tk, outcome(Remote, "a"))

	tk = s.Refresh()
	assert.Len(t, s.Snapshot().Headlines, 1)
	assert.True(t, s.Snapshot().Loading)

	s.Apply(tk, outcome(Cache, "b", "c"))
	snap := s.Snapshot()
	assert.Len(t, snap.Headlines, 2)
	assert.True(t, snap.Offline)
}

func TestStateEmptyPolicy(t *testing.T) {
	keep := NewState(news.News, "")
	tk, _ := keep.Switch(news.News)
	keep.Apply(tk, outcome(Remote, "a"))
	tk = keep.Refresh()
	assert.False(t, keep.Apply(tk, outcome(Empty)))
	assert.Len(t, keep.Snapshot().Headlines, 1)
	assert.True(t, keep.Snapshot().Offline)
	assert.Equal(t, Empty, keep.Snapshot().LastKind)

	clearing := NewState(news.News, ClearList)
	tk, _ = clearing.Switch(news.News)
	clearing.Apply(tk, outcome(Remote, "a"))
	tk = clearing.Refresh()
	assert.True(t, clearing.Apply(tk, outcome(Empty)))
	assert.Empty(t, clearing.Snapshot().Headlines)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState(news.News, KeepLast)
	tk, _ := s.Switch(news.News)
	s.Apply(tk, outcome(Remote, "a"))

	snap := s.Snapshot()
	snap.Headlines[0].Title = "mutated"

	assert.Equal(t, "a", s.Snapshot().Headlines[0].Title)
}
