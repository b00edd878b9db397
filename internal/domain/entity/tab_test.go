package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceList_RemoveActiveClearsPointer(t *testing.T) {
	sl := NewSurfaceList()
	sl.Add(NewSurface(1))
	sl.Add(NewSurface(2))
	sl.ActiveID = 2

	assert.True(t, sl.Remove(2))
	assert.Equal(t, SurfaceID(0), sl.ActiveID)
	assert.Nil(t, sl.Active())
	assert.Equal(t, []SurfaceID{1}, sl.IDs())
}

func TestSurfaceList_RemoveInactiveKeepsPointer(t *testing.T) {
	sl := NewSurfaceList()
	sl.Add(NewSurface(1))
	sl.Add(NewSurface(2))
	sl.ActiveID = 1

	assert.True(t, sl.Remove(2))
	assert.False(t, sl.Remove(2))
	assert.Equal(t, SurfaceID(1), sl.ActiveID)
}

func TestSurface_DisplayTitle(t *testing.T) {
	s := NewSurface(1)
	assert.Equal(t, "New Tab", s.DisplayTitle())

	s.URL = "https://example.com"
	assert.Equal(t, "https://example.com", s.DisplayTitle())

	s.Title = "Example"
	assert.Equal(t, "Example", s.DisplayTitle())

	start := &Surface{ID: 2, URL: "file:///x/startpage/index.html", StartPage: true}
	assert.Equal(t, "New Tab", start.DisplayTitle())
}
