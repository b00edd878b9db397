package entity

import "time"

// SurfaceID uniquely identifies a rendering surface (a tab).
// IDs are positive, assigned at creation and never reused within a process.
type SurfaceID uint64

// Surface is an isolated rendering context hosting one web document.
type Surface struct {
	ID        SurfaceID
	URL       string // Last known location
	Title     string // Last known display title
	StartPage bool   // True while the bundled start document is shown
	CreatedAt time.Time
}

// NewSurface creates a surface record for the given id.
func NewSurface(id SurfaceID) *Surface {
	return &Surface{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the title shown in the tab strip.
// Falls back to the URL, then to "New Tab".
func (s *Surface) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if s.URL != "" && !s.StartPage {
		return s.URL
	}
	return "New Tab"
}

// SurfaceList is the ordered surface collection plus the active pointer.
// ActiveID is zero when no surface is active.
type SurfaceList struct {
	Surfaces []*Surface
	ActiveID SurfaceID
}

// NewSurfaceList creates an empty surface list.
func NewSurfaceList() *SurfaceList {
	return &SurfaceList{
		Surfaces: make([]*Surface, 0),
	}
}

// Add appends a surface to the list. It does not change the active pointer.
func (sl *SurfaceList) Add(s *Surface) {
	sl.Surfaces = append(sl.Surfaces, s)
}

// Remove removes a surface by ID.
// If it was active the pointer is cleared; no replacement is selected.
func (sl *SurfaceList) Remove(id SurfaceID) bool {
	for i, s := range sl.Surfaces {
		if s.ID == id {
			sl.Surfaces = append(sl.Surfaces[:i], sl.Surfaces[i+1:]...)
			if sl.ActiveID == id {
				sl.ActiveID = 0
			}
			return true
		}
	}
	return false
}

// Find returns a surface by ID.
func (sl *SurfaceList) Find(id SurfaceID) *Surface {
	for _, s := range sl.Surfaces {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Index returns the position of a surface, or -1.
func (sl *SurfaceList) Index(id SurfaceID) int {
	for i, s := range sl.Surfaces {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the currently active surface, or nil.
func (sl *SurfaceList) Active() *Surface {
	if sl.ActiveID == 0 {
		return nil
	}
	return sl.Find(sl.ActiveID)
}

// Count returns the number of surfaces.
func (sl *SurfaceList) Count() int {
	return len(sl.Surfaces)
}

// IDs returns surface IDs in creation order.
func (sl *SurfaceList) IDs() []SurfaceID {
	ids := make([]SurfaceID, len(sl.Surfaces))
	for i, s := range sl.Surfaces {
		ids[i] = s.ID
	}
	return ids
}
