package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/url"
	"github.com/bnema/arkium/internal/logging"
)

// IDGenerator returns a fresh surface id on every call.
type IDGenerator func() entity.SurfaceID

// NewSequentialIDGenerator returns ids 1, 2, 3... and never reuses one.
func NewSequentialIDGenerator() IDGenerator {
	var next atomic.Uint64
	return func() entity.SurfaceID {
		return entity.SurfaceID(next.Add(1))
	}
}

// ManageTabsUseCase handles the surface collection bookkeeping. It never
// touches the engine; the coordinator drives that around these calls.
type ManageTabsUseCase struct {
	idGenerator IDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator IDGenerator) *ManageTabsUseCase {
	if idGenerator == nil {
		idGenerator = NewSequentialIDGenerator()
	}
	return &ManageTabsUseCase{
		idGenerator: idGenerator,
	}
}

// CreateTabInput contains parameters for creating a new surface record.
type CreateTabInput struct {
	Surfaces        *entity.SurfaceList
	InitialLocation string // Empty or "start:" for the start page
}

// CreateTabOutput contains the result of surface creation.
type CreateTabOutput struct {
	Surface *entity.Surface
	// DisplayURL is what the address field shows: empty for the start page.
	DisplayURL string
}

// Create appends a new surface record. The caller activates it once the
// engine surface is attached.
func (uc *ManageTabsUseCase) Create(ctx context.Context, input CreateTabInput) (*CreateTabOutput, error) {
	log := logging.FromContext(ctx)

	if input.Surfaces == nil {
		return nil, fmt.Errorf("surface list is required")
	}

	s := entity.NewSurface(uc.idGenerator())
	display := ""
	if url.IsStart(input.InitialLocation) {
		s.StartPage = true
	} else {
		display = input.InitialLocation
		s.URL = url.Normalize(input.InitialLocation)
	}
	input.Surfaces.Add(s)

	log.Debug().
		Uint64("surface_id", uint64(s.ID)).
		Bool("start_page", s.StartPage).
		Int("count", input.Surfaces.Count()).
		Msg("surface record created")

	return &CreateTabOutput{Surface: s, DisplayURL: display}, nil
}

// Close removes a surface record. It reports whether the surface existed
// and whether it was the active one.
func (uc *ManageTabsUseCase) Close(ctx context.Context, surfaces *entity.SurfaceList, id entity.SurfaceID) (found, wasActive bool) {
	ctx = logging.WithSurfaceID(ctx, uint64(id))
	log := logging.FromContext(ctx)

	if surfaces == nil || surfaces.Find(id) == nil {
		log.Debug().Msg("close: surface not found")
		return false, false
	}

	wasActive = surfaces.ActiveID == id
	surfaces.Remove(id)

	log.Debug().
		Bool("was_active", wasActive).
		Int("remaining", surfaces.Count()).
		Msg("surface record removed")
	return true, wasActive
}

// Switch changes the active pointer. It reports false for unknown ids and
// for the already active surface.
func (uc *ManageTabsUseCase) Switch(ctx context.Context, surfaces *entity.SurfaceList, id entity.SurfaceID) bool {
	log := logging.FromContext(ctx)

	if surfaces == nil || surfaces.Find(id) == nil {
		log.Debug().Uint64("surface_id", uint64(id)).Msg("switch: surface not found")
		return false
	}
	if surfaces.ActiveID == id {
		return false
	}

	from := surfaces.ActiveID
	surfaces.ActiveID = id

	log.Debug().
		Uint64("from", uint64(from)).
		Uint64("to", uint64(id)).
		Msg("surface switched")
	return true
}

// Replacement picks the surface to activate after closing the one at
// index: its right neighbor, else its left one. ids is the collection
// after removal. It returns zero when ids is empty.
func Replacement(ids []entity.SurfaceID, index int) entity.SurfaceID {
	if len(ids) == 0 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	if index >= len(ids) {
		index = len(ids) - 1
	}
	return ids[index]
}
