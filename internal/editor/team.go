package editor

import (
	"context"
	"fmt"

	"github.com/alternativa-centar/site/types"
)

// Direction moves a team member one slot.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection accepts "up" and "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// TeamResource is the team API including batch reordering.
type TeamResource interface {
	Resource[types.TeamMember, types.TeamMemberInput]
	Reorder(ctx context.Context, orders []types.TeamOrder) error
}

// TeamEditor adds reordering to the generic editor.
type TeamEditor struct {
	*Editor[types.TeamMember, types.TeamMemberInput]
	api TeamResource
}

func NewTeamEditor(api TeamResource) *TeamEditor {
	return &TeamEditor{
		Editor: New[types.TeamMember, types.TeamMemberInput](api, TeamSchema),
		api:    api,
	}
}

// Move swaps a member with its neighbour and renumbers both by their new
// list positions, sending the two orders in one request. Moving past either
// end is a no-op. On failure the list is re-fetched.
func (e *TeamEditor) Move(ctx context.Context, id string, dir Direction) error {
	members, err := e.Items(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, m := range members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("team member %q is not in the list", id)
	}

	other := idx - 1
	if dir == Down {
		other = idx + 1
	}
	if other < 0 || other >= len(members) {
		return nil
	}

	members[idx], members[other] = members[other], members[idx]
	members[idx].Order = idx + 1
	members[other].Order = other + 1

	orders := []types.TeamOrder{
		{ID: members[other].ID, Order: members[other].Order},
		{ID: members[idx].ID, Order: members[idx].Order},
	}
	if err := e.api.Reorder(ctx, orders); err != nil {
		e.Invalidate()
		if reloadErr := e.Load(ctx); reloadErr != nil {
			return fmt.Errorf("%w (reload failed: %v)", err, reloadErr)
		}
		return err
	}

	e.replaceAll(members)
	return nil
}

func (e *TeamEditor) replaceAll(members []types.TeamMember) {
	e.items = make(map[string]types.TeamMember, len(members))
	e.order = e.order[:0]
	for _, m := range members {
		e.items[m.ID] = m
		e.order = append(e.order, m.ID)
	}
}
