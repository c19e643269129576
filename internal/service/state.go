package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/nestscroll/internal/database"
	"github.com/jask/nestscroll/internal/database/repository"
	"github.com/jask/nestscroll/internal/scroll"
)

// StateService saves and restores coordinator snapshots by widget name.
type StateService struct {
	States *repository.ScrollStateRepo
}

// StateID derives a stable row id from the widget name.
func StateID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("scroll:"+name)).String()
}

// Restore loads the snapshot saved under name. ok is false when there is
// none; a stored row that no longer validates is reported as an error.
func (s *StateService) Restore(ctx context.Context, name string) (scroll.State, bool, error) {
	if s.States == nil {
		return scroll.State{}, false, fmt.Errorf("state: repo not configured")
	}
	row, err := s.States.ByName(ctx, name)
	if err != nil {
		return scroll.State{}, false, fmt.Errorf("load state %q: %w", name, err)
	}
	if row == nil {
		return scroll.State{}, false, nil
	}
	st, err := scroll.StateFromValues([]float64{row.Offset, row.CollapseRange})
	if err != nil {
		return scroll.State{}, false, fmt.Errorf("decode state %q: %w", name, err)
	}
	return st, true, nil
}

// Save stores st under name, replacing any earlier snapshot.
func (s *StateService) Save(ctx context.Context, name string, st scroll.State) error {
	if s.States == nil {
		return fmt.Errorf("state: repo not configured")
	}
	v := st.Values()
	err := s.States.Upsert(ctx, repository.ScrollState{
		ID:            StateID(name),
		Name:          name,
		Offset:        v[0],
		CollapseRange: v[1],
		UpdatedAt:     database.Now(),
	})
	if err != nil {
		return fmt.Errorf("save state %q: %w", name, err)
	}
	return nil
}

// Forget drops the snapshot saved under name.
func (s *StateService) Forget(ctx context.Context, name string) error {
	if s.States == nil {
		return fmt.Errorf("state: repo not configured")
	}
	if err := s.States.Delete(ctx, name); err != nil {
		return fmt.Errorf("forget state %q: %w", name, err)
	}
	return nil
}
