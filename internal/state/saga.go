package state

import "context"

// Saga is an optimistic update: Apply is shown before Persist runs, and
// Restore brings back the pre-update view when Persist fails. Restore must carry
// its own copy of the snapshot, not an alias of the live state.
type Saga struct {
	Apply   Action
	Persist func(ctx context.Context) error
	Restore Action
}

func RunOptimistic[S any](ctx context.Context, container *Container[S], saga Saga) error {
	container.Dispatch(saga.Apply)

	if err := saga.Persist(ctx); err != nil {
		container.Dispatch(saga.Restore)
		return err
	}
	return nil
}
