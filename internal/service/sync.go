package service

import "context"

// syncChildren reconciles a child collection against its payload.
// Children missing from the payload are deleted, payload entries whose
// id matches an existing child are updated in place, everything else is
// created. A payload id that does not belong to the parent falls back
// to create, so stale ids never touch foreign rows.
func syncChildren(
	ctx context.Context,
	existingIDs []int64,
	payloadIDs []int64,
	deleteChild func(ctx context.Context, id int64) error,
	updateChild func(ctx context.Context, idx int) error,
	createChild func(ctx context.Context, idx int) error,
) error {
	existing := make(map[int64]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}
	kept := make(map[int64]bool, len(payloadIDs))
	for _, id := range payloadIDs {
		if id != 0 && existing[id] {
			kept[id] = true
		}
	}

	for _, id := range existingIDs {
		if kept[id] {
			continue
		}
		if err := deleteChild(ctx, id); err != nil {
			return err
		}
	}

	for i, id := range payloadIDs {
		if id != 0 && existing[id] {
			if err := updateChild(ctx, i); err != nil {
				return err
			}
			continue
		}
		if err := createChild(ctx, i); err != nil {
			return err
		}
	}
	return nil
}
