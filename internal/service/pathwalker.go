package service

import (
	"context"

	"docvault/internal/config"
	"docvault/internal/domain/repositories"
)

// pathWalker resolves folder ancestry. Both walks keep a visited-id set:
// a parent chain that revisits a folder stops immediately instead of
// looping, and the partial result built so far is returned. Write paths
// reject cycles outright, so truncation only ever fires on pre-existing
// bad data.
type pathWalker struct {
	folders repositories.FolderRepository
}

// path returns the folder names from the root down to folderID.
// A nil folderID is the root itself: an empty path.
func (w pathWalker) path(ctx context.Context, folderID *string) ([]string, error) {
	if folderID == nil {
		return nil, nil
	}

	visited := make(map[string]bool)
	var reversed []string

	current := folderID
	for current != nil && len(reversed) < config.MaxFolderDepth {
		if visited[*current] {
			break
		}
		visited[*current] = true

		folder, err := w.folders.GetByID(ctx, *current)
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, folder.Name)
		current = folder.ParentID
	}

	names := make([]string, len(reversed))
	for i, name := range reversed {
		names[len(reversed)-1-i] = name
	}
	return names, nil
}

// wouldCycle reports whether parenting folderID under newParent would make
// the folder its own ancestor.
func (w pathWalker) wouldCycle(ctx context.Context, folderID string, newParent *string) (bool, error) {
	visited := make(map[string]bool)

	current := newParent
	for current != nil && len(visited) < config.MaxFolderDepth {
		if *current == folderID {
			return true, nil
		}
		if visited[*current] {
			// Existing corruption upstream of the new parent; the move
			// itself does not add folderID to the loop.
			return false, nil
		}
		visited[*current] = true

		folder, err := w.folders.GetByID(ctx, *current)
		if err != nil {
			return false, err
		}
		current = folder.ParentID
	}

	return false, nil
}
