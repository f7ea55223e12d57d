// Package baseline captures immutable, versioned copies of a project subtree
// and compares them with each other or with live data.
package baseline

import (
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/google/uuid"
)

// Source yields the content of one project hierarchy. Both live data and
// stored snapshots can serve as a source once indexed by rollup.NewTree.
type Source interface {
	Subtree(projectID string) (domain.EntitySet, bool)
}

// BuildSnapshot deep-copies the subtree rooted at projectID into a snapshot
// tagged with version. The captured project carries the new version and no
// pending proposal, so the snapshot reads as the approved state.
func BuildSnapshot(src Source, projectID string, version int, now time.Time) (*domain.BaselineSnapshot, error) {
	if version < 1 {
		return nil, &domain.InvalidStateError{ProjectID: projectID, State: domain.StateClean, Op: "snapshot a version below 1"}
	}
	content, ok := src.Subtree(projectID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "project", ID: projectID}
	}
	content = content.Clone()

	for i := range content.Projects {
		if content.Projects[i].ID == projectID {
			content.Projects[i].Baseline = version
			content.Projects[i].PendingChanges = nil
		}
	}

	return &domain.BaselineSnapshot{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Version:   version,
		CreatedAt: now.UTC(),
		Content:   content,
	}, nil
}
