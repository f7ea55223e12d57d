package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/wbsline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAccess_ReadDuringWrite verifies that loading a hierarchy
// while work packages are being added never yields a half-written view.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	s := seedHierarchy(t, database, "ReadWrite")
	wpRepo := NewSQLiteWorkPackageRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			wp := testutil.NewTestWorkPackage(s.deliverable.ID, fmt.Sprintf("WP-%d", i),
				testutil.WithWorkPackageStatus(i*5))
			if err := wpRepo.Create(ctx, wp); err != nil {
				t.Errorf("writer: create work package %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				set, err := LoadEntitySet(ctx, database, s.project.ID)
				if err != nil {
					t.Errorf("reader %d: load: %v", reader, err)
					return
				}
				for _, wp := range set.WorkPackages {
					if wp.ID == "" || wp.DeliverableID != s.deliverable.ID {
						t.Errorf("reader %d: inconsistent work package %+v", reader, wp)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	final, err := wpRepo.ListByProject(ctx, s.project.ID)
	require.NoError(t, err)
	assert.Len(t, final, 21)
}

// TestConcurrentAccess_CommitBaselineSingleWinner races several writers that
// all read baseline 0 and try to move it to 1. The compare-and-set lets
// exactly one through.
func TestConcurrentAccess_CommitBaselineSingleWinner(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	s := seedHierarchy(t, database, "Race")
	repo := NewSQLiteProjectRepo(database)

	var wins, stale atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := *s.project
			p.Baseline = 1
			p.Name = fmt.Sprintf("writer-%d", i)
			err := repo.CommitBaseline(ctx, &p, 0)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrStaleWrite):
				stale.Add(1)
			default:
				t.Errorf("writer %d: unexpected error: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), stale.Load())

	fetched, err := repo.GetByID(ctx, s.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Baseline)
}
