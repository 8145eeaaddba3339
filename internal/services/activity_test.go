package services

import (
	"context"
	"testing"
	"time"

	"github.com/tolgee/tolgee-backend/internal/data/paging"
	"github.com/tolgee/tolgee-backend/internal/data/repos/testutil"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
)

func TestListProjectActivity(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	p := f.seedProject(t, "feed")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	edit := testutil.SeedRevision(t, ctx, f.db, testutil.RevisionSeed{
		ProjectID:  p.ID,
		Type:       activity.TypeSetTranslations.Ptr(),
		At:         base,
		Modified:   []string{"Translation"},
		Describing: []string{"Key", "Language"},
	})
	imp := testutil.SeedRevision(t, ctx, f.db, testutil.RevisionSeed{
		ProjectID:  p.ID,
		Type:       activity.TypeImport.Ptr(),
		At:         base.Add(time.Hour),
		Modified:   []string{"Key", "Key", "Translation"},
		Describing: []string{"Language"},
	})
	chunk := testutil.SeedBatchChunk(t, ctx, f.db)
	testutil.SeedRevision(t, ctx, f.db, testutil.RevisionSeed{
		ProjectID:  p.ID,
		Type:       activity.TypeSetTranslations.Ptr(),
		At:         base.Add(2 * time.Hour),
		BatchChunk: &chunk.ID,
	})

	page, err := f.activity.ListProjectActivity(ctx, p.ID, paging.Pageable{Size: 10})
	if err != nil {
		t.Fatalf("ListProjectActivity: %v", err)
	}
	if page.TotalElements != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 feed entries, got total=%d items=%d", page.TotalElements, len(page.Items))
	}
	if page.Items[0].Revision.ID != imp.ID || page.Items[1].Revision.ID != edit.ID {
		t.Fatalf("expected newest first, got %d then %d", page.Items[0].Revision.ID, page.Items[1].Revision.ID)
	}

	gotImport := page.Items[0]
	if len(gotImport.DescribingRelations) != 0 {
		t.Fatalf("count-only type must not carry relations, got %d", len(gotImport.DescribingRelations))
	}
	if gotImport.Counts["Key"] != 2 || gotImport.Counts["Translation"] != 1 {
		t.Fatalf("unexpected import counts: %v", gotImport.Counts)
	}

	gotEdit := page.Items[1]
	if gotEdit.Counts != nil {
		t.Fatalf("relation type must not carry counts, got %v", gotEdit.Counts)
	}
	if len(gotEdit.DescribingRelations) != 2 {
		t.Fatalf("expected 2 describing relations, got %d", len(gotEdit.DescribingRelations))
	}
	for _, rel := range gotEdit.DescribingRelations {
		if rel.ActivityRevisionID != edit.ID {
			t.Fatalf("relation attached to wrong revision: %+v", rel)
		}
	}
}

func TestListProjectActivity_EmptyAndBadSort(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	p := f.seedProject(t, "feed-empty")

	page, err := f.activity.ListProjectActivity(ctx, p.ID, paging.Pageable{})
	if err != nil {
		t.Fatalf("ListProjectActivity: %v", err)
	}
	if page.TotalElements != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}

	_, err = f.activity.ListProjectActivity(ctx, p.ID, paging.Pageable{Sort: []paging.Order{{Property: "author"}}})
	if err == nil {
		t.Fatalf("expected unsupported sort to fail")
	}
}

func TestDailyActivity_ReadThroughCache(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	p := f.seedProject(t, "daily")
	day := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		testutil.SeedRevision(t, ctx, f.db, testutil.RevisionSeed{
			ProjectID: p.ID,
			Type:      activity.TypeCreateKey.Ptr(),
			At:        day.Add(time.Duration(i) * time.Minute),
		})
	}

	counts, err := f.activity.DailyActivity(ctx, p.ID)
	if err != nil {
		t.Fatalf("DailyActivity: %v", err)
	}
	if len(counts) != 1 || counts[0].Date != "2026-04-02" || counts[0].Count != 3 {
		t.Fatalf("unexpected daily counts: %+v", counts)
	}
	if _, ok := f.cache.data[p.ID]; !ok {
		t.Fatalf("expected daily counts to be cached")
	}

	// A cached entry is served without touching the store.
	f.cache.data[p.ID] = []types.ActivityDailyCount{{Date: "2000-01-01", Count: 42}}
	cached, err := f.activity.DailyActivity(ctx, p.ID)
	if err != nil {
		t.Fatalf("cached DailyActivity: %v", err)
	}
	if len(cached) != 1 || cached[0].Count != 42 {
		t.Fatalf("expected cached counts, got %+v", cached)
	}
	if f.cache.gets != 2 {
		t.Fatalf("expected 2 cache reads, got %d", f.cache.gets)
	}
}

func TestDailyActivity_InvalidatedByLanguageChange(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	p := f.seedProject(t, "daily-invalidate")

	if _, err := f.activity.DailyActivity(ctx, p.ID); err != nil {
		t.Fatalf("DailyActivity: %v", err)
	}
	if _, err := f.projects.GetOrCreateBaseLanguage(ctx, p.ID); err != nil {
		t.Fatalf("GetOrCreateBaseLanguage: %v", err)
	}
	if _, ok := f.cache.data[p.ID]; ok {
		t.Fatalf("expected cache entry to be dropped after commit")
	}
	counts, err := f.activity.DailyActivity(ctx, p.ID)
	if err != nil {
		t.Fatalf("DailyActivity: %v", err)
	}
	if len(counts) != 1 || counts[0].Count != 1 {
		t.Fatalf("expected the new revision to be counted, got %+v", counts)
	}
}
