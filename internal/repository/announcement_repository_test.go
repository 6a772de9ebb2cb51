package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"helpboard/internal/model"
	"helpboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnnouncement(t *testing.T, repo *AnnouncementRepository, title string, typ model.AnnouncementType, status model.PaymentStatus, createdAt time.Time) int64 {
	t.Helper()
	id, err := repo.CreateAnnouncement(context.Background(), &model.Announcement{
		Title:         title,
		Category:      "Разное",
		AuthorName:    "Аноним",
		Type:          typ,
		PaymentAmount: typ.Price(),
		PaymentStatus: status,
		Status:        model.StatusActive,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return id
}

func TestAnnouncementListingOrder(t *testing.T) {
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	now := time.Now().UTC()

	seedAnnouncement(t, repo, "regular-new", model.TypeRegular, model.PaymentPaid, now)
	seedAnnouncement(t, repo, "vip-old", model.TypeVIP, model.PaymentPaid, now.Add(-3*time.Hour))
	seedAnnouncement(t, repo, "boosted", model.TypeBoosted, model.PaymentPaid, now.Add(-time.Hour))
	seedAnnouncement(t, repo, "vip-new", model.TypeVIP, model.PaymentPaid, now.Add(-time.Minute))
	seedAnnouncement(t, repo, "regular-old", model.TypeRegular, model.PaymentPaid, now.Add(-5*time.Hour))
	seedAnnouncement(t, repo, "hidden", model.TypeVIP, model.PaymentPending, now)

	list, err := repo.GetAnnouncements(context.Background(), VisibilityPaid, model.AnnouncementFilter{})
	require.NoError(t, err)

	var titles []string
	for _, a := range list {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"vip-new", "vip-old", "boosted", "regular-new", "regular-old"}, titles)
}

func TestAnnouncementVisibilityModes(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	now := time.Now().UTC()

	seedAnnouncement(t, repo, "paid", model.TypeRegular, model.PaymentPaid, now)
	seedAnnouncement(t, repo, "pending", model.TypeRegular, model.PaymentPending, now)
	cancelled := seedAnnouncement(t, repo, "cancelled", model.TypeRegular, model.PaymentCancelled, now)
	closed := seedAnnouncement(t, repo, "closed", model.TypeRegular, model.PaymentPaid, now)
	require.NoError(t, repo.CloseAnnouncement(ctx, closed))
	_ = cancelled

	count := func(mode string) int {
		list, err := repo.GetAnnouncements(ctx, mode, model.AnnouncementFilter{})
		require.NoError(t, err)
		return len(list)
	}
	assert.Equal(t, 1, count(VisibilityPaid))
	assert.Equal(t, 3, count(VisibilityActive))
	assert.Equal(t, 3, count(VisibilityPayment))

	_, err := repo.GetAnnouncements(ctx, "unknown", model.AnnouncementFilter{})
	assert.Error(t, err)
}

func TestAnnouncementFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	now := time.Now().UTC()

	seedAnnouncement(t, repo, "a", model.TypeVIP, model.PaymentPaid, now)
	seedAnnouncement(t, repo, "b", model.TypeRegular, model.PaymentPaid, now)

	list, err := repo.GetAnnouncements(ctx, VisibilityPaid, model.AnnouncementFilter{Type: "vip"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Title)

	list, err = repo.GetAnnouncements(ctx, VisibilityPaid, model.AnnouncementFilter{Author: "Иван"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIncrementViews(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	id := seedAnnouncement(t, repo, "views", model.TypeRegular, model.PaymentPaid, time.Now().UTC())

	// 不存在的ID不报错
	require.NoError(t, repo.IncrementViews(ctx, 999))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementViews(ctx, id))
		}()
	}
	wg.Wait()

	a, err := repo.GetAnnouncementByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(n), a.Views)
}

func TestGetVisibleAnnouncementByID(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	now := time.Now().UTC()

	paid := seedAnnouncement(t, repo, "paid", model.TypeRegular, model.PaymentPaid, now)
	pending := seedAnnouncement(t, repo, "pending", model.TypeRegular, model.PaymentPending, now)
	cancelled := seedAnnouncement(t, repo, "cancelled", model.TypeRegular, model.PaymentCancelled, now)

	cases := []struct {
		visibility string
		id         int64
		visible    bool
	}{
		{VisibilityPaid, paid, true},
		{VisibilityPaid, pending, false},
		{VisibilityPaid, cancelled, false},
		{VisibilityPayment, pending, true},
		{VisibilityPayment, cancelled, false},
		{VisibilityActive, cancelled, true},
		{VisibilityPaid, 999, false},
	}
	for _, tc := range cases {
		a, err := repo.GetVisibleAnnouncementByID(ctx, tc.visibility, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.visible, a != nil, "%s/%d", tc.visibility, tc.id)
	}

	_, err := repo.GetVisibleAnnouncementByID(ctx, "everything", paid)
	assert.Error(t, err)
}

func TestTransitionPaymentStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	id := seedAnnouncement(t, repo, "pay", model.TypeBoosted, model.PaymentPending, time.Now().UTC())

	changed, err := repo.TransitionPaymentStatus(ctx, id, model.PaymentPending, model.PaymentPaid)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionPaymentStatus(ctx, id, model.PaymentPending, model.PaymentCancelled)
	require.NoError(t, err)
	assert.False(t, changed)

	a, err := repo.GetAnnouncementByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, a.PaymentStatus)
}

func TestPendingReconcileQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository(testutil.NewDB(t), "")
	now := time.Now().UTC()

	withRef := seedAnnouncement(t, repo, "remote", model.TypeRegular, model.PaymentPending, now)
	require.NoError(t, repo.SetPaymentID(ctx, withRef, "pay-1"))
	stale := seedAnnouncement(t, repo, "stale", model.TypeRegular, model.PaymentPending, now.Add(-48*time.Hour))

	pending, err := repo.GetPendingWithPaymentID(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, withRef, pending[0].ID)
	assert.Equal(t, sql.NullString{String: "pay-1", Valid: true}, pending[0].PaymentID)

	n, err := repo.ExpirePending(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	a, err := repo.GetAnnouncementByID(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentExpired, a.PaymentStatus)
}

func TestDeleteAnnouncementCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewAnnouncementRepository(db, "")
	responses := NewResponseRepository(db, "")
	now := time.Now().UTC()

	id := seedAnnouncement(t, repo, "with-thread", model.TypeRegular, model.PaymentPaid, now)
	other := seedAnnouncement(t, repo, "other", model.TypeRegular, model.PaymentPaid, now)
	respID, err := responses.CreateResponse(ctx, &model.Response{AnnouncementID: id, ResponderName: "Аноним", Status: "new", CreatedAt: now})
	require.NoError(t, err)
	_, err = responses.CreateMessage(ctx, &model.Message{ResponseID: respID, SenderName: "Аноним", Message: "hi", CreatedAt: now})
	require.NoError(t, err)

	deleted, err := repo.DeleteAnnouncement(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	msgs, err := responses.GetMessagesByResponse(ctx, respID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	deleted, err = repo.DeleteAnnouncement(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := repo.DeleteAllAnnouncements(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	a, err := repo.GetAnnouncementByID(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, a)
}
