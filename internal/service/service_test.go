package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"helpboard/internal/model"
	"helpboard/internal/payment"
	"helpboard/internal/repository"
	"helpboard/internal/testutil"
	"helpboard/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// fakeProvider 可控的远程支付渠道
type fakeProvider struct {
	initial     model.PaymentStatus
	initiateErr error
	partialID   string
	remote      model.PaymentStatus
	checks      atomic.Int32
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) InitialStatus() model.PaymentStatus { return p.initial }

func (p *fakeProvider) Initiate(ctx context.Context, req payment.Request) (*payment.Initiation, error) {
	if p.initiateErr != nil {
		if p.partialID != "" {
			return &payment.Initiation{Status: p.initial, PaymentID: p.partialID}, p.initiateErr
		}
		return nil, p.initiateErr
	}
	return &payment.Initiation{Status: p.initial, PaymentID: "remote-1", PaymentURL: "https://pay.test/1"}, nil
}

func (p *fakeProvider) CheckStatus(ctx context.Context, id string) (model.PaymentStatus, error) {
	p.checks.Add(1)
	if p.remote == "" {
		return "", errors.New("provider down")
	}
	return p.remote, nil
}

type testEnv struct {
	db            *sqlx.DB
	redis         *redis.Client
	mr            *miniredis.Miniredis
	notifier      *recordingNotifier
	announcements *AnnouncementService
	repo          *repository.AnnouncementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	repo := repository.NewAnnouncementRepository(db, "")
	return &testEnv{
		db:            db,
		redis:         rdb,
		mr:            mr,
		notifier:      &recordingNotifier{},
		announcements: NewAnnouncementService(repo, rdb, repository.VisibilityPaid, logger.NewNop()),
		repo:          repo,
	}
}

func (e *testEnv) paymentService(p payment.Provider) *PaymentService {
	return NewPaymentService(e.repo, e.announcements, p, e.notifier, logger.NewNop())
}
