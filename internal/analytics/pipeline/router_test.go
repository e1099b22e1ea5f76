package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shortlink/internal/analytics/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, userAgentRaw, _ string) domain.Visit {
	if userAgentRaw == "" {
		return domain.Visit{Browser: domain.Unknown, OS: domain.Unknown, DeviceType: domain.DeviceDesktop}
	}
	return domain.Visit{
		Browser:    "Chrome",
		OS:         "Android",
		DeviceType: domain.DeviceMobile,
		Country:    domain.StringPtr("Brazil"),
		City:       domain.StringPtr("Recife"),
	}
}

// captureRecorder stores recorded clicks and fails for link ids in failFor.
type captureRecorder struct {
	mu       sync.Mutex
	recorded []*domain.ClickEvent
	failFor  map[string]bool
	calls    chan string
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{
		failFor: make(map[string]bool),
		calls:   make(chan string, 16),
	}
}

func (r *captureRecorder) Record(_ context.Context, click *domain.ClickEvent) error {
	defer func() { r.calls <- click.LinkID }()
	if r.failFor[click.LinkID] {
		return domain.ErrRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, click)
	return nil
}

func (r *captureRecorder) all() []*domain.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.ClickEvent(nil), r.recorded...)
}

type RouterTestSuite struct {
	suite.Suite
	bus        *Bus
	recorder   *captureRecorder
	router     *Router
	dispatcher *Dispatcher
	cancel     context.CancelFunc
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.bus = NewBus(watermill.NopLogger{})
	s.recorder = newCaptureRecorder()

	var err error
	s.router, err = NewRouter(s.bus.Subscriber(), NewClickHandler(stubClassifier{}, s.recorder), zap.NewNop())
	s.Require().NoError(err)

	s.dispatcher = NewDispatcher(s.bus.Publisher(), zap.NewNop())

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go func() { _ = s.router.Run(ctx) }()

	select {
	case <-s.router.Running():
	case <-time.After(2 * time.Second):
		s.FailNow("router did not start")
	}
}

func (s *RouterTestSuite) TearDownTest() {
	s.cancel()
	_ = s.router.Close()
	_ = s.bus.Close()
}

func (s *RouterTestSuite) waitForCall() string {
	select {
	case id := <-s.recorder.calls:
		return id
	case <-time.After(2 * time.Second):
		s.FailNow("timeout waiting for click to be recorded")
		return ""
	}
}

func (s *RouterTestSuite) TestDispatch_ClassifiesAndRecords() {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.dispatcher.Dispatch(RawClick{
		LinkID:     "link-1",
		Token:      "abc123",
		IPAddress:  "203.0.113.9",
		UserAgent:  "Mozilla/5.0 (Linux; Android 14)",
		Referrer:   "https://www.google.com/",
		OccurredAt: at,
	})

	s.Equal("link-1", s.waitForCall())

	recorded := s.recorder.all()
	s.Require().Len(recorded, 1)
	click := recorded[0]
	s.Equal("203.0.113.9", click.IPAddress)
	s.Equal("Chrome", click.Browser)
	s.Equal(domain.DeviceMobile, click.DeviceType)
	s.Require().NotNil(click.Country)
	s.Equal("Brazil", *click.Country)
	s.Require().NotNil(click.Referrer)
	s.Equal("https://www.google.com/", *click.Referrer)
	s.Equal(at, click.CreatedAt)
}

func (s *RouterTestSuite) TestDispatch_EmptyReferrerStoredAsNil() {
	s.dispatcher.Dispatch(RawClick{LinkID: "link-2", IPAddress: "203.0.113.9"})

	s.waitForCall()

	recorded := s.recorder.all()
	s.Require().Len(recorded, 1)
	s.Nil(recorded[0].Referrer)
	s.Equal(domain.Unknown, recorded[0].Browser)
	s.False(recorded[0].CreatedAt.IsZero())
}

func (s *RouterTestSuite) TestRecordFailure_IsAckedAndPipelineContinues() {
	s.recorder.failFor["broken"] = true

	s.dispatcher.Dispatch(RawClick{LinkID: "broken"})
	s.Equal("broken", s.waitForCall())

	s.dispatcher.Dispatch(RawClick{LinkID: "healthy"})
	s.Equal("healthy", s.waitForCall())

	recorded := s.recorder.all()
	s.Require().Len(recorded, 1)
	s.Equal("healthy", recorded[0].LinkID)
}

func (s *RouterTestSuite) TestMalformedMessage_IsDropped() {
	err := s.bus.Publisher().Publish(ClicksTopic, message.NewMessage(watermill.NewUUID(), []byte("{not json")))
	s.Require().NoError(err)

	s.dispatcher.Dispatch(RawClick{LinkID: "after-bad"})
	s.Equal("after-bad", s.waitForCall())
}

func TestDispatch_ClosedBus_DoesNotPanic(t *testing.T) {
	bus := NewBus(watermill.NopLogger{})
	_ = bus.Close()

	d := NewDispatcher(bus.Publisher(), zap.NewNop())
	d.Dispatch(RawClick{LinkID: "link-1"})
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("closed") }
func (failingPublisher) Close() error                              { return nil }

func TestDispatch_PublishError_IsSwallowed(t *testing.T) {
	d := NewDispatcher(failingPublisher{}, zap.NewNop())
	d.Dispatch(RawClick{LinkID: "link-1"})
}
