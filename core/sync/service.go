// Package sync keeps the device wall clock synchronized with a network time
// source.
//
// A Service connects the network interface, then runs a background worker
// that queries the time source once per sync interval and sets the system
// clock. A millisecond ticker runs alongside to interpolate sub-second time
// between syncs. Failed queries are skipped; losing connectivity stops the
// worker, which is observable through State and Done.
package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"

	"go.uber.org/zap"

	"example.com/rtc-sync/base/timebase"
	"example.com/rtc-sync/core/client"
	"example.com/rtc-sync/net/netif"
)

const (
	defaultTickPeriod     = time.Millisecond
	defaultConnectTimeout = 30 * time.Second

	connectPollInterval    = 50 * time.Millisecond
	connectPollMaxInterval = 2 * time.Second
)

type Options struct {
	// SyncInterval is the number of minutes between sync attempts.
	SyncInterval   int
	TickPeriod     time.Duration
	ConnectTimeout time.Duration

	Source client.TimeSource
	Clock  timebase.LocalClock

	// Interface provides the network interface; defaults to netif.Default.
	Interface func() netif.Interface
	// Timers drives the sync interval and the ticker; defaults to the wall
	// clock.
	Timers clock.Clock
}

type Service struct {
	log            *zap.Logger
	src            *client.ClockSource
	iface          func() netif.Interface
	timers         clock.Clock
	tickPeriod     time.Duration
	connectTimeout time.Duration

	ticker MillisecondTicker
	worker *syncWorker
	err    atomic.Int32

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	ni      netif.Interface
	wg      sync.WaitGroup
}

func NewService(log *zap.Logger, opts Options) *Service {
	if opts.SyncInterval <= 0 {
		panic("invalid sync interval")
	}
	if opts.Source == nil || opts.Clock == nil {
		panic("time source and clock must not be nil")
	}
	if opts.TickPeriod < 0 || opts.ConnectTimeout < 0 {
		panic("invalid duration value")
	}
	if opts.TickPeriod == 0 {
		opts.TickPeriod = defaultTickPeriod
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.Interface == nil {
		opts.Interface = netif.Default
	}
	if opts.Timers == nil {
		opts.Timers = clock.New()
	}
	s := &Service{
		log:            log,
		src:            &client.ClockSource{Source: opts.Source, Clock: opts.Clock},
		iface:          opts.Interface,
		timers:         opts.Timers,
		tickPeriod:     opts.TickPeriod,
		connectTimeout: opts.ConnectTimeout,
	}
	s.worker = newSyncWorker(log, s.src, opts.Timers,
		time.Duration(opts.SyncInterval)*time.Minute)
	return s
}

func connect(ctx context.Context, log *zap.Logger, ni netif.Interface,
	timeout time.Duration) error {
	err := ni.Connect(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to initiate connection")
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = connectPollInterval
	b.MaxInterval = connectPollMaxInterval
	b.MaxElapsedTime = timeout
	b.Reset()
	var status netif.Status
	err = backoff.RetryNotify(func() error {
		status = ni.ConnectionStatus()
		switch status {
		case netif.GlobalUp, netif.ConnectionError, netif.Unsupported:
			return nil
		default:
			return errStillConnecting
		}
	}, backoff.WithContext(b, ctx), func(_ error, d time.Duration) {
		log.Debug("waiting for connection",
			zap.Stringer("status", status), zap.Duration("backoff", d))
	})
	if err != nil {
		return errors.Wrapf(err, "connection did not settle (status: %v)", status)
	}
	if status != netif.GlobalUp {
		return errors.Errorf("connection failed (status: %v)", status)
	}
	return nil
}

func (s *Service) establish(ctx context.Context) (netif.Interface, ErrorKind) {
	ni := s.iface()
	if ni == nil {
		s.log.Error("no network interface found")
		return nil, NoInterface
	}
	status := ni.ConnectionStatus()
	if status == netif.Unsupported {
		s.log.Error("network interface not supported")
		return nil, NoInterface
	}
	if status == netif.GlobalUp {
		return ni, NoError
	}
	s.worker.setState(Connecting)
	err := connect(ctx, s.log, ni, s.connectTimeout)
	if err != nil {
		s.log.Error("failed to connect", zap.Error(err))
		return nil, ConnectionFailed
	}
	return ni, NoError
}

// Start connects the network interface if necessary and starts the sync
// worker. It blocks until the connection has settled and returns the
// resulting error kind. ctx bounds only the connection phase; the worker
// runs until Stop or until connectivity is lost. A Service can be started
// only once; later calls, and calls after Stop, start nothing and return the
// error kind of the first start. After Stop, Done is already closed.
func (s *Service) Start(ctx context.Context) ErrorKind {
	s.mu.Lock()
	if s.started || s.stopped {
		started, stopped := s.started, s.stopped
		s.mu.Unlock()
		s.log.Warn("service already started or stopped",
			zap.Bool("started", started), zap.Bool("stopped", stopped),
			zap.Stringer("state", s.State()))
		return s.Err()
	}
	s.started = true
	wctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	ctx, stopConnect := context.WithCancel(ctx)
	defer stopConnect()
	defer context.AfterFunc(wctx, stopConnect)()

	ni, kind := s.establish(ctx)
	if kind != NoError {
		s.err.Store(int32(kind))
		s.worker.stop()
		return kind
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return s.Err()
	}
	s.ni = ni
	s.ticker.Arm(s.timers, s.tickPeriod)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.run(wctx, ni)
	}()
	return NoError
}

// Stop terminates the worker, disarms the ticker and releases the network
// interface. It may be called any number of times, also before Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.ticker.Disarm()
	s.worker.stop()
	s.ni = nil
}

func (s *Service) Err() ErrorKind {
	return ErrorKind(s.err.Load())
}

func (s *Service) State() State {
	return s.worker.State()
}

// Done is closed once the worker has stopped for any reason.
func (s *Service) Done() <-chan struct{} {
	return s.worker.done
}

// LastSyncedTime returns the network time of the last successful sync, or
// the zero time if no sync has succeeded yet. The value may be stale.
func (s *Service) LastSyncedTime() time.Time {
	t := s.worker.lastNTPTime.Load()
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (s *Service) CurrentTime() time.Time {
	return s.src.Clock.Now()
}

func (s *Service) CurrentTimestamp() uint64 {
	sec := s.CurrentTime().Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}

// CurrentTimestampMillis combines the whole seconds of the system clock with
// the sub-second counter. The counter runs independently of the clock, so the
// result is an approximation and may lag or lead the clock by up to a second.
func (s *Service) CurrentTimestampMillis() uint64 {
	ms := s.src.Clock.EpochMillis()
	return ms/1000*1000 + uint64(s.ticker.Count())
}
