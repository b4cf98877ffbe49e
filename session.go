package dtracksdk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/dtracksdk/config"
	"github.com/banshee-data/dtracksdk/internal/commandproto"
	"github.com/banshee-data/dtracksdk/internal/frameparser"
	"github.com/banshee-data/dtracksdk/internal/metrics"
	"github.com/banshee-data/dtracksdk/internal/timeutil"
	"github.com/banshee-data/dtracksdk/internal/transport"
)

// Session is the SDK's entry point: it owns the UDP measurement
// receiver, the optional TCP command connection, and feedback emission,
// and publishes a fresh Snapshot on every successfully parsed
// measurement datagram.
type Session struct {
	ID uuid.UUID

	logger  *log.Logger
	metrics *metrics.Counters
	clock   timeutil.Clock

	receiver *transport.UDPReceiver
	command  *CommandClient // nil when the connection mode has no TCP channel
	feedback *FeedbackEmitter

	spec ConnectionSpec

	mu                sync.Mutex
	current           *Snapshot
	lastDataError     ErrorKind
	lastFrameRate     float64
	haveLastTimestamp bool
	lastTimestamp     float64

	eg     *errgroup.Group
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewSession parses connStr's connection-string grammar, binds the UDP
// measurement receiver, and, depending on the resulting
// mode, opens a TCP command connection (ModeCommunicating) and primes a
// stateful firewall pinhole (ModeCommunicating and ModeFirewall). The
// returned Session is ready to call Receive on immediately.
func NewSession(connStr string, opts ...Option) (*Session, error) {
	spec, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}

	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.Default()
	}

	dataTimeout := time.Duration(cfg.defaults.GetDataTimeoutUs()) * time.Microsecond
	cmdTimeout := time.Duration(cfg.defaults.GetCommandTimeoutUs()) * time.Microsecond
	bufSize := cfg.defaults.GetRcvBufSize()

	receiver, err := bindReceiver(cfg, spec, bufSize, dataTimeout, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.New(),
		logger:   logger,
		metrics:  &metrics.Counters{},
		clock:    cfg.clock,
		receiver: receiver,
		spec:     spec,
	}

	switch spec.Mode {
	case ModeCommunicating:
		addr := net.JoinHostPort(spec.Host, strconv.Itoa(config.ControllerCommandPort))
		tcp, err := transport.DialTCPClient(addr, cmdTimeout, logger)
		if err != nil {
			receiver.Close()
			return nil, err
		}
		s.command = newCommandClient(tcp, logger)
		if err := s.primeFirewall(); err != nil {
			logger.Printf("dtracksdk: warning: failed to prime stateful firewall: %v", err)
		}
	case ModeFirewall:
		if err := s.primeFirewall(); err != nil {
			receiver.Close()
			return nil, err
		}
	}

	s.feedback = newFeedbackEmitter(s.sendFeedback, s.feedbackDestination, s.metrics)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	eg, egCtx := errgroup.WithContext(ctx)
	s.eg = eg
	if cfg.statsLogInterval > 0 {
		eg.Go(func() error {
			s.logStatsPeriodically(egCtx, cfg.statsLogInterval)
			return nil
		})
	}

	return s, nil
}

func bindReceiver(cfg *sessionConfig, spec ConnectionSpec, bufSize int, dataTimeout time.Duration, logger *log.Logger) (*transport.UDPReceiver, error) {
	switch spec.Mode {
	case ModeMulticast:
		group := net.JoinHostPort(spec.MulticastGroup, strconv.Itoa(spec.Port))
		return transport.NewMulticastUDPReceiver(cfg.socketFactory, group, bufSize, dataTimeout, logger)
	default:
		return transport.NewUDPReceiver(cfg.socketFactory, ":"+strconv.Itoa(spec.Port), bufSize, dataTimeout, logger)
	}
}

// primeFirewall sends the fixed token from the bound receiver socket to
// the controller's well-known sender port.
func (s *Session) primeFirewall() error {
	return transport.PrimeStatefulFirewall(firewallSender{s.receiver}, s.spec.Host, config.ControllerSenderPort, config.FirewallPrimingToken)
}

// firewallSender adapts UDPReceiver.Send to the WriteTo shape
// transport.PrimeStatefulFirewall expects.
type firewallSender struct{ r *transport.UDPReceiver }

func (f firewallSender) WriteTo(b []byte, addr net.Addr) (int, error) {
	if err := f.r.Send(b, addr); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Receive blocks for up to the configured data timeout, parses the next
// measurement datagram, and publishes it as the current Snapshot. On
// timeout it returns the most recently published Snapshot unchanged
// along with ErrTimeout-classified LastDataError -- a missed frame is
// not fatal to the session.
func (s *Session) Receive() (*Snapshot, error) {
	buf, _, err := s.receiver.Receive()
	if err != nil {
		s.mu.Lock()
		switch {
		case errors.Is(err, transport.ErrTimeout):
			s.lastDataError = ErrTimeout
			s.metrics.AddTimeout()
		case errors.Is(err, transport.ErrClosed):
			s.lastDataError = ErrNet
		default:
			s.lastDataError = ErrNet
		}
		snap := s.current
		s.mu.Unlock()
		return snap, err
	}

	snap, perr := frameparser.Parse(buf)
	if perr != nil {
		s.mu.Lock()
		s.lastDataError = ErrParse
		s.metrics.AddParseError()
		cur := s.current
		s.mu.Unlock()
		return cur, perr
	}

	s.publish(snap, len(buf))
	return snap, nil
}

func (s *Session) publish(snap *Snapshot, nbytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDataError = ErrNone
	if snap.TimestampSeconds >= 0 {
		if s.haveLastTimestamp && snap.TimestampSeconds > s.lastTimestamp {
			dt := snap.TimestampSeconds - s.lastTimestamp
			if dt > 0 {
				s.lastFrameRate = 1.0 / dt
			}
		}
		s.lastTimestamp = snap.TimestampSeconds
		s.haveLastTimestamp = true
	}
	s.current = snap
	s.metrics.AddFrame(nbytes)
}

// Current returns the most recently published Snapshot, or nil if none
// has been received yet.
func (s *Session) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LastFrameRate returns frames per second computed from the timestamp
// delta between the last two measurement datagrams carrying a timestamp,
// or 0 if fewer than two have been observed.
func (s *Session) LastFrameRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrameRate
}

// LastDataError returns the error channel populated by the most recent
// Receive call.
func (s *Session) LastDataError() ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDataError
}

// StartMeasurement primes the stateful firewall pinhole unconditionally
// (the UDP receiver needs no separate arming step: Receive sets its own
// fresh read deadline on every call), then -- if the session holds a
// command connection (ModeCommunicating) -- requests the controller
// begin sending the measurement stream via "dtrack2 tracking start".
func (s *Session) StartMeasurement() error {
	if err := s.primeFirewall(); err != nil {
		s.logger.Printf("dtracksdk: warning: failed to prime stateful firewall: %v", err)
	}
	if s.command == nil {
		return fmt.Errorf("dtracksdk: no command connection for this connection mode (%s)", s.spec.Mode)
	}
	return s.command.StartTracking()
}

// StopMeasurement unconditionally interrupts any Receive currently
// blocked on the UDP receiver, then -- if the session holds a command
// connection -- requests the controller stop sending the measurement
// stream via "dtrack2 tracking stop". The interrupt happens regardless
// of command-connection presence or outcome, so a pending Receive never
// deadlocks on Close or StopMeasurement.
func (s *Session) StopMeasurement() error {
	s.receiver.Interrupt()
	if s.command == nil {
		return fmt.Errorf("dtracksdk: no command connection for this connection mode (%s)", s.spec.Mode)
	}
	return s.command.StopTracking()
}

// Command returns the session's command client, or nil if the
// connection mode has no TCP command channel.
func (s *Session) Command() *CommandClient {
	return s.command
}

// Feedback returns the session's feedback emitter. Always non-nil:
// feedback datagrams are sent best-effort toward whatever destination
// address is currently known.
func (s *Session) Feedback() *FeedbackEmitter {
	return s.feedback
}

// Metrics returns a point-in-time snapshot of this session's counters.
func (s *Session) Metrics() metrics.Snapshot {
	return s.metrics.Snapshot()
}

// RemoteAddr returns the controller's address for ModeCommunicating and
// ModeFirewall sessions, or the source address of the last received
// datagram otherwise, matching the feedback destination fallback rule.
func (s *Session) RemoteAddr() (net.Addr, error) {
	return s.feedbackDestination()
}

// feedbackDestination resolves where feedback datagrams go: a known
// controller host/feedback port when one was given on the connection
// string, else the source address of the last received measurement
// datagram.
func (s *Session) feedbackDestination() (net.Addr, error) {
	if s.spec.Host != "" {
		addr := net.JoinHostPort(s.spec.Host, strconv.Itoa(config.ControllerFeedbackPort))
		return net.ResolveUDPAddr("udp", addr)
	}
	if last := s.receiver.LastRemoteAddr(); last != nil {
		return last, nil
	}
	return nil, fmt.Errorf("dtracksdk: no known controller address and no datagram received yet")
}

func (s *Session) sendFeedback(b []byte, addr net.Addr) error {
	return s.receiver.Send(b, addr)
}

func (s *Session) logStatsPeriodically(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.logger.Printf("dtracksdk: session %s: %s", s.ID, s.Metrics())
		}
	}
}

// Close releases the session's sockets and connections and waits for
// its background goroutines to exit. Safe to call more than once; only
// the first call's error is returned by subsequent calls.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		var errs []error
		if err := s.eg.Wait(); err != nil {
			errs = append(errs, err)
		}
		if s.command != nil {
			if err := s.command.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.receiver.Close(); err != nil {
			errs = append(errs, err)
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// ensure commandproto.Exchanger is satisfied by *transport.TCPClient,
// the type CommandClient wraps -- a compile-time check, not a runtime one.
var _ commandproto.Exchanger = (*transport.TCPClient)(nil)
