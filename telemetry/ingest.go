package telemetry

import (
	"errors"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/cpu-pulse/channel"
)

// Stream names one of the producer channels feeding the Ingestor.
type Stream int

const (
	StreamCPU Stream = iota
	StreamIdentity
	StreamProcesses
	streamCount
)

// Streams lists every stream in tick order.
var Streams = []Stream{StreamCPU, StreamIdentity, StreamProcesses}

func (s Stream) String() string {
	switch s {
	case StreamCPU:
		return "cpu"
	case StreamIdentity:
		return "identity"
	case StreamProcesses:
		return "processes"
	default:
		return "unknown"
	}
}

// Sources are the receiving ends of the producer channels. A nil receiver
// means the stream has no producer and is skipped.
type Sources struct {
	CPU       *channel.Receiver[CPUSample]
	Identity  *channel.Receiver[IdentitySample]
	Processes *channel.Receiver[ProcessCountSample]
}

// TickReport summarizes one Tick.
type TickReport struct {
	// CPU, Identity and Processes report which streams applied a sample.
	CPU       bool
	Identity  bool
	Processes bool
	// Discarded counts the intermediate values dropped by drain-to-latest
	// across all streams.
	Discarded int
	// Rejected is the error from applying the CPU sample, if any.
	Rejected error
	// NewlySilent lists streams first observed disconnected on this tick.
	NewlySilent []Stream
}

// Applied reports whether any stream applied a sample.
func (r TickReport) Applied() bool {
	return r.CPU || r.Identity || r.Processes
}

// Ingestor moves the latest pending snapshot of each stream into an
// Aggregator once per refresh tick. Like the Aggregator it belongs to a
// single goroutine.
type Ingestor struct {
	agg     *Aggregator
	sources Sources
	logger  *slog.Logger

	silent         [streamCount]bool
	loggedMismatch map[int]bool
	rejected       uint64
	discarded      uint64
}

// NewIngestor returns an Ingestor applying src to agg. A nil agg gets a fresh
// Aggregator and a nil logger discards output.
func NewIngestor(agg *Aggregator, src Sources, logger *slog.Logger) *Ingestor {
	if agg == nil {
		agg = NewAggregator()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ingestor{
		agg:            agg,
		sources:        src,
		logger:         logger,
		loggedMismatch: make(map[int]bool),
	}
}

// Aggregator returns the state the Ingestor applies to.
func (in *Ingestor) Aggregator() *Aggregator {
	return in.agg
}

// Tick drains every stream without blocking and applies the most recent
// value of each. Empty streams are left alone. A stream whose producers have
// all gone away is marked silent once and keeps its last applied value.
func (in *Ingestor) Tick() TickReport {
	var rep TickReport

	if rx := in.sources.CPU; rx != nil && !in.silent[StreamCPU] {
		s, dropped, status := rx.DrainLatest()
		rep.Discarded += dropped
		switch status {
		case channel.Received:
			if err := in.agg.ApplyCPUSample(s); err != nil {
				rep.Rejected = err
				in.reject(err)
			} else {
				rep.CPU = true
			}
		case channel.Disconnected:
			rep.NewlySilent = append(rep.NewlySilent, in.markSilent(StreamCPU))
		}
	}

	if rx := in.sources.Identity; rx != nil && !in.silent[StreamIdentity] {
		s, dropped, status := rx.DrainLatest()
		rep.Discarded += dropped
		switch status {
		case channel.Received:
			in.agg.ApplyIdentitySample(s)
			rep.Identity = true
		case channel.Disconnected:
			rep.NewlySilent = append(rep.NewlySilent, in.markSilent(StreamIdentity))
		}
	}

	if rx := in.sources.Processes; rx != nil && !in.silent[StreamProcesses] {
		s, dropped, status := rx.DrainLatest()
		rep.Discarded += dropped
		switch status {
		case channel.Received:
			in.agg.ApplyProcessCountSample(s)
			rep.Processes = true
		case channel.Disconnected:
			rep.NewlySilent = append(rep.NewlySilent, in.markSilent(StreamProcesses))
		}
	}

	in.discarded += uint64(rep.Discarded)
	return rep
}

func (in *Ingestor) markSilent(s Stream) Stream {
	in.silent[s] = true
	in.logger.Warn("telemetry stream disconnected, holding last value", "stream", s.String())
	return s
}

func (in *Ingestor) reject(err error) {
	in.rejected++
	var mm *CoreCountMismatchError
	if !errors.As(err, &mm) {
		in.logger.Warn("cpu sample rejected", "error", err)
		return
	}
	if in.loggedMismatch[mm.Got] {
		return
	}
	in.loggedMismatch[mm.Got] = true
	in.logger.Warn("cpu sample rejected", "want_cores", mm.Want, "got_cores", mm.Got)
}

// Silent reports whether stream s has been observed disconnected.
func (in *Ingestor) Silent(s Stream) bool {
	if s < 0 || s >= streamCount {
		return false
	}
	return in.silent[s]
}

// Rejected returns the number of CPU samples refused by the Aggregator.
func (in *Ingestor) Rejected() uint64 {
	return in.rejected
}

// Discarded returns the total number of intermediate values dropped.
func (in *Ingestor) Discarded() uint64 {
	return in.discarded
}
