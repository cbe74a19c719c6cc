// Package dns resolves cluster LoadBalancer addresses against a configured
// DNS server. Lookups return every A record so that round-robin targets keep
// all of their valid addresses; resolution faults degrade to "no address"
// and feed advisory statistics instead of propagating.
package dns

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	mdns "github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/validation"
)

// AddressResolver resolves a cluster's LoadBalancer IP addresses. A nil or
// empty result means the name could not be resolved.
type AddressResolver interface {
	Resolve(clusterName, domainName string) []string
}

// Stats is a snapshot of the resolver's advisory counters.
type Stats struct {
	RequestCount       int     `json:"request_count"`
	SuccessCount       int     `json:"success_count"`
	FailureCount       int     `json:"failure_count"`
	TotalTimeSeconds   float64 `json:"total_time_seconds"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
}

// Options configures a Resolver.
type Options struct {
	// Server is the DNS server the resolver queries. Port 53 is assumed
	// unless the address carries an explicit port.
	Server string
	// Timeout bounds each lookup.
	Timeout time.Duration
	// ResolutionPath is the hostname template, with {cluster} and {domain}
	// placeholders.
	ResolutionPath string
	// DefaultDomain is used when a cluster carries no domain name.
	DefaultDomain string
}

// Resolver performs A-record lookups against a specific DNS server.
type Resolver struct {
	opts   Options
	client *mdns.Client
	logger *zap.Logger

	mu       sync.Mutex
	requests int
	success  int
	failure  int
	elapsed  time.Duration
}

var _ AddressResolver = (*Resolver)(nil)

// New creates a Resolver.
func New(opts Options, logger *zap.Logger) *Resolver {
	client := &mdns.Client{Timeout: opts.Timeout}
	return &Resolver{opts: opts, client: client, logger: logger}
}

// Hostname builds the lookup hostname for a cluster from the configured
// resolution path template.
func (r *Resolver) Hostname(clusterName, domainName string) string {
	if domainName == "" {
		domainName = r.opts.DefaultDomain
	}
	name := validation.NormalizeClusterName(clusterName)
	replacer := strings.NewReplacer("{cluster}", name, "{domain}", domainName)
	return replacer.Replace(r.opts.ResolutionPath)
}

// Resolve looks up all A records for the cluster's hostname. NXDOMAIN, an
// empty answer, and timeouts all yield nil; other faults are logged and
// likewise yield nil. Every call is counted in the resolver's statistics.
func (r *Resolver) Resolve(clusterName, domainName string) []string {
	hostname := r.Hostname(clusterName, domainName)

	start := time.Now()
	addrs, err := r.lookup(hostname)
	elapsed := time.Since(start)

	r.record(len(addrs) > 0, elapsed)

	switch {
	case err != nil:
		r.logger.Debug("dns resolution failed",
			zap.String("hostname", hostname),
			zap.String("server", r.opts.Server),
			zap.Error(err))
		return nil
	case len(addrs) == 0:
		r.logger.Debug("no A records found",
			zap.String("hostname", hostname),
			zap.String("server", r.opts.Server))
		return nil
	default:
		r.logger.Debug("resolved hostname",
			zap.String("hostname", hostname),
			zap.Strings("addresses", addrs))
		return addrs
	}
}

func (r *Resolver) lookup(hostname string) ([]string, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(hostname), mdns.TypeA)

	addr := r.opts.Server
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}

	in, _, err := r.client.Exchange(msg, addr)
	if err != nil {
		return nil, err
	}
	if in.Rcode == mdns.RcodeNameError {
		// NXDOMAIN is "no result", not a fault.
		return nil, nil
	}
	if in.Rcode != mdns.RcodeSuccess {
		return nil, fmt.Errorf("dns rcode %s", mdns.RcodeToString[in.Rcode])
	}

	var addrs []string
	for _, rr := range in.Answer {
		if a, ok := rr.(*mdns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs, nil
}

func (r *Resolver) record(success bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	if success {
		r.success++
	} else {
		r.failure++
	}
	r.elapsed += elapsed
}

// Stats returns a snapshot of the resolver's counters.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		RequestCount:     r.requests,
		SuccessCount:     r.success,
		FailureCount:     r.failure,
		TotalTimeSeconds: r.elapsed.Seconds(),
	}
	if r.requests > 0 {
		stats.AverageTimeSeconds = stats.TotalTimeSeconds / float64(r.requests)
	}
	return stats
}

// ResetStats zeroes the resolver's counters.
func (r *Resolver) ResetStats() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = 0
	r.success = 0
	r.failure = 0
	r.elapsed = 0
}
