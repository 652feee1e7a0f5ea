package metrics

import (
	"time"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// StatsProvider reports the current state of the media cache.
type StatsProvider interface {
	CacheStats() (Stats, error)
}

// Stats holds the current cache statistics
type Stats struct {
	Entries   int
	SizeBytes int64
}

// Collector periodically refreshes the cache gauges
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	doneChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit
func (c *Collector) Stop() {
	close(c.stopChan)
	<-c.doneChan
}

func (c *Collector) collectLoop() {
	defer close(c.doneChan)

	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats, err := c.statsProvider.CacheStats()
	if err != nil {
		logging.Warn("Failed to collect cache stats: %v", err)
		return
	}

	CacheEntries.Set(float64(stats.Entries))
	CacheSizeBytes.Set(float64(stats.SizeBytes))

	logging.Debug("Metrics collected: cache entries=%d, size=%d bytes", stats.Entries, stats.SizeBytes)
}
