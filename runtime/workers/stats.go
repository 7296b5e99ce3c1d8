package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"chat-relay/observability"

	"github.com/shirou/gopsutil/process"
)

// Stats periodically logs relay counters together with process-level
// metrics (RSS, CPU). It is observation only and touches no relay
// state beyond the shared StatsManager.
type Stats struct {
	log      *slog.Logger
	stats    *observability.StatsManager
	interval time.Duration
}

func NewStats(log *slog.Logger, stats *observability.StatsManager, interval time.Duration) *Stats {
	return &Stats{log: log, stats: stats, interval: interval}
}

func (w *Stats) Run(ctx context.Context) error {
	w.log.Info("Starting relay stats worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			latest := w.stats.GetLatest()
			w.log.Info("Relay stats",
				"subscribers", latest.Subscribers,
				"ingested", latest.MessagesIngested,
				"broadcast", latest.MessagesBroadcast,
				"dropped", latest.DroppedDeliveries,
				"login_ok", latest.LoginSuccesses,
				"login_fail", latest.LoginFailures,
				"protocol_errors", latest.ProtocolErrors,
				"persist_failures", latest.PersistFailures,
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

// getSelfStats retrieves memory and CPU usage for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
