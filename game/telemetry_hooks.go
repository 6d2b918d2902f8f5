package game

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/50thycal/ant-farm/components"
	"github.com/50thycal/ant-farm/persistence"
	"github.com/50thycal/ant-farm/systems"
	"github.com/50thycal/ant-farm/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sampleColony())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleColony collects the end-of-window colony state.
func (s *Session) sampleColony() telemetry.ColonySample {
	sample := telemetry.ColonySample{
		Ants:        s.antCount,
		Stock:       s.stock,
		Food:        s.ants.Food.Len(),
		Granular:    s.grid.CountGranular(),
		ActiveCells: s.sand.ActiveCount(),
		FoodScent:   float64(s.fields.Mass(systems.FieldFood)),
		HomeScent:   float64(s.fields.Mass(systems.FieldHome)),
	}
	s.EachAnt(func(v AntView) {
		if v.Carrying() {
			sample.Carrying++
		}
		if int(v.Mode) < len(sample.ModeCounts) {
			sample.ModeCounts[v.Mode]++
		}
		if v.Profile == components.ProfileForager {
			sample.Hunger = append(sample.Hunger, float64(v.Hunger))
		}
	})
	return sample
}

// publishFrame sends the current state to observers every frame_every ticks.
func (s *Session) publishFrame() {
	every := s.cfg.Observer.FrameEvery
	if s.hub == nil || every <= 0 || s.tick%int32(every) != 0 || s.hub.Count() == 0 {
		return
	}
	if err := s.hub.Publish(s.Frame()); err != nil {
		slog.Error("failed to publish frame", "error", err)
	}
}

// autosave writes a snapshot file every snapshot_every ticks.
func (s *Session) autosave() {
	every := s.cfg.Persistence.SnapshotEvery
	if s.snapshotDir == "" || every <= 0 || s.tick%int32(every) != 0 {
		return
	}
	if _, err := s.SaveFile(s.snapshotDir); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}
}

// SaveFile writes a snapshot into dir and returns its path.
func (s *Session) SaveFile(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%08d.json.zst", s.tick))
	if err := persistence.WriteFile(path, s.Snapshot()); err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
	return path, nil
}
