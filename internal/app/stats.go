package service

import (
	"runtime"

	"github.com/okian/focusfork/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// namedPlanner is implemented by planners that can report their generator.
type namedPlanner interface {
	Generator() string
}

// GetStats returns a snapshot of the service configuration and the Go
// runtime. It also refreshes the system gauges.
func (s *Service) GetStats() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	goroutines := runtime.NumGoroutine()

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, goroutines, avgPauseMs)

	planner := "none"
	if np, ok := s.planner.(namedPlanner); ok {
		planner = np.Generator()
	}

	return map[string]any{
		"defaultLanguage":   s.defaultLanguage,
		"defaultSkillLevel": string(s.defaultSkill),
		"planner":           planner,
		"chatEnabled":       s.ChatEnabled(),
		"memoryBytes":       m.Alloc,
		"goroutines":        goroutines,
		"gcPauseAvgMs":      avgPauseMs,
	}
}
