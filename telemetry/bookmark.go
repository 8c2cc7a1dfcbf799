package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkScoreSurge   BookmarkType = "score_surge"
	BookmarkSwarm        BookmarkType = "swarm"
	BookmarkAccuracyDrop BookmarkType = "accuracy_drop"
)

// Bookmark marks a notable stats window.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector compares each window against recent history.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentNoodleMin int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:         make([]WindowStats, historySize),
		historySize:     historySize,
		recentNoodleMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkScoreSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSwarm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkAccuracyDrop(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if bd.recentNoodleMin < 0 || stats.Noodles < bd.recentNoodleMin {
		bd.recentNoodleMin = stats.Noodles
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkScoreSurge fires when a window scores more than twice the rolling average.
func (bd *BookmarkDetector) checkScoreSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.ScoreGained
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || stats.ScoreGained < 200 {
		return nil
	}

	if float64(stats.ScoreGained) > avg*2 {
		return &Bookmark{
			Type:        BookmarkScoreSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Scored %d, %.1fx the average (%.0f)", stats.ScoreGained, float64(stats.ScoreGained)/avg, avg),
		}
	}
	return nil
}

// checkSwarm fires when the hazard count triples from its recent minimum.
func (bd *BookmarkDetector) checkSwarm(stats WindowStats) *Bookmark {
	if bd.recentNoodleMin <= 0 {
		return nil
	}

	if stats.Noodles >= bd.recentNoodleMin*3 && stats.Noodles >= 10 {
		oldMin := bd.recentNoodleMin
		bd.recentNoodleMin = stats.Noodles
		return &Bookmark{
			Type:        BookmarkSwarm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Hazards grew from %d to %d", oldMin, stats.Noodles),
		}
	}
	return nil
}

// checkAccuracyDrop fires when the hit rate falls below half the rolling average.
func (bd *BookmarkDetector) checkAccuracyDrop(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.ShotsFired < 10 {
		return nil
	}

	var hits, shots int
	for _, h := range history {
		hits += h.Hits
		shots += h.ShotsFired
	}
	if shots == 0 || hits == 0 {
		return nil
	}
	avg := float64(hits) / float64(shots)

	if stats.HitRate < avg/2 {
		return &Bookmark{
			Type:        BookmarkAccuracyDrop,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Hit rate %.2f is below half the average (%.2f)", stats.HitRate, avg),
		}
	}
	return nil
}
