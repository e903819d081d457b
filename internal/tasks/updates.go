package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadSection Phase = iota
	FetchDetail
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadSection:
		return "load_section"
	case FetchDetail:
		return "fetch_detail"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func sectionLoadedUpdate(step, total int, s SectionResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] %s: %d movies (%s)", step, total, s.Name, len(s.Page.Results), s.Page.Source)
	if s.Err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, s.Name, s.Err)
	}
	return ProgressUpdate{
		Phase:   LoadSection,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    s,
	}
}

func fetchingDetailsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching details for %d movies...", total),
	}
}

func detailFetchedUpdate(step, total int, res PrefetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s, %d files)", step, total, res.Title, res.Source, len(res.Files)),
		Data:    res,
	}
}

func detailFailedUpdate(step, total int, res PrefetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.MovieID, res.Err),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
