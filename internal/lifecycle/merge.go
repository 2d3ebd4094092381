package lifecycle

import (
	"time"

	"github.com/conductkit/conduct/pkg/models"
)

// mergeSubtask folds a freshly generated subtask into its persisted
// counterpart. Structural fields (title, dependencies, suggested agent,
// parallel flag) always come from the incoming artifact; progress fields
// (status, blocked reason, update timestamp) survive from the existing
// record so regenerating a bundle never loses tracked work.
//
// existing may be nil, meaning the seq is new to this feature.
func mergeSubtask(existing *Subtask, incoming models.Subtask, now time.Time) Subtask {
	merged := Subtask{
		ID:             incoming.ID,
		Seq:            incoming.Seq,
		Title:          incoming.Title,
		Status:         incoming.Status,
		DependsOn:      incoming.DependsOn,
		Parallel:       incoming.Parallel,
		SuggestedAgent: incoming.SuggestedAgent,
		UpdatedAt:      now,
	}
	if existing != nil {
		merged.Status = existing.Status
		merged.BlockedReason = existing.BlockedReason
		merged.UpdatedAt = existing.UpdatedAt
	}
	return merged
}

// mergeSubtasks applies mergeSubtask across the bundle's subtasks, then
// appends persisted subtasks whose seq the new bundle no longer mentions;
// they are preserved, not dropped.
func mergeSubtasks(existing []Subtask, incoming []models.Subtask, now time.Time) []Subtask {
	bySeq := make(map[string]*Subtask, len(existing))
	for i := range existing {
		bySeq[existing[i].Seq] = &existing[i]
	}

	incomingSeqs := make(map[string]bool, len(incoming))
	merged := make([]Subtask, 0, len(incoming))
	for _, in := range incoming {
		incomingSeqs[in.Seq] = true
		merged = append(merged, mergeSubtask(bySeq[in.Seq], in, now))
	}

	for _, prev := range existing {
		if !incomingSeqs[prev.Seq] {
			merged = append(merged, prev)
		}
	}
	return merged
}
