package updater

import (
	"fmt"
)

// Slot is one multipart field of an upload batch.
type Slot struct {
	Field    string
	Artifact EncryptedArtifact
}

// Batch is the ordered set of encrypted artifacts uploaded in one request.
// Add is the only place slot names are assigned.
//
// Thread-Safety: NOT safe for concurrent use.
type Batch struct {
	limit int
	slots []Slot
}

// NewBatch creates an empty batch holding at most limit artifacts.
// A limit <= 0 selects DefaultMaxArtifacts.
func NewBatch(limit int) *Batch {
	if limit <= 0 {
		limit = DefaultMaxArtifacts
	}
	return &Batch{limit: limit}
}

// Add appends an artifact under the next slot name (file1, file2, ...).
//
// When the batch already holds limit artifacts the new artifact is still
// appended and returned, together with ErrBatchCapacityExceeded, so the
// caller can report which artifact overflowed before aborting.
func (b *Batch) Add(a EncryptedArtifact) (Slot, error) {
	slot := Slot{
		Field:    fmt.Sprintf("%s%d", SlotFieldPrefix, len(b.slots)+1),
		Artifact: a,
	}
	b.slots = append(b.slots, slot)

	if len(b.slots) > b.limit {
		return slot, fmt.Errorf("artifact %q would occupy %s but only %d slot(s) are available: %w",
			a.Name, slot.Field, b.limit, ErrBatchCapacityExceeded)
	}
	return slot, nil
}

// Slots returns the assigned slots in production order.
func (b *Batch) Slots() []Slot {
	out := make([]Slot, len(b.slots))
	copy(out, b.slots)
	return out
}

// Fields returns the slot field names in order.
func (b *Batch) Fields() []string {
	fields := make([]string, len(b.slots))
	for i, s := range b.slots {
		fields[i] = s.Field
	}
	return fields
}

// Len returns the number of assigned slots.
func (b *Batch) Len() int {
	return len(b.slots)
}

// Limit returns the batch capacity.
func (b *Batch) Limit() int {
	return b.limit
}
