package recon

import "github.com/magoslab/calmirror/internal/model"

// ArchiveStatus projects an active status whose event window has elapsed to
// its terminal counterpart: unacknowledged events (NEW, CHANGED) were missed,
// confirmed ones completed. ok is false for statuses the archiver must not
// touch.
func ArchiveStatus(s model.Status) (to model.Status, ok bool) {
	switch s {
	case model.StatusNew, model.StatusChanged:
		return model.StatusMissed, true
	case model.StatusConfirmed:
		return model.StatusCompleted, true
	}
	return s, false
}
