// Package policy computes the ordered action set for a library entry. Each
// branch is a fixed table of rules so that ordering, visibility and
// enablement stay auditable and independently testable. Actions carry
// availability only; invoking them belongs to the caller.
package policy

import (
	"github.com/tinoosan/shelfd/internal/data"
)

// Inputs mirrors status.Inputs minus the seeding feed, which never gates an
// action, plus the user capabilities, which do.
type Inputs struct {
	Entry    *data.LibraryEntry
	Packet   *data.ProgressPacket
	Deleting bool
	Caps     data.UserCapabilities
}

// rule produces one action from the inputs. Rules within a branch run in
// declaration order, which is the presentation order.
type rule struct {
	kind    data.ActionKind
	visible func(Inputs) bool
	enabled func(Inputs) bool
}

func always(Inputs) bool { return true }

func notDeleting(in Inputs) bool { return !in.Deleting }

// completeRules applies when the persisted progress is exactly 1.
var completeRules = []rule{
	{kind: data.ActionInstall, visible: always, enabled: notDeleting},
	{
		kind: data.ActionStopSeeding,
		visible: func(in Inputs) bool {
			rec := in.Entry.Download
			return rec.Downloader.TorrentClass() && rec.Status.Kind == data.KindSeeding
		},
		enabled: notDeleting,
	},
	{
		kind: data.ActionResumeSeeding,
		visible: func(in Inputs) bool {
			rec := in.Entry.Download
			return rec.Downloader.TorrentClass() && rec.Status.Kind != data.KindSeeding
		},
		enabled: notDeleting,
	},
	{kind: data.ActionDelete, visible: always, enabled: notDeleting},
}

// runningRules applies while the entry is actively serviced or its record
// says the transfer is running.
var runningRules = []rule{
	{kind: data.ActionPause, visible: always, enabled: always},
	{kind: data.ActionCancel, visible: always, enabled: always},
}

// stoppedRules covers paused, queued and unrecognized statuses.
var stoppedRules = []rule{
	{
		kind:    data.ActionResume,
		visible: always,
		enabled: func(in Inputs) bool {
			rec := in.Entry.Download
			return !rec.Downloader.CredentialGated() || in.Caps.DebridCredential
		},
	},
	{kind: data.ActionCancel, visible: always, enabled: always},
}

// Actions returns the ordered action set for the entry. Exactly one branch
// fires per call; the branch is chosen from the persisted record (not the
// display state) so that a deleting entry still exposes its disabled set.
// Entries with no download record offer nothing.
func Actions(in Inputs) []data.Action {
	rec := in.Entry.Download
	if rec == nil {
		return nil
	}

	var rules []rule
	switch {
	case rec.Progress == 1:
		rules = completeRules
	case (in.Packet != nil && in.Packet.EntryID == in.Entry.ID) || rec.Status.Kind == data.KindActive:
		rules = runningRules
	default:
		rules = stoppedRules
	}

	out := make([]data.Action, 0, len(rules))
	for _, r := range rules {
		out = append(out, data.Action{
			Kind:    r.kind,
			Visible: r.visible(in),
			Enabled: r.enabled(in),
		})
	}
	return out
}
