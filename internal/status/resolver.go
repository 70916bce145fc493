// Package status derives the single display state for a library entry from
// the persisted download record and the latest feed values. Resolve is pure
// and total: absent data degrades to explicit unknown values, never an
// error, and unrecognized engine statuses pass through verbatim.
package status

import (
	"github.com/tinoosan/shelfd/internal/data"
)

// Inputs is everything a resolution call reads. Packet is the latest
// in-flight packet regardless of which entry it belongs to; Seeding is this
// entry's snapshot, nil when absent.
type Inputs struct {
	Entry    *data.LibraryEntry
	Packet   *data.ProgressPacket
	Seeding  *data.SeedingSnapshot
	Deleting bool
}

// Resolve maps the inputs onto exactly one DisplayState. The rules form a
// priority list evaluated top to bottom; the first match wins.
func Resolve(in Inputs) data.DisplayState {
	if in.Deleting {
		return data.DisplayState{Kind: data.StateDeleting}
	}

	rec := in.Entry.Download

	if p := in.Packet; p != nil && p.EntryID == in.Entry.ID {
		return resolveServiced(in.Entry, p)
	}

	if rec == nil {
		return data.DisplayState{Kind: data.StateFallback}
	}

	// Exact equality: the engine reports 1 only once every byte is on disk.
	if rec.Progress == 1 {
		if rec.Status.Kind == data.KindSeeding && rec.Downloader.TorrentClass() {
			var speed int64
			if in.Seeding != nil {
				speed = in.Seeding.UploadSpeed
			}
			return data.DisplayState{Kind: data.StateSeeding, Progress: 1, UploadSpeed: speed}
		}
		return data.DisplayState{Kind: data.StateFinished, Progress: 1}
	}

	switch rec.Status.Kind {
	case data.KindPaused:
		return data.DisplayState{
			Kind:     data.StatePaused,
			Progress: rec.Progress,
			Queued:   rec.Queued,
		}
	case data.KindActive:
		return data.DisplayState{
			Kind:            data.StateActive,
			Progress:        rec.Progress,
			BytesDownloaded: rec.BytesDownloaded,
			TotalSize:       totalSize(in.Entry, in.Packet),
		}
	default:
		return data.DisplayState{Kind: data.StateFallback, RawStatus: rec.Status.Raw}
	}
}

// resolveServiced handles the entry the latest packet belongs to.
func resolveServiced(e *data.LibraryEntry, p *data.ProgressPacket) data.DisplayState {
	if p.DownloadingMetadata {
		return data.DisplayState{Kind: data.StateNegotiatingMetadata}
	}
	if p.CheckingFiles {
		return data.DisplayState{
			Kind:     data.StateVerifyingFiles,
			Progress: p.Download.Progress,
		}
	}
	st := data.DisplayState{
		Kind:            data.StateTransferring,
		Progress:        p.Download.Progress,
		BytesDownloaded: p.Download.BytesDownloaded,
		TotalSize:       totalSize(e, p),
	}
	if p.Download.Downloader.TorrentClass() {
		st.NumPeers = p.NumPeers
		st.NumSeeds = p.NumSeeds
	}
	return st
}

// totalSize prefers the persisted fileSize, then the in-flight packet's
// total but only when that packet belongs to this entry. Another entry's
// packet must never leak its size into this one.
func totalSize(e *data.LibraryEntry, p *data.ProgressPacket) int64 {
	if e.Download != nil && e.Download.FileSize != nil {
		return *e.Download.FileSize
	}
	if p != nil && p.EntryID == e.ID && p.Download.FileSize != nil {
		return *p.Download.FileSize
	}
	return data.SizeUnknown
}
