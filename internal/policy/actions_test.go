package policy

import (
	"reflect"
	"testing"

	"github.com/tinoosan/shelfd/internal/data"
)

func entry(downloader data.Downloader, status string, progress float64) *data.LibraryEntry {
	return &data.LibraryEntry{
		ID:       "x",
		Shop:     "steam",
		ObjectID: "100",
		Download: &data.DownloadRecord{
			Downloader: downloader,
			Status:     data.ParseRawStatus(status),
			Progress:   progress,
		},
	}
}

func kinds(actions []data.Action) []data.ActionKind {
	out := make([]data.ActionKind, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Kind)
	}
	return out
}

func visibleKinds(actions []data.Action) []data.ActionKind {
	out := make([]data.ActionKind, 0, len(actions))
	for _, a := range actions {
		if a.Visible {
			out = append(out, a.Kind)
		}
	}
	return out
}

func find(t *testing.T, actions []data.Action, kind data.ActionKind) data.Action {
	t.Helper()
	for _, a := range actions {
		if a.Kind == kind {
			return a
		}
	}
	t.Fatalf("action %s not in set %v", kind, kinds(actions))
	return data.Action{}
}

func TestActions_CompleteSeedingTorrent(t *testing.T) {
	// Scenario A.
	actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "seeding", 1)})

	want := []data.ActionKind{data.ActionInstall, data.ActionStopSeeding, data.ActionDelete}
	if got := visibleKinds(actions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected visible %v got %v", want, got)
	}
	for _, kind := range want {
		if a := find(t, actions, kind); !a.Enabled {
			t.Fatalf("expected %s enabled", kind)
		}
	}
	if a := find(t, actions, data.ActionResumeSeeding); a.Visible {
		t.Fatalf("resumeSeeding should not be visible while seeding")
	}
}

func TestActions_CompleteNotSeedingTorrent(t *testing.T) {
	actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "completed", 1)})

	want := []data.ActionKind{data.ActionInstall, data.ActionResumeSeeding, data.ActionDelete}
	if got := visibleKinds(actions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected visible %v got %v", want, got)
	}
}

func TestActions_CompleteHTTP(t *testing.T) {
	// Scenario B: no seeding actions for non-torrent backends.
	actions := Actions(Inputs{Entry: entry(data.DownloaderHTTP, "completed", 1)})

	want := []data.ActionKind{data.ActionInstall, data.ActionDelete}
	if got := visibleKinds(actions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected visible %v got %v", want, got)
	}
}

func TestActions_CompleteWhileDeleting(t *testing.T) {
	// Scenario E: the set stays offered but disabled.
	actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "seeding", 1), Deleting: true})
	for _, a := range actions {
		if a.Enabled {
			t.Fatalf("expected %s disabled while deleting", a.Kind)
		}
	}
	if a := find(t, actions, data.ActionInstall); !a.Visible {
		t.Fatalf("install should stay visible while deleting")
	}
}

func TestActions_Running(t *testing.T) {
	t.Run("active status", func(t *testing.T) {
		actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "active", 0.5)})
		want := []data.ActionKind{data.ActionPause, data.ActionCancel}
		if got := kinds(actions); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v got %v", want, got)
		}
		for _, a := range actions {
			if !a.Enabled || !a.Visible {
				t.Fatalf("expected %s visible and enabled", a.Kind)
			}
		}
	})

	t.Run("actively serviced overrides stopped status", func(t *testing.T) {
		e := entry(data.DownloaderTorrent, "paused", 0.5)
		p := &data.ProgressPacket{EntryID: "x"}
		actions := Actions(Inputs{Entry: e, Packet: p})
		want := []data.ActionKind{data.ActionPause, data.ActionCancel}
		if got := kinds(actions); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v got %v", want, got)
		}
	})

	t.Run("packet for another entry does not trigger running branch", func(t *testing.T) {
		e := entry(data.DownloaderTorrent, "paused", 0.5)
		p := &data.ProgressPacket{EntryID: "other"}
		actions := Actions(Inputs{Entry: e, Packet: p})
		want := []data.ActionKind{data.ActionResume, data.ActionCancel}
		if got := kinds(actions); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v got %v", want, got)
		}
	})
}

func TestActions_Stopped(t *testing.T) {
	t.Run("resume enabled by default", func(t *testing.T) {
		actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "paused", 0.5)})
		if a := find(t, actions, data.ActionResume); !a.Enabled {
			t.Fatalf("expected resume enabled")
		}
	})

	t.Run("debrid resume gated on credential", func(t *testing.T) {
		// Scenario D.
		e := entry(data.DownloaderDebrid, "paused", 0.5)
		actions := Actions(Inputs{Entry: e})
		if a := find(t, actions, data.ActionResume); a.Enabled {
			t.Fatalf("expected resume disabled without debrid credential")
		}
		if a := find(t, actions, data.ActionCancel); !a.Enabled {
			t.Fatalf("expected cancel enabled regardless")
		}

		actions = Actions(Inputs{Entry: e, Caps: data.UserCapabilities{DebridCredential: true}})
		if a := find(t, actions, data.ActionResume); !a.Enabled {
			t.Fatalf("expected resume enabled with credential")
		}
	})

	t.Run("unrecognized status falls into stopped branch", func(t *testing.T) {
		actions := Actions(Inputs{Entry: entry(data.DownloaderTorrent, "repairing", 0.5)})
		want := []data.ActionKind{data.ActionResume, data.ActionCancel}
		if got := kinds(actions); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v got %v", want, got)
		}
	})
}

func TestActions_NoDownloadRecord(t *testing.T) {
	e := &data.LibraryEntry{ID: "x", Shop: "steam", ObjectID: "100"}
	if actions := Actions(Inputs{Entry: e}); len(actions) != 0 {
		t.Fatalf("expected no actions for untracked entry, got %v", kinds(actions))
	}
}

func TestActions_Idempotent(t *testing.T) {
	in := Inputs{Entry: entry(data.DownloaderTorrent, "seeding", 1)}
	if !reflect.DeepEqual(Actions(in), Actions(in)) {
		t.Fatalf("expected identical action sets for identical inputs")
	}
}
