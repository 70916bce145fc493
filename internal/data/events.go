package data

// ProgressPacket describes the single entry currently being actively
// serviced by the transfer engine. At most one packet is in flight at any
// instant; every other entry falls back to its persisted DownloadRecord.
type ProgressPacket struct {
	EntryID             string         `json:"entryId"`
	DownloadingMetadata bool           `json:"isDownloadingMetadata"`
	CheckingFiles       bool           `json:"isCheckingFiles"`
	Download            DownloadRecord `json:"download"`
	NumPeers            int            `json:"numPeers"`
	NumSeeds            int            `json:"numSeeds"`
}

// SeedingSnapshot is a per-entry upload-throughput reading, valid only for
// entries in the post-completion seeding phase.
type SeedingSnapshot struct {
	EntryID     string `json:"entryId"`
	UploadSpeed int64  `json:"uploadSpeed"`
}

// UserCapabilities is externally supplied configuration that gates some
// actions, e.g. whether the debrid credential is configured.
type UserCapabilities struct {
	DebridCredential bool `json:"debridCredential"`
}
