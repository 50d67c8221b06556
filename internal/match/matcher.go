package match

import (
	"context"
	"log/slog"
	"sort"

	"showtag/internal/catalog"
	"showtag/internal/logging"
	"showtag/internal/scan"
	"showtag/internal/services"
)

// Status reports how a folder fared against the catalog.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusAmbiguous Status = "ambiguous"
	StatusUnmatched Status = "unmatched"
)

// Result is the outcome of matching one folder.
type Result struct {
	Status Status
	// Shnid and MD5Key identify the matched recording and checksum file.
	// They are zero unless Status is StatusMatched.
	Shnid  int64
	MD5Key string
	// Candidates lists the contending checksum files when Status is
	// StatusAmbiguous: either partial-overlap candidates none of which
	// matched exactly, or exact matches under different shnids.
	Candidates []catalog.Candidate
}

// CatalogReader is the slice of the catalog store matching needs.
type CatalogReader interface {
	Candidates(ctx context.Context, checksums []string) ([]catalog.Candidate, error)
	ChecksumSet(ctx context.Context, md5key string) ([]string, error)
}

// Matcher resolves folders to catalog recordings.
type Matcher struct {
	catalog CatalogReader
	logger  *slog.Logger
}

// NewMatcher builds a Matcher over the given catalog.
func NewMatcher(reader CatalogReader, logger *slog.Logger) *Matcher {
	return &Matcher{catalog: reader, logger: logging.NewComponentLogger(logger, "match")}
}

// Match compares the folder's fingerprint set with the catalog.
func (m *Matcher) Match(ctx context.Context, folder *scan.Folder) (*Result, error) {
	checksums := folder.Checksums()
	if len(checksums) == 0 {
		return nil, services.Wrap(services.ErrMetadataImport, "matching", "fingerprints", "folder has no audio files", nil)
	}

	candidates, err := m.catalog.Candidates(ctx, checksums)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadataImport, "matching", "catalog lookup", "", err)
	}

	var exact []catalog.Candidate
	for _, candidate := range candidates {
		set, err := m.catalog.ChecksumSet(ctx, candidate.MD5Key)
		if err != nil {
			return nil, services.Wrap(services.ErrMetadataImport, "matching", "checksum set", candidate.MD5Key, err)
		}
		if equalSets(checksums, set) {
			exact = append(exact, candidate)
		}
	}

	m.logger.DebugContext(ctx, "fingerprint comparison complete",
		logging.Int("checksums", len(checksums)),
		logging.Int("overlapping", len(candidates)),
		logging.Int("exact", len(exact)))

	if len(exact) == 0 {
		// Sharing some but not all fingerprints with the catalog is never
		// silently accepted and never silently dropped either: a partial
		// overlap usually means a retracking or an incomplete copy of a
		// known recording, which a person has to look at.
		if len(candidates) > 0 {
			return &Result{Status: StatusAmbiguous, Candidates: candidates}, nil
		}
		return &Result{Status: StatusUnmatched}, nil
	}

	shnids := distinctShnids(exact)
	if len(shnids) == 1 {
		return &Result{Status: StatusMatched, Shnid: exact[0].Shnid, MD5Key: exact[0].MD5Key}, nil
	}

	// Identical fingerprint sets under different shnids: the folder name's
	// embedded id is the only thing left to tell them apart.
	if folder.Shnid != 0 {
		for _, candidate := range exact {
			if candidate.Shnid == folder.Shnid {
				m.logger.InfoContext(ctx, "folder name disambiguated identical fingerprint sets",
					logging.Int64("shnid", candidate.Shnid))
				return &Result{Status: StatusMatched, Shnid: candidate.Shnid, MD5Key: candidate.MD5Key}, nil
			}
		}
	}

	return &Result{Status: StatusAmbiguous, Candidates: exact}, nil
}

// equalSets reports whether two sorted, de-duplicated checksum slices hold
// the same members. The catalog side may repeat checksums across rows, so it
// is de-duplicated here.
func equalSets(folder, candidate []string) bool {
	unique := make([]string, 0, len(candidate))
	seen := make(map[string]struct{}, len(candidate))
	for _, checksum := range candidate {
		if _, dup := seen[checksum]; dup {
			continue
		}
		seen[checksum] = struct{}{}
		unique = append(unique, checksum)
	}
	sort.Strings(unique)

	if len(folder) != len(unique) {
		return false
	}
	for i := range folder {
		if folder[i] != unique[i] {
			return false
		}
	}
	return true
}

func distinctShnids(candidates []catalog.Candidate) []int64 {
	seen := make(map[int64]struct{}, len(candidates))
	var shnids []int64
	for _, candidate := range candidates {
		if _, dup := seen[candidate.Shnid]; dup {
			continue
		}
		seen[candidate.Shnid] = struct{}{}
		shnids = append(shnids, candidate.Shnid)
	}
	return shnids
}
