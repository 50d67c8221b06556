package artwork

import (
	"os"
	"path/filepath"
	"strings"

	"showtag/internal/fileutil"
	"showtag/internal/scan"
	"showtag/internal/services"
)

// Stage places the resolved cover into the recording folder as a sidecar
// image named "folder.<ext>", the name media players pick up. When
// clear_existing_artwork is off, an existing folder image wins and the
// resolved one is skipped. When it is on, every existing sidecar image is
// renamed to <name>.old if retain_existing_artwork is set, deleted otherwise,
// before the resolved image is copied in.
func (r *Resolver) Stage(folder *scan.Folder, imagePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(imagePath))
	if ext == "" {
		ext = ".jpg"
	}
	target := filepath.Join(folder.Path, "folder"+ext)

	if !r.cover.ClearExistingArtwork {
		if existing := existingFolderImage(folder); existing != "" {
			return existing, nil
		}
	} else {
		for _, sidecar := range folder.SidecarImages {
			if err := r.displace(sidecar); err != nil {
				return "", services.Wrap(services.ErrWrite, "artwork", "clear sidecar", sidecar, err)
			}
		}
	}

	if err := fileutil.CopyFile(imagePath, target); err != nil {
		return "", services.Wrap(services.ErrWrite, "artwork", "stage sidecar", target, err)
	}
	return target, nil
}

// existingFolderImage returns the folder's "folder.*" sidecar, if it has one.
func existingFolderImage(folder *scan.Folder) string {
	for _, sidecar := range folder.SidecarImages {
		base := filepath.Base(sidecar)
		if strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), "folder") {
			return sidecar
		}
	}
	return ""
}

func (r *Resolver) displace(path string) error {
	if r.cover.RetainExistingArtwork {
		return os.Rename(path, path+".old")
	}
	return os.Remove(path)
}
