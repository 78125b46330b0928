package artifact

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"provisioner/internal/logger"
	"provisioner/internal/state"
)

// Artifact describes a release asset a setup entry wants on disk: an archive
// or raw binary downloaded by URL, installed into a bin directory.
type Artifact struct {
	Name    string
	Version string
	URL     string
}

// DefaultBinDir is where artifact executables land when the owning entry has
// no working directory of its own.
func DefaultBinDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/usr/local/bin"
	}
	return filepath.Join(home, ".local", "bin")
}

// Sync fetches every artifact whose recorded version differs from the wanted
// one and installs it into destDir, updating st as it goes. Artifacts already
// at the wanted version are skipped. st may be nil, in which case everything
// is fetched unconditionally and nothing is recorded.
//
// Returns false if any artifact failed; the remaining artifacts are still
// attempted.
func Sync(artifacts []Artifact, destDir string, st *state.State) bool {
	result := true

	for _, art := range artifacts {
		if st != nil {
			if cur, ok := st.Artifacts[art.Name]; ok && cur.Version == art.Version {
				logger.Info("[INFO] %s version %s is current. Skipping.\n", art.Name, art.Version)
				continue
			}
		}

		logger.Info("[INFO] Fetching %s@%s...\n", art.Name, art.Version)
		installPath, err := fetch(art, destDir)
		if err != nil {
			logger.Error("[ERROR] Failed to fetch %s@%s: %v\n", art.Name, art.Version, err)
			result = false
			continue
		}

		logger.Info("[INFO] Installed %s at %s\n", art.Name, installPath)
		if st != nil {
			st.Artifacts[art.Name] = state.ArtifactState{
				Version:     art.Version,
				URL:         art.URL,
				InstallPath: installPath,
			}
		}
	}

	return result
}

// fetch downloads the artifact, extracts it when it is an archive, and
// installs the contained executable into destDir. Raw (non-archive) downloads
// are installed directly. Returns the installed executable's path.
func fetch(art Artifact, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create destination directory %s: %w", destDir, err)
	}

	downloaded := filepath.Join(os.TempDir(), path.Base(art.URL))
	if err := downloadFile(art.URL, downloaded); err != nil {
		return "", err
	}

	if !isArchive(downloaded) {
		// Raw binary: install it under the artifact's name.
		target := filepath.Join(destDir, art.Name)
		if err := copyFile(downloaded, target, 0755); err != nil {
			return "", err
		}
		return target, nil
	}

	return extractAndInstall(downloaded, art.Name, destDir)
}

// downloadFile downloads the content located at the specified URL and saves
// it to the destination path. It returns an error if the download or the file
// write fails, and treats any non-200 response as a failure.
func downloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	// Ensure the response body stream is closed when the function returns.
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close destination file: %v\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}

// copyFile copies src to dst with the given mode, creating missing parent
// directories of dst.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return nil
}
