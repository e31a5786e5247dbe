package circuits

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vocdoni/gnark-aesgcm/config"
	"github.com/vocdoni/gnark-aesgcm/log"
	"github.com/vocdoni/gnark-aesgcm/types"
	"golang.org/x/sync/errgroup"
)

// CheckHashes determines if the sha256 of the artifacts is checked when they
// are loaded or downloaded. Setting AESGCM_CHECK_HASHES to false or 0
// disables it.
var CheckHashes = true

// BaseDir is the artifacts cache. Files are named after the hex encoded
// sha256 of their content. Defaults to AESGCM_ARTIFACTS_DIR or to a
// directory under the user cache dir.
var BaseDir string

// ErrArtifactNotFound is returned by Load when the artifact is not cached.
var ErrArtifactNotFound = errors.New("artifact not found in cache")

// progressInterval is the minimum time between two download progress logs.
const progressInterval = 10 * time.Second

func init() {
	if v := os.Getenv(config.CheckHashesEnv); v != "" {
		if strings.ToLower(v) == "false" || v == "0" {
			CheckHashes = false
		}
	}
	if dir := os.Getenv(config.ArtifactsDirEnv); dir != "" {
		BaseDir = dir
	} else if cache, err := os.UserCacheDir(); err == nil && cache != "" {
		BaseDir = filepath.Join(cache, config.DefaultArtifactsDirName)
	} else {
		log.Warnf("unable to access user cache directory, using temporary directory: %v", err)
		BaseDir = filepath.Join(os.TempDir(), config.DefaultArtifactsDirName)
	}
	if err := os.MkdirAll(BaseDir, 0o755); err != nil {
		log.Errorf("failed to create artifacts dir %s: %v", BaseDir, err)
	}
}

// Artifact is a content addressed file of the cache: a serialized constraint
// system, proving key or verifying key. Content is filled by Load, Download
// or Store.
type Artifact struct {
	RemoteURL string
	Hash      types.HexBytes
	Content   []byte
}

// Path is the location of the artifact in the cache.
func (a *Artifact) Path() string {
	return filepath.Join(BaseDir, a.Hash.Hex())
}

// Load reads the artifact from the cache unless its content is already in
// memory. The hash must be set.
func (a *Artifact) Load() error {
	if len(a.Content) != 0 {
		return nil
	}
	if len(a.Hash) == 0 {
		return fmt.Errorf("artifact hash not provided")
	}
	content, err := os.ReadFile(a.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, a.Hash.Hex())
		}
		return fmt.Errorf("error reading artifact %s: %w", a.Path(), err)
	}
	if err := checkHash(content, a.Hash); err != nil {
		return fmt.Errorf("artifact %s: %w", a.Path(), err)
	}
	a.Content = content
	return nil
}

// Download fetches the artifact from RemoteURL into the cache, unless it is
// already there, and loads it.
func (a *Artifact) Download(ctx context.Context) error {
	if err := a.Load(); err == nil {
		return nil
	}
	if a.RemoteURL == "" {
		return fmt.Errorf("artifact not cached and remote url not provided")
	}
	if err := downloadAndStore(ctx, a.Hash, a.RemoteURL); err != nil {
		return err
	}
	return a.Load()
}

// Store writes content to the cache under its sha256 and sets the hash
// and content of the artifact.
func (a *Artifact) Store(content []byte) error {
	hash := sha256.Sum256(content)
	a.Hash = hash[:]
	a.Content = content
	if err := os.MkdirAll(BaseDir, 0o755); err != nil {
		return fmt.Errorf("error creating artifacts dir: %w", err)
	}
	// write and rename so a concurrent Load never sees a partial file
	tmp, err := os.CreateTemp(BaseDir, a.Hash.Hex()+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating artifact file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing artifact file: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.Path()); err != nil {
		return fmt.Errorf("error renaming artifact file: %w", err)
	}
	log.Debugw("artifact stored", "path", a.Path(), "size", len(content))
	return nil
}

// CircuitArtifacts groups the constraint system and the groth16 keys of a
// circuit instance.
type CircuitArtifacts struct {
	circuitDefinition *Artifact
	provingKey        *Artifact
	verifyingKey      *Artifact
}

// NewCircuitArtifacts groups the given artifacts. Any of them may be nil.
func NewCircuitArtifacts(circuit, provingKey, verifyingKey *Artifact) *CircuitArtifacts {
	return &CircuitArtifacts{
		circuitDefinition: circuit,
		provingKey:        provingKey,
		verifyingKey:      verifyingKey,
	}
}

func (ca *CircuitArtifacts) named() map[string]*Artifact {
	all := map[string]*Artifact{}
	if ca.circuitDefinition != nil {
		all["circuit definition"] = ca.circuitDefinition
	}
	if ca.provingKey != nil {
		all["proving key"] = ca.provingKey
	}
	if ca.verifyingKey != nil {
		all["verifying key"] = ca.verifyingKey
	}
	return all
}

// LoadAll loads every artifact from the cache.
func (ca *CircuitArtifacts) LoadAll() error {
	for name, a := range ca.named() {
		if err := a.Load(); err != nil {
			return fmt.Errorf("error loading %s: %w", name, err)
		}
	}
	return nil
}

// DownloadAll downloads the missing artifacts concurrently.
func (ca *CircuitArtifacts) DownloadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, a := range ca.named() {
		g.Go(func() error {
			if err := a.Download(ctx); err != nil {
				return fmt.Errorf("error downloading %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// CircuitDefinition returns the serialized constraint system, or nil.
func (ca *CircuitArtifacts) CircuitDefinition() types.HexBytes {
	if ca.circuitDefinition == nil {
		return nil
	}
	return ca.circuitDefinition.Content
}

// ProvingKey returns the serialized proving key, or nil.
func (ca *CircuitArtifacts) ProvingKey() types.HexBytes {
	if ca.provingKey == nil {
		return nil
	}
	return ca.provingKey.Content
}

// VerifyingKey returns the serialized verifying key, or nil.
func (ca *CircuitArtifacts) VerifyingKey() types.HexBytes {
	if ca.verifyingKey == nil {
		return nil
	}
	return ca.verifyingKey.Content
}

func checkHash(content, expected []byte) error {
	if !CheckHashes {
		return nil
	}
	if got := sha256.Sum256(content); !bytes.Equal(got[:], expected) {
		return fmt.Errorf("hash mismatch: expected %x, got %x", expected, got)
	}
	return nil
}

// progressWriter counts the downloaded bytes and logs them periodically.
type progressWriter struct {
	url     string
	total   int64
	length  int64
	lastLog time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.total += int64(len(b))
	if time.Since(p.lastLog) >= progressInterval {
		p.lastLog = time.Now()
		var percentage float64
		if p.length > 0 {
			percentage = float64(p.total) / float64(p.length) * 100
		}
		log.Debugw("download artifacts", "url", p.url,
			"downloaded", fmt.Sprintf("%.2fMiB", float64(p.total)/(1024*1024)),
			"progress", fmt.Sprintf("%.2f%%", percentage))
	}
	return len(b), nil
}

// downloadAndStore downloads fileURL into the cache. An existing partial
// download is resumed with a Range request.
func downloadAndStore(ctx context.Context, expectedHash types.HexBytes, fileURL string) error {
	if _, err := url.Parse(fileURL); err != nil {
		return fmt.Errorf("error parsing the file URL provided: %w", err)
	}
	path := filepath.Join(BaseDir, expectedHash.Hex())
	partialPath := path + ".partial"

	var startByte int64
	if info, err := os.Stat(partialPath); err == nil {
		startByte = info.Size()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("error creating the file request: %w", err)
	}
	if startByte > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", startByte))
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error performing the request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("error downloading file %s: http status: %d", fileURL, res.StatusCode)
	}

	hasher := sha256.New()
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if startByte > 0 && res.StatusCode == http.StatusPartialContent {
		flags = os.O_APPEND | os.O_WRONLY
		// the hash covers the bytes already on disk
		existing, err := os.Open(partialPath)
		if err != nil {
			return fmt.Errorf("error opening partial artifact: %w", err)
		}
		_, err = io.Copy(hasher, existing)
		existing.Close()
		if err != nil {
			return fmt.Errorf("error hashing partial artifact: %w", err)
		}
	} else {
		startByte = 0
	}
	fd, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("error opening artifact file: %w", err)
	}
	progress := &progressWriter{url: fileURL, total: startByte, length: res.ContentLength + startByte, lastLog: time.Now()}
	_, err = io.Copy(io.MultiWriter(fd, hasher, progress), res.Body)
	if cerr := fd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("error copying data to file: %w", err)
	}
	if CheckHashes {
		if computed := hasher.Sum(nil); !bytes.Equal(computed, expectedHash) {
			os.Remove(partialPath)
			return fmt.Errorf("hash mismatch: expected %x, got %x", []byte(expectedHash), computed)
		}
	}
	if err := os.Rename(partialPath, path); err != nil {
		return fmt.Errorf("error renaming file: %w", err)
	}
	return nil
}
