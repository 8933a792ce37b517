package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// Repository implements ports.TreeStore over a directory. Node ids are slash
// paths relative to the root; directories are branches and everything else
// is a leaf. Changes are applied to disk as they arrive, so a transaction
// cannot be rolled back.
type Repository struct {
	root       string
	showHidden bool

	// mu guards paths; a UI may reload in the background while a
	// transaction writes
	mu sync.Mutex
	// paths tracks where each node lives now. Ids keep the path they were
	// loaded with until the next Load, even after a rename or move.
	paths map[string]string
}

// Ensure Repository implements TreeStore
var _ ports.TreeStore = (*Repository)(nil)

// NewRepository creates a new filesystem repository rooted at root
func NewRepository(root string, showHidden bool) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(root, "~") {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, root[1:])
	}
	return &Repository{
		root:       filepath.Clean(root),
		showHidden: showHidden,
		paths:      make(map[string]string),
	}
}

// LoadDirectory returns the records for the tree under root
func LoadDirectory(root string, showHidden bool) ([]domain.Record, error) {
	return NewRepository(root, showHidden).Load(context.Background())
}

// Root returns the directory the tree is read from
func (r *Repository) Root() string {
	return r.root
}

// Load walks the directory. Siblings are ordered directories first, then by
// case-insensitive name.
func (r *Repository) Load(ctx context.Context) ([]domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", r.root)
	}

	var records []domain.Record
	if err := r.readLevel(ctx, "", &records); err != nil {
		return nil, err
	}

	r.paths = make(map[string]string, len(records))
	for _, rec := range records {
		r.paths[rec.ID] = rec.ID
	}
	return records, nil
}

func (r *Repository) readLevel(ctx context.Context, rel string, records *[]domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", displayPath(rel), err)
	}

	entries = r.filter(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for i, entry := range entries {
		id := path.Join(rel, entry.Name())
		rec := domain.Record{ID: id, ParentID: rel, Name: entry.Name(), Index: i}
		if entry.IsDir() {
			rec.Kind = domain.KindBranch
		}
		*records = append(*records, rec)
		if entry.IsDir() {
			if err := r.readLevel(ctx, id, records); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository) filter(entries []fs.DirEntry) []fs.DirEntry {
	if r.showHidden {
		return entries
	}
	kept := entries[:0]
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			kept = append(kept, e)
		}
	}
	return kept
}

// GetPath returns the filesystem path for a node id ("" is the root)
func (r *Repository) GetPath(id string) (string, error) {
	r.mu.Lock()
	rel, err := r.relPath(id)
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	return filepath.Join(r.root, filepath.FromSlash(rel)), nil
}

// relPath and relocate expect mu to be held
func (r *Repository) relPath(id string) (string, error) {
	if id == "" {
		return "", nil
	}
	rel, ok := r.paths[id]
	if !ok {
		return "", fmt.Errorf("node %s is not on disk", id)
	}
	return rel, nil
}

// relocate points id and every id below it at newRel
func (r *Repository) relocate(oldRel, newRel string) {
	prefix := oldRel + "/"
	for id, rel := range r.paths {
		switch {
		case rel == oldRel:
			r.paths[id] = newRel
		case strings.HasPrefix(rel, prefix):
			r.paths[id] = newRel + "/" + strings.TrimPrefix(rel, prefix)
		}
	}
}

// Close is a no-op; the repository holds no handles
func (r *Repository) Close() error {
	return nil
}

// BeginTx returns a transaction whose operations hit the disk immediately
func (r *Repository) BeginTx(ctx context.Context) (ports.StoreTx, error) {
	return &dirTx{ctx: ctx, repo: r}, nil
}

func displayPath(rel string) string {
	if rel == "" {
		return "root"
	}
	return rel
}

// checkName rejects names that would escape their directory
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") ||
		strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// copyTree copies a file or directory, refusing to overwrite dst
func copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		if err := os.Mkdir(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		return nil

	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)

	default:
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
}

// ensureFree fails when something already lives at path
func ensureFree(p string) error {
	_, err := os.Lstat(p)
	if err == nil {
		return fmt.Errorf("%s already exists", p)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
