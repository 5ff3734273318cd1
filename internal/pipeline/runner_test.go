package pipeline

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/apidocfm/internal/category"
	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/report"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTree creates files under root; keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func newTestRunner(root string, opts Options) *Runner {
	opts.Root = root
	return NewRunner(category.Default(), opts).WithLogger(quietLogger())
}

func fullTree() map[string]string {
	return map[string]string{
		"classes/Viewer.md":     "# Viewer\n\nDocs.",
		"classes/Drawer.md":     "# Drawer\n",
		"classes/notes.txt":     "not markdown",
		"members/Viewer.id.md":  "# Viewer.id\n",
		"methods/open.md":       "# open\n",
		"types/TileSource.md":   "# TileSource\n",
		"extras/Ignored.md":     "# Ignored\n",
		"classes/nested/Sub.md": "# Sub\n",
	}
}

func TestInject_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, fullTree())

	rep := newTestRunner(root, Options{}).Inject(context.Background())

	require.False(t, rep.HasErrors())
	require.Equal(t, 5, rep.Count(report.StatusAdded))
	require.NoError(t, RunError(rep))

	require.Equal(t, "---\n"+
		"title: Viewer\n"+
		"description: OpenSeadragon Class - Viewer\n"+
		"category: API Classes\n"+
		"order: 11\n"+
		"badge: Class\n"+
		"---\n\n# Viewer\n\nDocs.", readFile(t, root, "classes/Viewer.md"))
	require.Contains(t, readFile(t, root, "classes/Drawer.md"), "order: 10\n")
	require.Contains(t, readFile(t, root, "types/TileSource.md"), "category: API Types\norder: 40\nbadge: Type\n")

	// untouched
	require.Equal(t, "not markdown", readFile(t, root, "classes/notes.txt"))
	require.Equal(t, "# Ignored\n", readFile(t, root, "extras/Ignored.md"))
	require.Equal(t, "# Sub\n", readFile(t, root, "classes/nested/Sub.md"))
}

func TestInject_ThenStripRestoresTree(t *testing.T) {
	root := t.TempDir()
	tree := fullTree()
	writeTree(t, root, tree)

	r := newTestRunner(root, Options{})
	require.False(t, r.Inject(context.Background()).HasErrors())
	rep := r.Strip(context.Background())
	require.False(t, rep.HasErrors())
	require.Equal(t, 5, rep.Count(report.StatusRemoved))

	for rel, content := range tree {
		require.Equal(t, content, readFile(t, root, rel), rel)
	}
}

func TestInject_SecondRunSkipsEverything(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, fullTree())
	r := newTestRunner(root, Options{})

	r.Inject(context.Background())
	before := readFile(t, root, "classes/Viewer.md")
	rep := r.Inject(context.Background())

	require.Equal(t, 0, rep.Count(report.StatusAdded))
	require.Equal(t, 5, rep.Count(report.StatusSkipped))
	require.Equal(t, before, readFile(t, root, "classes/Viewer.md"))
}

func TestInject_OrderCountsSkippedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"classes/A.md": "---\ntitle: A\n---\n# A\n",
		"classes/B.md": "# B\n",
	})
	r := NewRunner(category.MustTable(category.WithSpacing(10)), Options{Root: root}).WithLogger(quietLogger())

	rep := r.Inject(context.Background())

	var added report.Entry
	for _, e := range rep.Entries {
		if e.Status == report.StatusAdded {
			added = e
		}
	}
	require.Equal(t, "B.md", added.File)
	require.Equal(t, 11, added.Order)
}

func TestInject_MissingFolderDoesNotStopRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"classes/Viewer.md": "# Viewer\n",
		"types/Point.md":    "# Point\n",
	})

	rep := newTestRunner(root, Options{}).Inject(context.Background())

	require.True(t, rep.HasErrors())
	require.Equal(t, 2, rep.Count(report.StatusAdded))
	require.Equal(t, 2, rep.Count(report.StatusFailed))
	for _, e := range rep.Entries {
		if e.Status == report.StatusFailed {
			require.True(t, e.IsFolderLevel())
			require.Contains(t, []string{"members", "methods"}, e.Folder)
			require.True(t, errors.HasCategory(e.Err, errors.CategoryConfig))
		}
	}

	err := RunError(rep)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInject_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"classes/Viewer.md": "# Viewer\n"})

	rep := newTestRunner(root, Options{DryRun: true}).Inject(context.Background())

	require.True(t, rep.DryRun)
	require.Equal(t, 1, rep.Count(report.StatusAdded))
	require.Equal(t, "# Viewer\n", readFile(t, root, "classes/Viewer.md"))
}

func TestStrip_MalformedLeftUntouched(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"classes/Broken.md": "---\ntitle: never closed\n# Broken\n",
		"classes/Good.md":   "---\ntitle: Good\n---\n\n# Good\n",
	})

	rep := newTestRunner(root, Options{}).Strip(context.Background())

	require.Equal(t, 1, rep.Count(report.StatusMalformed))
	require.Equal(t, 1, rep.Count(report.StatusRemoved))
	require.Equal(t, "---\ntitle: never closed\n# Broken\n", readFile(t, root, "classes/Broken.md"))
	require.Equal(t, "# Good\n", readFile(t, root, "classes/Good.md"))

	err := RunError(rep)
	require.True(t, errors.HasCategory(err, errors.CategoryDocument))
}

func TestInject_PreservesFileMode(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"classes/Viewer.md": "# Viewer\n"})
	path := filepath.Join(root, "classes", "Viewer.md")
	require.NoError(t, os.Chmod(path, 0o600))

	newTestRunner(root, Options{}).Inject(context.Background())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// failingFS fails the named operations for one base name each and delegates
// everything else.
type failingFS struct {
	OSFileSystem
	failDir   string
	failRead  string
	failWrite string
}

func (f failingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if filepath.Base(name) == f.failDir {
		return nil, os.ErrPermission
	}
	return f.OSFileSystem.ReadDir(name)
}

func (f failingFS) ReadFile(name string) ([]byte, error) {
	if filepath.Base(name) == f.failRead {
		return nil, os.ErrPermission
	}
	return f.OSFileSystem.ReadFile(name)
}

func (f failingFS) WriteFile(name string, data []byte) error {
	if filepath.Base(name) == f.failWrite {
		return os.ErrPermission
	}
	return f.OSFileSystem.WriteFile(name, data)
}

func TestInject_WriteFailureIsolatedToFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"classes/A.md": "# A\n",
		"classes/B.md": "# B\n",
	})

	rep := newTestRunner(root, Options{}).
		WithFileSystem(failingFS{failWrite: "A.md"}).
		Inject(context.Background())

	require.Equal(t, 1, rep.Count(report.StatusAdded))
	require.Equal(t, "# A\n", readFile(t, root, "classes/A.md"))
	require.True(t, strings.HasPrefix(readFile(t, root, "classes/B.md"), "---\n"))

	errs := rep.Errors()
	require.NotEmpty(t, errs)
	require.True(t, errors.HasCategory(errs[0], errors.CategoryFileSystem))
}

func TestInject_ReadFailureIsolatedToFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"classes/A.md": "# A\n",
		"classes/B.md": "# B\n",
	})

	rep := newTestRunner(root, Options{}).
		WithFileSystem(failingFS{failRead: "A.md"}).
		Inject(context.Background())

	var a, b *report.Entry
	for i := range rep.Entries {
		switch rep.Entries[i].File {
		case "A.md":
			a = &rep.Entries[i]
		case "B.md":
			b = &rep.Entries[i]
		}
	}
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Equal(t, report.StatusFailed, a.Status)
	require.Equal(t, "read failed", a.Reason)
	require.True(t, errors.HasCategory(a.Err, errors.CategoryFileSystem))
	require.Equal(t, report.StatusAdded, b.Status)

	require.Equal(t, "# A\n", readFile(t, root, "classes/A.md"))
	require.True(t, strings.HasPrefix(readFile(t, root, "classes/B.md"), "---\n"))
	require.True(t, errors.HasCategory(RunError(rep), errors.CategoryFileSystem))
}

func TestInject_UnreadableFolderIsFileSystemError(t *testing.T) {
	root := t.TempDir()
	tree := fullTree()
	writeTree(t, root, tree)

	rep := newTestRunner(root, Options{}).
		WithFileSystem(failingFS{failDir: "members"}).
		Inject(context.Background())

	var folderFailures int
	for _, e := range rep.Entries {
		if e.Status != report.StatusFailed {
			continue
		}
		folderFailures++
		require.True(t, e.IsFolderLevel())
		require.Equal(t, "members", e.Folder)
		require.Equal(t, "category folder unreadable", e.Reason)
		require.True(t, errors.HasCategory(e.Err, errors.CategoryFileSystem))
	}
	require.Equal(t, 1, folderFailures)
	require.Positive(t, rep.Count(report.StatusAdded))
	require.Equal(t, tree["members/Viewer.id.md"], readFile(t, root, "members/Viewer.id.md"))
	require.True(t, strings.HasPrefix(readFile(t, root, "classes/Drawer.md"), "---\n"))
	require.True(t, errors.HasCategory(RunError(rep), errors.CategoryFileSystem))
}

func TestInject_WarnsWhenOrdersOverlap(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c"} {
		files["classes/"+name+".md"] = "# " + name + "\n"
	}
	writeTree(t, root, files)
	r := NewRunner(category.MustTable(category.WithSpacing(2)), Options{Root: root}).WithLogger(quietLogger())

	rep := r.Inject(context.Background())

	require.Equal(t, 1, rep.Count(report.StatusWarning))
	require.Equal(t, 3, rep.Count(report.StatusAdded))
	require.Contains(t, readFile(t, root, "classes/c.md"), "order: 4\n")
}

func TestCheck_Flags(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"classes/Viewer.md": "# Viewer\n", "types/Point.md": "# Point\n"})
	r := newTestRunner(root, Options{})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "members"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "methods"), 0o755))

	// missing blocks are warnings only
	before := r.Check(context.Background())
	require.Equal(t, 2, before.Count(report.StatusFlagged))
	require.NoError(t, RunError(before))
	require.Equal(t, "# Viewer\n", readFile(t, root, "classes/Viewer.md"))

	r.Inject(context.Background())
	after := r.Check(context.Background())
	require.Equal(t, 2, after.Count(report.StatusPassed))
	require.NoError(t, RunError(after))
}

func TestRun_CanceledContextStopsBeforeFolders(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"classes/Viewer.md": "# Viewer\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := newTestRunner(root, Options{}).Inject(ctx)

	require.Equal(t, 0, rep.Count(report.StatusAdded))
	require.Equal(t, "# Viewer\n", readFile(t, root, "classes/Viewer.md"))
}

func TestRunner_Folders(t *testing.T) {
	r := NewRunner(category.Default(), Options{})
	require.Equal(t, DefaultRoot, r.Root())
	require.Equal(t, []string{
		filepath.Join(DefaultRoot, "classes"),
		filepath.Join(DefaultRoot, "members"),
		filepath.Join(DefaultRoot, "methods"),
		filepath.Join(DefaultRoot, "types"),
	}, r.Folders())
}

func TestCheck_MalformedIsValidationError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"classes/Broken.md": "---\ntitle: x\n# Broken\n"})

	rep := newTestRunner(root, Options{}).Check(context.Background())

	err := RunError(rep)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Equal(t, "---\ntitle: x\n# Broken\n", readFile(t, root, "classes/Broken.md"))
}
