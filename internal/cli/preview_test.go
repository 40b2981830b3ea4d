package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/internal/testutils"
	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tourYAML = `id: welcome
name: Welcome
steps:
  - title: Header
    content: This is the header.
    target: "#header"
    placement: bottom
  - title: Missing
    content: Nothing to point at.
    target: "#missing"
`

const layoutYAML = `viewport: {width: 1024, height: 768}
document_height: 2000
elements:
  "#header": {top: 100, left: 40, width: 200, height: 50}
`

func TestLoadLayout(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"page.yaml": layoutYAML})

	l, err := LoadLayout(filepath.Join(dir, "page.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1024, Height: 768}, l.Viewport)
	assert.Equal(t, domain.Rect{Top: 100, Left: 40, Width: 200, Height: 50}, l.Elements["#header"])

	s := l.Surface()
	vp, err := s.Viewport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1024.0, vp.Width)

	empty, err := LoadLayout("")
	require.NoError(t, err)
	assert.Empty(t, empty.Elements)

	_, err = LoadLayout(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestRunPreview_PlaysToCompletion(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"welcome.yaml": tourYAML, "page.yaml": layoutYAML})
	store := memory.NewStore()
	var out bytes.Buffer

	err := RunPreview(context.Background(), PreviewOptions{
		TourPath:   filepath.Join(dir, "welcome.yaml"),
		LayoutPath: filepath.Join(dir, "page.yaml"),
		Options:    tourflow.DefaultOptions(),
		Store:      store,
		In:         strings.NewReader("n\nn\n"),
		Out:        &out,
		Width:      80,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "1 of 2")
	assert.Contains(t, text, "tooltip bottom at top=170")
	assert.Contains(t, text, "2 of 2")
	assert.Contains(t, text, "tooltip centered (target not found)")
	assert.Contains(t, text, "Tour completed.")

	record, err := store.Get(context.Background(), "tourflow_completed")
	require.NoError(t, err)
	assert.Contains(t, record, "welcome")
}

func TestRunPreview_CompletedTourNeedsFresh(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"welcome.yaml": tourYAML})
	store := memory.NewStore()
	require.NoError(t, store.Set(context.Background(), "tourflow_completed", "onboarding,welcome"))

	var out bytes.Buffer
	opts := PreviewOptions{
		TourPath: filepath.Join(dir, "welcome.yaml"),
		Options:  tourflow.DefaultOptions(),
		Store:    store,
		In:       strings.NewReader(""),
		Out:      &out,
	}
	require.NoError(t, RunPreview(context.Background(), opts))
	assert.Contains(t, out.String(), "already completed")

	out.Reset()
	opts.Fresh = true
	opts.In = strings.NewReader("q\n")
	require.NoError(t, RunPreview(context.Background(), opts))
	assert.Contains(t, out.String(), "1 of 2")

	record, err := store.Get(context.Background(), "tourflow_completed")
	require.NoError(t, err)
	assert.Equal(t, "onboarding", record, "other tours stay completed")
}

func TestRunPreview_InvalidTour(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"bad.yaml": "steps: []\n"})
	err := RunPreview(context.Background(), PreviewOptions{
		TourPath: filepath.Join(dir, "bad.yaml"),
		In:       strings.NewReader(""),
		Out:      &bytes.Buffer{},
	})
	assert.Error(t, err)
}

func TestWatchFile(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"welcome.yaml": tourYAML, "other.yaml": "x: 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	require.NoError(t, WatchFile(ctx, filepath.Join(dir, "welcome.yaml"), func() { changed <- struct{}{} }))

	require.NoError(t, writeFile(filepath.Join(dir, "other.yaml"), "x: 2\n"))
	select {
	case <-changed:
		t.Fatal("change to another file must not notify")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, writeFile(filepath.Join(dir, "welcome.yaml"), tourYAML+"\n"))
	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
