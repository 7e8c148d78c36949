package shadersrc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learn-gl/internal/graphics"
	"learn-gl/internal/graphics/graphicstest"
)

func TestEmbeddedProgramsCompile(t *testing.T) {
	names := Names()
	require.ElementsMatch(t, []string{"triangle", "quad", "cubes", "model"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := Loader{}.Load(name)
			require.NoError(t, err)
			assert.Contains(t, src.Vertex, "#version 410 core")
			assert.Contains(t, src.Fragment, "FragColor")

			_, err = graphics.Compile(graphicstest.New(), src.Vertex, src.Fragment)
			assert.NoError(t, err)
		})
	}
}

func TestCameraProgramsDeclareViewUniforms(t *testing.T) {
	for _, name := range []string{"cubes", "model"} {
		b := graphicstest.New()
		src, err := Loader{}.Load(name)
		require.NoError(t, err)
		p, err := graphics.Compile(b, src.Vertex, src.Fragment)
		require.NoError(t, err)

		for _, u := range []string{"model", "view", "projection", "texture1"} {
			assert.GreaterOrEqual(t, b.Location(p.Handle(), u), int32(0), "%s: %s", name, u)
		}
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	writePair(t, filepath.Join(dir, "cubes"), "// disk vertex", "// disk fragment")

	src, err := Loader{Dir: dir}.Load("cubes")
	require.NoError(t, err)
	assert.Equal(t, graphics.Sources{Vertex: "// disk vertex", Fragment: "// disk fragment"}, src)

	// missing on disk falls back to the embedded copy
	src, err = Loader{Dir: dir}.Load("triangle")
	require.NoError(t, err)
	assert.Contains(t, src.Fragment, "ourColor")
}

func TestLoadUnknownProgram(t *testing.T) {
	_, err := Loader{Dir: t.TempDir()}.Load("nope")
	assert.ErrorContains(t, err, `no shader sources for "nope"`)
}

func TestExportDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	writePair(t, filepath.Join(dir, "quad"), "mine", "mine")
	l := Loader{Dir: dir}

	require.NoError(t, l.Export("quad"))
	require.NoError(t, l.Export("model"))

	src, err := l.Load("quad")
	require.NoError(t, err)
	assert.Equal(t, "mine", src.Vertex)

	exported, err := os.ReadFile(filepath.Join(dir, "model", VertexFile))
	require.NoError(t, err)
	embeddedSrc, err := Loader{}.Load("model")
	require.NoError(t, err)
	assert.Equal(t, embeddedSrc.Vertex, string(exported))

	assert.Error(t, Loader{}.Export("quad"))
}

func TestWatchDeliversEdits(t *testing.T) {
	dir := t.TempDir()
	writePair(t, filepath.Join(dir, "cubes"), "v1", "f1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := Loader{Dir: dir}.Watch(ctx, "cubes")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cubes", FragmentFile), []byte("f2"), 0o644))

	select {
	case src := <-ch:
		assert.Equal(t, graphics.Sources{Vertex: "v1", Fragment: "f2"}, src)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchRequiresDir(t *testing.T) {
	_, err := Loader{}.Watch(context.Background(), "cubes")
	assert.Error(t, err)

	_, err = Loader{Dir: t.TempDir()}.Watch(context.Background(), "missing")
	assert.Error(t, err)
}

func writePair(t *testing.T, dir, vertex, fragment string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, VertexFile), []byte(vertex), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FragmentFile), []byte(fragment), 0o644))
}
