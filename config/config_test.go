package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/ring"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
items:
  - image: a.png
    label: First
    link: https://example.com/a
  - image: b.png
    openInNewTab: false
layout:
  wheelRadius: 5
appearance:
  imageFit: fit
animation:
  autoRotate: false
`

const tomlDoc = `
[layout]
wheelRadius = 5

[appearance]
imageFit = "fit"

[animation]
autoRotate = false

[[items]]
image = "a.png"
label = "First"
link = "https://example.com/a"

[[items]]
image = "b.png"
openInNewTab = false
`

const jsonDoc = `{
  "items": [
    {"image": "a.png", "label": "First", "link": "https://example.com/a"},
    {"image": "b.png", "openInNewTab": false}
  ],
  "layout": {"wheelRadius": 5},
  "appearance": {"imageFit": "fit"},
  "animation": {"autoRotate": false}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	def := ring.DefaultConfig()
	for name, doc := range map[string]string{
		"ring.yaml": yamlDoc,
		"ring.yml":  yamlDoc,
		"ring.toml": tomlDoc,
		"ring.json": jsonDoc,
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, dir, name, doc))
			require.NoError(t, err)

			require.Len(t, cfg.Items, 2)
			assert.Equal(t, "a.png", cfg.Items[0].Image)
			assert.Equal(t, "First", cfg.Items[0].Label)
			assert.True(t, cfg.Items[0].NewTab())
			assert.False(t, cfg.Items[1].NewTab())
			assert.Equal(t, float32(5), cfg.Layout.WheelRadius)
			assert.Equal(t, ring.FitContain, cfg.Appearance.ImageFit)
			assert.False(t, cfg.Animation.AutoRotate)

			// everything the file leaves out keeps its default
			assert.Equal(t, def.Layout.CardWidth, cfg.Layout.CardWidth)
			assert.Equal(t, def.Interaction, cfg.Interaction)
			assert.Equal(t, def.Lighting, cfg.Lighting)
			assert.True(t, cfg.Interaction.EnableHover)
		})
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ring.yaml", `
layout:
  wheelRadius: -3
  borderRadius: 4
interaction:
  friction: 2
appearance:
  imageFit: zoom
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Layout.WheelRadius)
	assert.Equal(t, float32(0.5), cfg.Layout.BorderRadius)
	assert.Equal(t, ring.DefaultConfig().Interaction.Friction, cfg.Interaction.Friction)
	assert.Equal(t, ring.FitCover, cfg.Appearance.ImageFit)
	assert.NotNil(t, cfg.Items)
}

func TestItemsNotAListBecomesEmpty(t *testing.T) {
	cases := map[Format]string{
		FormatYAML: "items: nope\nlayout:\n  wheelRadius: 4\n",
		FormatTOML: "items = 3\n[layout]\nwheelRadius = 4\n",
		FormatJSON: `{"items": {"image": "a.png"}, "layout": {"wheelRadius": 4}}`,
	}
	for format, doc := range cases {
		t.Run(string(format), func(t *testing.T) {
			cfg, err := Decode([]byte(doc), format)
			require.NoError(t, err)
			assert.Empty(t, cfg.Items)
			assert.NotNil(t, cfg.Items)
			assert.Equal(t, float32(4), cfg.Layout.WheelRadius)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "ring.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, dir, "bad.json", "{"))
	assert.Error(t, err)

	_, err = Decode([]byte("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	writeFile(t, home, "ring.json", `{"layout": {"wheelRadius": 2}}`)
	cfg, err := Load("~/ring.json")
	require.NoError(t, err)
	assert.Equal(t, float32(2), cfg.Layout.WheelRadius)
}

func TestEncodeIsLoadable(t *testing.T) {
	src := ring.DefaultConfig()
	src.Items = []ring.Item{{Image: "a.png", Label: "A"}}
	src.Layout.WheelRadius = 6
	src.Normalize()

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		data, err := Encode(src, format)
		require.NoError(t, err, format)
		got, err := Decode(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, src.Items, got.Items, format)
		assert.Equal(t, src.Layout, got.Layout, format)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ring.yaml", "layout:\n  wheelRadius: 2\n")

	changes := make(chan ring.Config, 4)
	errs := make(chan error, 4)
	w, err := Watch(path, func(cfg ring.Config) { changes <- cfg },
		WithDebounce(20*time.Millisecond),
		WithOnError(func(err error) { errs <- err }),
	)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.Path())

	// unrelated files in the directory are ignored
	writeFile(t, dir, "other.yaml", "layout:\n  wheelRadius: 9\n")
	writeFile(t, dir, "ring.yaml", "layout:\n  wheelRadius: 7\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, float32(7), cfg.Layout.WheelRadius)
	case err := <-errs:
		t.Fatalf("reload failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	// let any trailing events from the last save settle
	time.Sleep(200 * time.Millisecond)
	for len(changes) > 0 {
		<-changes
	}

	writeFile(t, dir, "ring.yaml", "layout: [")
	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-changes:
		t.Fatal("a malformed file must not be applied")
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error")
	}

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatchRejectsUnknownFormat(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "ring.txt"), func(ring.Config) {})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
