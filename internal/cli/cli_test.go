package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/openapi-xmldoc/pkg/openapi"
)

func baseConfig(output string) *EnrichConfig {
	return &EnrichConfig{
		SpecPath:     "testdata/openapi.json",
		XMLPaths:     []string{"testdata/Acme.Api.xml", "testdata/Acme.Api.Overrides.xml"},
		BindingsPath: "testdata/bindings.yaml",
		OutputPath:   output,
		Format:       "json",
		Concurrency:  2,
	}
}

func readSpec(t *testing.T, path string) *openapi.Spec {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	spec, err := openapi.Decode(data)
	require.NoError(t, err)
	return spec
}

func TestRunEnrich(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.json")
	config := baseConfig(out)
	config.Validate = true

	require.NoError(t, RunEnrich(context.Background(), config, &bytes.Buffer{}))
	spec := readSpec(t, out)

	widget := spec.Components.Schemas["Widget"]
	assert.Equal(t, "A widget.", widget.Description, "later documentation files win")
	assert.Equal(t, "Display name, for example `Sprocket`.", widget.Properties["name"].Description)
	assert.Equal(t, "Sprocket", widget.Properties["name"].Example)
	assert.Equal(t, json.Number("12"), widget.Properties["size"].Example)

	get := spec.Paths["/widgets/{id}"].Get
	assert.Equal(t, "Gets a widget by id.", get.Summary)
	assert.Contains(t, get.Description, "Widget stored under id")
	assert.Equal(t, "The widget.", get.Responses["200"].Description)
	assert.Equal(t, "No widget has that id.", get.Responses["404"].Description)
	assert.Equal(t, "The caller is not authenticated.", get.Responses["401"].Description)

	create := spec.Paths["/widgets"].Post
	assert.Equal(t, "The widget to create.", create.RequestBody.Description)
	assert.Equal(t,
		map[string]any{"name": "Sprocket", "size": json.Number("12")},
		create.RequestBody.Content["application/json"].Example)

	store := spec.Paths["/gadgets"].Post
	assert.Equal(t, "Stores an item.", store.Summary)
	assert.Equal(t, "The item to store.", store.RequestBody.Description)
	assert.Equal(t, "Storage is unavailable.", store.Responses["503"].Description)
}

func TestRunEnrichConfigFile(t *testing.T) {
	config := &EnrichConfig{
		ConfigPath:  "testdata/xmldoc.yml",
		OutputPath:  defaultOutput,
		Format:      defaultFormat,
		Concurrency: 8,
	}
	var stdout bytes.Buffer

	require.NoError(t, RunEnrich(context.Background(), config, &stdout))
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "testdata/openapi.json", config.SpecPath)
	assert.Len(t, config.XMLPaths, 2)

	assert.True(t, strings.HasPrefix(stdout.String(), "components:"), stdout.String())
	spec, err := openapi.Decode(stdout.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Gets a widget by id.", spec.Paths["/widgets/{id}"].Get.Summary)
}

func TestRunEnrichFlagsOverrideConfig(t *testing.T) {
	config := &EnrichConfig{
		ConfigPath:  "testdata/xmldoc.yml",
		SpecPath:    "testdata/missing.json",
		OutputPath:  defaultOutput,
		Format:      "json",
		Concurrency: 8,
	}
	err := RunEnrich(context.Background(), config, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read spec")
}

func TestRunEnrichErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *EnrichConfig)
		want   string
	}{
		{"missing spec", func(c *EnrichConfig) { c.SpecPath = "" }, "invalid configuration"},
		{"no xml", func(c *EnrichConfig) { c.XMLPaths = nil }, "invalid configuration"},
		{"bad format", func(c *EnrichConfig) { c.Format = "toml" }, "invalid configuration"},
		{"zero concurrency", func(c *EnrichConfig) { c.Concurrency = 0 }, "invalid configuration"},
		{"missing config file", func(c *EnrichConfig) { c.ConfigPath = "testdata/nope.yml" }, "read config"},
		{"missing xml file", func(c *EnrichConfig) { c.XMLPaths = []string{"testdata/nope.xml"} }, "nope.xml"},
		{"missing bindings", func(c *EnrichConfig) { c.BindingsPath = "testdata/nope.yaml" }, "read bindings"},
		{"bindings are not a manifest", func(c *EnrichConfig) { c.BindingsPath = "testdata/Acme.Api.xml" }, "parse bindings"},
		{"output directory missing", func(c *EnrichConfig) { c.OutputPath = "testdata/nope/out.json" }, "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := baseConfig(filepath.Join(t.TempDir(), "out.json"))
			tt.modify(config)
			err := RunEnrich(context.Background(), config, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnrichCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.yaml")
	var stderr bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"enrich",
		"--spec", "testdata/openapi.json",
		"--xml", "testdata/Acme.Api.xml",
		"--bindings", "testdata/bindings.yaml",
		"--output", out,
		"--format", "yaml",
		"--log-level", "debug",
		"--no-color",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, stderr.String(), "enriched document")
	assert.Contains(t, stderr.String(), "annotated operation")

	spec := readSpec(t, out)
	assert.Equal(t, "A widget sold by Acme.", spec.Components.Schemas["Widget"].Description)
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"valid document", []string{"validate", "testdata/openapi.json"}, false},
		{"missing file", []string{"validate", "testdata/nope.json"}, true},
		{"not a document", []string{"validate", "testdata/bindings.yaml"}, true},
		{"no argument", []string{"validate"}, true},
		{"bad log level", []string{"validate", "--log-level", "loud", "testdata/openapi.json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			err := cmd.ExecuteContext(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type fakeFileInfo struct{ dir bool }

func (f fakeFileInfo) Name() string       { return "out" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

type fakeFS struct {
	statErr  error
	dir      bool
	writeErr error
	written  []byte
}

func (f *fakeFS) Stat(string) (os.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return fakeFileInfo{dir: f.dir}, nil
}

func (f *fakeFS) WriteFile(_ string, data []byte, _ os.FileMode) error {
	f.written = data
	return f.writeErr
}

func TestWriteOutputWithFS(t *testing.T) {
	data := []byte("{}\n")

	t.Run("stdout", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, writeOutputWithFS(data, "-", &stdout, &fakeFS{}))
		assert.Equal(t, "{}\n", stdout.String())
	})

	t.Run("file", func(t *testing.T) {
		f := &fakeFS{dir: true}
		require.NoError(t, writeOutputWithFS(data, "out/openapi.json", nil, f))
		assert.Equal(t, data, f.written)
	})

	t.Run("parent is a file", func(t *testing.T) {
		err := writeOutputWithFS(data, "out/openapi.json", nil, &fakeFS{})
		assert.ErrorContains(t, err, "is not a directory")
	})

	t.Run("stat fails", func(t *testing.T) {
		err := writeOutputWithFS(data, "out/openapi.json", nil, &fakeFS{statErr: fs.ErrPermission})
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("write fails", func(t *testing.T) {
		err := writeOutputWithFS(data, "out/openapi.json", nil, &fakeFS{dir: true, writeErr: fs.ErrPermission})
		assert.ErrorIs(t, err, fs.ErrPermission)
	})
}
