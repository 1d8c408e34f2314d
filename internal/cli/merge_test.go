package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkforge/manifmerge/internal/files/filesystem"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

func projectDir(t *testing.T, configYAML string) (dir, mainPath string) {
	t.Helper()
	dir = t.TempDir()
	mainPath = filepath.Join(dir, "AndroidManifest.xml")
	require.NoError(t, os.WriteFile(mainPath, []byte("<manifest />"), 0644))
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manifmerge.yaml"), []byte(configYAML), 0644))
	}
	return dir, mainPath
}

func TestBuildMergeConfig_FlagsOnly(t *testing.T) {
	_, mainPath := projectDir(t, "")

	in := &inputFlagValues{
		overlays:  []string{"overlay.xml"},
		libraries: []string{"com.example:lib=libs/x.xml", "libs/y.xml"},
		params:    []string{"hostName=example.com"},
	}
	out := &mergeFlagValues{out: "merged.xml", report: "report.yaml", overwrite: true, timeout: 30 * time.Second}

	cfg, err := buildMergeConfig(mergeCmd, mainPath, in, out, false)
	require.NoError(t, err)

	assert.Equal(t, mainPath, cfg.Main.Path)
	assert.Equal(t, manifmerge.DocumentTypeMain, cfg.Main.Type)
	require.Len(t, cfg.Overlays, 1)
	assert.Equal(t, "overlay.xml", cfg.Overlays[0].Path)
	require.Len(t, cfg.Libraries, 2)
	assert.Equal(t, "com.example:lib", cfg.Libraries[0].Name)
	assert.Equal(t, "libs/x.xml", cfg.Libraries[0].Path)
	assert.Equal(t, "", cfg.Libraries[1].Name)
	assert.Equal(t, "libs/y.xml", cfg.Libraries[1].Path)
	assert.Equal(t, "example.com", cfg.Placeholders["hostName"])
	assert.Equal(t, "merged.xml", cfg.OutputPath)
	assert.Equal(t, "report.yaml", cfg.ReportPath)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestBuildMergeConfig_ConfigFileFallback(t *testing.T) {
	dir, mainPath := projectDir(t, `overlays:
  - free/AndroidManifest.xml
libraries:
  - name: com.example:lib
    path: libs/x/AndroidManifest.xml
output: build/AndroidManifest.xml
report: build/report.yaml
placeholders:
  hostName: example.com
timeout: 2m
`)

	cfg, err := buildMergeConfig(mergeCmd, mainPath, &inputFlagValues{}, &mergeFlagValues{timeout: manifmerge.DefaultTimeout}, false)
	require.NoError(t, err)

	require.Len(t, cfg.Overlays, 1)
	assert.Equal(t, filepath.Join(dir, "free/AndroidManifest.xml"), cfg.Overlays[0].Path)
	require.Len(t, cfg.Libraries, 1)
	assert.Equal(t, "com.example:lib", cfg.Libraries[0].Name)
	assert.Equal(t, filepath.Join(dir, "libs/x/AndroidManifest.xml"), cfg.Libraries[0].Path)
	assert.Equal(t, filepath.Join(dir, "build/AndroidManifest.xml"), cfg.OutputPath)
	assert.Equal(t, filepath.Join(dir, "build/report.yaml"), cfg.ReportPath)
	assert.Equal(t, "example.com", cfg.Placeholders["hostName"])
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestBuildMergeConfig_FlagsOverrideConfig(t *testing.T) {
	_, mainPath := projectDir(t, `overlays:
  - free/AndroidManifest.xml
placeholders:
  hostName: config.example.com
`)

	in := &inputFlagValues{
		overlays: []string{"debug/AndroidManifest.xml"},
		params:   []string{"hostName=flag.example.com"},
	}
	cfg, err := buildMergeConfig(mergeCmd, mainPath, in, &mergeFlagValues{}, false)
	require.NoError(t, err)

	require.Len(t, cfg.Overlays, 1)
	assert.Equal(t, "debug/AndroidManifest.xml", cfg.Overlays[0].Path)
	assert.Equal(t, "flag.example.com", cfg.Placeholders["hostName"])
}

func TestBuildMergeConfig_ParamsFileLayering(t *testing.T) {
	dir, mainPath := projectDir(t, `placeholders:
  hostName: config.example.com
  fromConfig: "1"
`)
	envFile := filepath.Join(dir, "prod.env")
	require.NoError(t, os.WriteFile(envFile, []byte("hostName=file.example.com\nfromFile=1\n"), 0644))

	in := &inputFlagValues{paramsFiles: []string{envFile}}
	cfg, err := buildMergeConfig(mergeCmd, mainPath, in, &mergeFlagValues{}, false)
	require.NoError(t, err)

	assert.Equal(t, "file.example.com", cfg.Placeholders["hostName"], "params file overrides config")
	assert.Equal(t, "1", cfg.Placeholders["fromConfig"])
	assert.Equal(t, "1", cfg.Placeholders["fromFile"])
}

func TestBuildMergeConfig_InvalidParam(t *testing.T) {
	_, mainPath := projectDir(t, "")

	_, err := buildMergeConfig(mergeCmd, mainPath, &inputFlagValues{params: []string{"no-equals"}}, &mergeFlagValues{}, false)
	assert.Error(t, err)
}

func TestLoadParamsFromFiles_MissingFile(t *testing.T) {
	_, err := loadParamsFromFiles(filesystem.NewOSFileSystem(), []string{"/does/not/exist.env"}, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exist.env")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "x.xml"), resolvePath("base", "x.xml"))
	assert.Equal(t, "/abs/x.xml", resolvePath("base", "/abs/x.xml"))
	assert.Equal(t, "", resolvePath("base", ""))
}
