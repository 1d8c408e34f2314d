package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/apkforge/manifmerge/internal/files/filesystem"
	"github.com/apkforge/manifmerge/internal/logging"
	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

type approverFunc func(ctx context.Context, path string) (bool, error)

func (f approverFunc) RequestApproval(ctx context.Context, path string) (bool, error) {
	return f(ctx, path)
}

func approveAlways() manifmerge.Approver {
	return approverFunc(func(context.Context, string) (bool, error) { return true, nil })
}

func approveNever() manifmerge.Approver {
	return approverFunc(func(context.Context, string) (bool, error) { return false, nil })
}

const mainManifest = `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
    <application android:label="App">
        <activity android:name=".Main" android:theme="@style/Main" />
    </application>
</manifest>
`

const libManifest = `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.lib">
    <uses-permission android:name="android.permission.INTERNET" />
    <application>
        <service android:name="com.example.lib.Sync" />
    </application>
</manifest>
`

func newService(fs filesystem.Provider, approver manifmerge.Approver) *MergeService {
	return NewMergeService(fs, approver, logging.NewNullLogger())
}

func memoryProject(t *testing.T) *filesystem.MemoryFileSystem {
	t.Helper()
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("app/AndroidManifest.xml", []byte(mainManifest))
	fs.AddFile("lib/AndroidManifest.xml", []byte(libManifest))
	return fs
}

func baseConfig() manifmerge.MergeConfig {
	return manifmerge.MergeConfig{
		Main: manifmerge.ManifestInput{Path: "app/AndroidManifest.xml", Type: manifmerge.DocumentTypeMain},
		Libraries: []manifmerge.ManifestInput{
			{Path: "lib/AndroidManifest.xml", Type: manifmerge.DocumentTypeLibrary, Name: "com.example:lib"},
		},
		OutputPath: "build/AndroidManifest.xml",
		ReportPath: "build/report.yaml",
	}
}

func TestMerge_WritesOutputAndReport(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())

	require.NoError(t, svc.Merge(context.Background(), baseConfig()))

	out, err := fs.ReadFile("build/AndroidManifest.xml")
	require.NoError(t, err)
	merged := string(out)
	assert.Contains(t, merged, `package="com.example.app"`)
	assert.Contains(t, merged, "android.permission.INTERNET")
	assert.Contains(t, merged, "com.example.lib.Sync")
	assert.NotContains(t, merged, "com.example.lib\"", "library package must not leak into the merged root")

	repData, err := fs.ReadFile("build/report.yaml")
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, yaml.Unmarshal(repData, &rep))
	assert.Equal(t, report.SeverityInfo, rep.Result)
	assert.NotEmpty(t, rep.Digest)
	assert.NotEmpty(t, rep.Actions)
}

func TestMerge_ConflictFailsButStillWritesReport(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("lib/AndroidManifest.xml", []byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application>
        <activity android:name=".Main" android:theme="@style/Other" />
    </application>
</manifest>
`))
	svc := newService(fs, approveAlways())

	err := svc.Merge(context.Background(), baseConfig())
	assert.ErrorIs(t, err, manifmerge.ErrMergeFailed)

	assert.False(t, fs.Exists("build/AndroidManifest.xml"), "failed merge must not write output")
	repData, readErr := fs.ReadFile("build/report.yaml")
	require.NoError(t, readErr, "report must be written even on failure")
	var rep report.Report
	require.NoError(t, yaml.Unmarshal(repData, &rep))
	assert.Equal(t, report.SeverityError, rep.Result)
	require.NotEmpty(t, rep.Errors())
	assert.Contains(t, rep.Errors()[0].Text, "theme")
}

func TestMerge_ManifestNotFound(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	svc := newService(fs, approveAlways())

	err := svc.Merge(context.Background(), baseConfig())
	assert.ErrorIs(t, err, manifmerge.ErrManifestNotFound)
}

func TestMerge_MalformedXML(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("lib/AndroidManifest.xml", []byte("<manifest><unclosed></manifest>"))
	svc := newService(fs, approveAlways())

	err := svc.Merge(context.Background(), baseConfig())
	assert.ErrorIs(t, err, manifmerge.ErrMalformedManifest)
}

func TestMerge_InvalidConfig(t *testing.T) {
	svc := newService(filesystem.NewMemoryFileSystem(), approveAlways())

	err := svc.Merge(context.Background(), manifmerge.MergeConfig{})
	assert.ErrorIs(t, err, manifmerge.ErrInvalidConfig)
}

func TestMerge_ApprovalDenied(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("build/AndroidManifest.xml", []byte("old content"))
	svc := newService(fs, approveNever())

	err := svc.Merge(context.Background(), baseConfig())
	assert.ErrorIs(t, err, manifmerge.ErrApprovalDenied)

	kept, _ := fs.ReadFile("build/AndroidManifest.xml")
	assert.Equal(t, "old content", string(kept), "denied overwrite must not touch the file")
}

func TestMerge_OverwriteSkipsApproval(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("build/AndroidManifest.xml", []byte("old content"))
	svc := newService(fs, approverFunc(func(context.Context, string) (bool, error) {
		t.Fatal("approver must not be called with Overwrite set")
		return false, nil
	}))

	cfg := baseConfig()
	cfg.Overwrite = true
	require.NoError(t, svc.Merge(context.Background(), cfg))

	out, _ := fs.ReadFile("build/AndroidManifest.xml")
	assert.Contains(t, string(out), "android.permission.INTERNET")
}

func TestMerge_StdoutWhenNoOutputPath(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())
	var buf bytes.Buffer
	svc.stdout = &buf

	cfg := baseConfig()
	cfg.OutputPath = ""
	cfg.ReportPath = ""
	require.NoError(t, svc.Merge(context.Background(), cfg))

	assert.Contains(t, buf.String(), `package="com.example.app"`)
}

func TestMerge_PlaceholderDefaultsToPackage(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("app/AndroidManifest.xml", []byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
    <application>
        <activity android:name="${applicationId}.Main" />
    </application>
</manifest>
`))
	svc := newService(fs, approveAlways())

	require.NoError(t, svc.Merge(context.Background(), baseConfig()))

	out, _ := fs.ReadFile("build/AndroidManifest.xml")
	assert.Contains(t, string(out), `android:name="com.example.app.Main"`)
}

func TestMerge_PropertiesInjected(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())

	cfg := baseConfig()
	cfg.Properties = map[string]string{"versionCode": "7"}
	require.NoError(t, svc.Merge(context.Background(), cfg))

	out, _ := fs.ReadFile("build/AndroidManifest.xml")
	assert.Contains(t, string(out), `android:versionCode="7"`)
}

func TestMerge_OutputDirectoryGetsDefaultName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.xml"), []byte(mainManifest), 0644))
	fs := filesystem.NewOSFileSystem()
	svc := newService(fs, approveAlways())

	cfg := manifmerge.MergeConfig{
		Main:       manifmerge.ManifestInput{Path: filepath.Join(dir, "main.xml"), Type: manifmerge.DocumentTypeMain},
		OutputPath: dir,
	}
	require.NoError(t, svc.Merge(context.Background(), cfg))

	assert.True(t, fs.Exists(filepath.Join(dir, manifmerge.DefaultOutputName)))
}

func TestMerge_CancelledContext(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Merge(ctx, baseConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge_TimeoutApplied(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())

	cfg := baseConfig()
	cfg.Timeout = time.Minute
	assert.NoError(t, svc.Merge(context.Background(), cfg))
}

func TestBlame_AnnotatesOrigins(t *testing.T) {
	fs := memoryProject(t)
	svc := newService(fs, approveAlways())

	annotated, err := svc.Blame(context.Background(), baseConfig())
	require.NoError(t, err)

	var permLine string
	for _, line := range strings.Split(annotated, "\n") {
		if strings.Contains(line, "android.permission.INTERNET") {
			permLine = line
			break
		}
	}
	require.NotEmpty(t, permLine, "merged output missing the imported permission")
	assert.Contains(t, permLine, "lib/AndroidManifest.xml", "imported line must be attributed to the library")
}

func TestBlame_FailedMerge(t *testing.T) {
	fs := memoryProject(t)
	fs.AddFile("lib/AndroidManifest.xml", []byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application>
        <activity android:name=".Main" android:theme="@style/Other" />
    </application>
</manifest>
`))
	svc := newService(fs, approveAlways())

	_, err := svc.Blame(context.Background(), baseConfig())
	assert.ErrorIs(t, err, manifmerge.ErrMergeFailed)
}

func TestNewMergeService_NilDependenciesPanic(t *testing.T) {
	assert.Panics(t, func() { NewMergeService(nil, approveAlways(), logging.NewNullLogger()) })
	assert.Panics(t, func() { NewMergeService(filesystem.NewMemoryFileSystem(), nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewMergeService(filesystem.NewMemoryFileSystem(), approveAlways(), nil) })
}
