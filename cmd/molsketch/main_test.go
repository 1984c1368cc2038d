package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemjson"
	"github.com/rmera/molsketch/internal/config"
	"github.com/rmera/molsketch/traj/stf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *options {
	return &options{cfg: config.Default(), log: NewLogger("error", io.Discard)}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("WARN", &buf)
	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)
	out := buf.String()

	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")

	l.SetLevel("nonsense")
	assert.Equal(t, LogLevelInfo, l.Level(), "unknown levels mean info")
}

func TestOptionsLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "molsketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nserve:\n  addr: \":9000\"\n"), 0o644))

	defer func(f func(string) (string, bool)) { lookupEnv = f }(lookupEnv)
	lookupEnv = func(k string) (string, bool) {
		if k == "MOLSKETCH_ADDR" {
			return ":9100", true
		}
		return "", false
	}

	t.Run("environment and flags override the file", func(t *testing.T) {
		opts := &options{configPath: path, logLevel: "error"}
		require.NoError(t, opts.load(io.Discard))
		assert.Equal(t, ":9100", opts.cfg.Serve.Addr)
		assert.Equal(t, LogLevelError, opts.log.Level())
	})

	t.Run("bad flag is rejected", func(t *testing.T) {
		opts := &options{configPath: path, logLevel: "loud"}
		assert.Error(t, opts.load(io.Discard))
	})

	t.Run("missing file gives defaults", func(t *testing.T) {
		opts := &options{configPath: filepath.Join(dir, "nope.yaml")}
		require.NoError(t, opts.load(io.Discard))
		assert.Equal(t, ":9100", opts.cfg.Serve.Addr)
		assert.Equal(t, config.Default().Editor, opts.cfg.Editor)
	})
}

func TestReloadKeepsFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "molsketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	defer func(f func(string) (string, bool)) { lookupEnv = f }(lookupEnv)
	lookupEnv = func(string) (string, bool) { return "", false }

	opts := &options{configPath: path, logLevel: "error"}
	require.NoError(t, opts.load(io.Discard))
	S, err := newSession(opts.cfg, opts.log)
	require.NoError(t, err)
	defer S.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reload := make(chan config.Config)
	S.watch(ctx, opts, reload)
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\neditor:\n  drag_scale: 7\n"), 0o644))

	select {
	case cfg := <-reload:
		assert.Equal(t, "error", cfg.LogLevel, "the --log-level flag was lost on reload")
		assert.Equal(t, 7.0, cfg.Editor.DragScale)
		S.apply(cfg)
		assert.Equal(t, LogLevelError, S.log.Level())
	case <-time.After(5 * time.Second):
		t.Fatal("configuration change not noticed")
	}
}

func TestElements(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printElements(&buf))
	out := buf.String()
	for _, s := range []string{"Symbol", "Cl", "Br", "#ff0000", "12.010"} {
		assert.Contains(t, out, s)
	}
}

func TestDemo(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "ethylene.png")
	opts := testOptions()
	opts.cfg.Record = filepath.Join(dir, "ethylene.stf")

	var buf bytes.Buffer
	require.NoError(t, runDemo(opts, &buf, png))
	out := buf.String()
	assert.Contains(t, out, "fragment 1:", "breaking C1-C2 should give two fragments")
	assert.Contains(t, out, "3 bonds", "wrong path from H1 to H4")

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "demo image is not a PNG")

	assert.Contains(t, out, "6 atoms in the last one")

	r, _, err := stf.Open(opts.cfg.Record)
	require.NoError(t, err)
	defer r.Close()
	frames := 0
	for {
		c, err := r.Next()
		var last sketch.LastFrameError
		if errors.As(err, &last) {
			assert.Equal(t, opts.cfg.Record, last.FileName())
			break
		}
		require.NoError(t, err)
		frames++
		if frames == 1 {
			assert.Equal(t, 1, c.NVecs(), "the first frame holds the first carbon only")
		}
	}
	assert.GreaterOrEqual(t, frames, 7)
	assert.Equal(t, 6, r.Len())

	_, _, err = replay(filepath.Join(dir, "missing.stf"))
	var terr sketch.TrajError
	require.True(t, errors.As(err, &terr), "missing trajectory gave %v", err)
	assert.True(t, terr.Critical())
}

//frameLines splits script output into the last frame and the number of
//highlight messages.
func frameLines(t *testing.T, out io.Reader) ([]byte, int) {
	var last []byte
	highlights := 0
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Bytes()
		switch {
		case bytes.Contains(line, []byte(`"type":"frame"`)):
			last = append(last[:0], line...)
		case bytes.Contains(line, []byte(`"type":"highlight"`)):
			highlights++
		}
	}
	require.NoError(t, sc.Err())
	return last, highlights
}

const dragAndBond = `{"type":"add","element":"C"}
{"type":"down","x":0,"y":0}
{"type":"down","x":0,"y":0}
{"type":"move","x":0.2,"y":0}
{"type":"up"}
{"type":"add","element":"o"}
{"type":"down","x":0.2,"y":0}
{"type":"down","x":0,"y":0}
`

func TestScript(t *testing.T) {
	t.Run("drag and bond", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runScript(testOptions(), strings.NewReader(dragAndBond), &buf, "", false))
		last, highlights := frameLines(t, &buf)
		assert.Equal(t, 4, highlights)

		f, _, err := chemjson.DecodeFrame(last)
		require.NoError(t, err)
		require.Len(t, f.Atoms, 2)
		require.Len(t, f.Bonds, 1)
		c, ok := f.Atom(0)
		require.True(t, ok)
		assert.Equal(t, 2.0, c.Pos.X)
		assert.Equal(t, 30.0, c.Pos.Y)
	})

	t.Run("bad line stops the script", func(t *testing.T) {
		err := runScript(testOptions(), strings.NewReader("{\"type\":\"up\"}\n{\"type\":\"jump\"}\n"), io.Discard, "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("keep going", func(t *testing.T) {
		err := runScript(testOptions(), strings.NewReader("{\"type\":\"jump\"}\n"), io.Discard, "", true)
		assert.NoError(t, err)
	})
}

func TestServeLoop(t *testing.T) {
	var buf bytes.Buffer
	S, err := newSession(config.Default(), NewLogger("error", io.Discard), &jsonRenderer{w: &buf})
	require.NoError(t, err)
	defer S.close()

	events := make(chan *chemjson.Input)
	reload := make(chan config.Config)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveLoop(ctx, S, events, reload) }()

	events <- &chemjson.Input{Type: chemjson.TypeAdd, Element: "N"}
	events <- &chemjson.Input{Type: chemjson.TypeDown}
	events <- &chemjson.Input{Type: chemjson.TypeUp}
	cfg := config.Default()
	cfg.Editor.DragScale = 3
	reload <- cfg
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop")
	}
	assert.Equal(t, 1, S.mol.Len())
	assert.Equal(t, 3.0, S.ctl.Config().DragScale)
	id, ok := S.ctl.Selected()
	assert.True(t, ok, "a click leaves the atom armed")
	assert.Equal(t, 0, id)
}
