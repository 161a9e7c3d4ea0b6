//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const scrollback = 1 << 20

var binPath = "robin_e2e" // set by TestMain

const (
	KeyEnter   = "\r"
	KeyCtrlC   = "\x03"
	KeyEsc     = "\x1b"
	KeyTab     = "\t"
	KeySpace   = " "
	KeyQuit    = "q"
	KeyQuery   = "s"
	KeyPending = "v"
	KeyBack    = "b"
	KeyPager   = "o"
	KeyNext    = "n"
)

// escapes matches CSI, OSC, charset and keypad sequences plus carriage returns
var escapes = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// appDriver runs the robin binary in a pseudo terminal and records what it draws
type appDriver struct {
	t    *testing.T
	home string
	cmd  *exec.Cmd
	ptmx *os.File

	mu  sync.Mutex
	out []byte
}

// startApp launches robin against api with an isolated home directory.
// The process is killed when the test ends.
func startApp(t *testing.T, api *apiServer, args ...string) *appDriver {
	t.Helper()
	d := &appDriver{t: t, home: t.TempDir()}

	argv := append([]string{"--base-url", api.URL}, args...)
	d.cmd = exec.Command(binPath, argv...)
	d.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"NO_COLOR=1",
		"HOME="+d.home,
		"XDG_CONFIG_HOME="+filepath.Join(d.home, "config"),
		"XDG_CACHE_HOME="+filepath.Join(d.home, "cache"),
	)

	ptmx, err := pty.StartWithSize(d.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		t.Fatalf("start robin: %v", err)
	}
	d.ptmx = ptmx
	go d.read()

	t.Cleanup(d.stop)
	return d
}

func (d *appDriver) read() {
	buf := make([]byte, 8192)
	for {
		n, err := d.ptmx.Read(buf)
		if n > 0 {
			d.mu.Lock()
			d.out = append(d.out, buf[:n]...)
			if over := len(d.out) - scrollback; over > 0 {
				d.out = d.out[over:]
			}
			d.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (d *appDriver) stop() {
	_ = d.ptmx.Close()
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
		_, _ = d.cmd.Process.Wait()
	}
}

// wait returns a channel that receives the exit status of the process
func (d *appDriver) wait() <-chan error {
	done := make(chan error, 1)
	go func() { done <- d.cmd.Wait() }()
	return done
}

// Send writes keys to the terminal, pausing briefly after each one
func (d *appDriver) Send(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		if _, err := d.ptmx.Write([]byte(k)); err != nil {
			d.t.Fatalf("send %q: %v", k, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Ready waits until the first repository page is on screen
func (d *appDriver) Ready() bool {
	d.t.Helper()
	return d.See("kernel", 5*time.Second)
}

// SelectRepositoryAndTeam selects the first repository and the first team
func (d *appDriver) SelectRepositoryAndTeam() {
	d.t.Helper()
	d.Send(KeySpace, KeyTab, KeySpace)
}

// See waits up to timeout for text to appear in the escape-free output
func (d *appDriver) See(text string, timeout time.Duration) bool {
	d.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(d.Plain(), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// Plain returns everything drawn so far with escape sequences removed
func (d *appDriver) Plain() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return escapes.ReplaceAllString(string(d.out), "")
}

// DumpTail writes the last n bytes of output under the test temp dir
func (d *appDriver) DumpTail(name string, n int) {
	s := d.Plain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(d.t.TempDir(), name+".txt")
	if err := os.WriteFile(p, []byte(s), 0o644); err != nil {
		d.t.Logf("dump tail: %v", err)
		return
	}
	d.t.Logf("Saved tail to %s", p)
}

func (d *appDriver) String() string {
	return fmt.Sprintf("robin pid %d", d.cmd.Process.Pid)
}
