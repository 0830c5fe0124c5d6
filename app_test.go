package main

import (
	"StudyBreak/control"
	"StudyBreak/notify"
	"StudyBreak/timer"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	mu      sync.Mutex
	loadErr error
	plays   int
	stops   int
}

func (p *fakePlayer) Load(string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	return nil
}

func (p *fakePlayer) IsPlaying() bool { return false }

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func (p *fakePlayer) counts() (plays, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays, p.stops
}

type fakeView struct {
	mu       sync.Mutex
	running  bool
	statuses []timer.Status
}

func (v *fakeView) SetRunning(running bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.running = running
}

func (v *fakeView) ShowStatus(st timer.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, st)
}

func (v *fakeView) isRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

func (v *fakeView) seen(s timer.State) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, st := range v.statuses {
		if st.State == s {
			return true
		}
	}
	return false
}

type fakeNotifier struct {
	mu     sync.Mutex
	notes  []notify.Notification
	closed []uint32
}

func (n *fakeNotifier) Notify(note notify.Notification) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
	return uint32(len(n.notes)), nil
}

func (n *fakeNotifier) Close(id uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, id)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}

func (n *fakeNotifier) note(i int) notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notes[i]
}

func (n *fakeNotifier) closedIDs() []uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uint32(nil), n.closed...)
}

// stalledNotifier never answers until released, like a hung notification
// daemon.
type stalledNotifier struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStalledNotifier() *stalledNotifier {
	return &stalledNotifier{entered: make(chan struct{}), release: make(chan struct{})}
}

func (n *stalledNotifier) Notify(notify.Notification) (uint32, error) {
	n.once.Do(func() { close(n.entered) })
	<-n.release
	return 1, nil
}

func (n *stalledNotifier) Close(uint32) error { return nil }

func send(t *testing.T, a *AppManager, cmd control.Command) error {
	t.Helper()
	reply := make(chan error, 1)
	cmd.Reply = reply
	a.EnqueueCommand(cmd)
	select {
	case err := <-reply:
		return err
	case <-time.After(time.Second):
		t.Fatalf("no reply to %s", cmd.Type)
		return nil
	}
}

func newTestApp(t *testing.T, p, fallback timer.Player, n notify.Notifier) (*AppManager, *fakeView) {
	t.Helper()
	a := NewAppManager(p, fallback, n, timer.WithTick(time.Millisecond))
	v := &fakeView{}
	a.SetView(v)
	t.Cleanup(func() { a.Shutdown(time.Second) })
	return a, v
}

func TestAppManager_StartWithoutAlarm(t *testing.T) {
	a, v := newTestApp(t, &fakePlayer{}, nil, nil)

	err := send(t, a, control.Command{Type: control.CmdStart, Config: timer.NewConfig(1, 1, "")})
	require.ErrorIs(t, err, timer.ErrNoAlarm)
	assert.False(t, a.runner.Running())
	assert.False(t, v.isRunning())
}

func TestAppManager_StartStop(t *testing.T) {
	a, v := newTestApp(t, &fakePlayer{}, nil, nil)
	cfg := timer.NewConfig(1, 1, "alarm.wav")

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}))
	assert.True(t, a.runner.Running())
	assert.True(t, v.isRunning())

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}), "second start is a no-op")
	assert.True(t, a.runner.Running())

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStop}))
	assert.False(t, a.runner.Running(), "stop joins the worker")
	assert.False(t, v.isRunning())
	assert.True(t, v.seen(timer.StateStopped))
}

func TestAppManager_Mute(t *testing.T) {
	p := &fakePlayer{}
	a, _ := newTestApp(t, p, nil, nil)

	require.NoError(t, send(t, a, control.Command{Type: control.CmdMute}))
	_, stops := p.counts()
	assert.Equal(t, 1, stops)
}

func TestAppManager_AlertNotifies(t *testing.T) {
	n := &fakeNotifier{}
	a, _ := newTestApp(t, &fakePlayer{}, nil, n)
	cfg := timer.Config{Study: time.Millisecond, Break: time.Hour, AlarmPath: "alarm.wav"}

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}))
	require.Eventually(t, func() bool { return n.count() == 1 }, time.Second, time.Millisecond)

	note := n.note(0)
	assert.Equal(t, uint32(0), note.ReplacesID)
	assert.Equal(t, notify.UrgencyNormal, note.Urgency)
	assert.True(t, note.Silent, "the alarm itself is audible")
}

func TestAppManager_FailedAlertUsesFallback(t *testing.T) {
	p := &fakePlayer{loadErr: errors.New("corrupt")}
	fallback := &fakePlayer{}
	n := &fakeNotifier{}
	a, _ := newTestApp(t, p, fallback, n)
	cfg := timer.Config{Study: time.Millisecond, Break: time.Hour, AlarmPath: "broken.mp3"}

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}))
	require.Eventually(t, func() bool { return n.count() == 1 }, time.Second, time.Millisecond)

	plays, _ := fallback.counts()
	assert.Equal(t, 1, plays)
	assert.False(t, n.note(0).Silent)
	mainPlays, _ := p.counts()
	assert.Equal(t, 0, mainPlays)
}

func TestAppManager_StopWithStalledNotifier(t *testing.T) {
	n := newStalledNotifier()
	a, v := newTestApp(t, &fakePlayer{}, nil, n)
	t.Cleanup(func() { close(n.release) })
	cfg := timer.Config{Study: 0, Break: time.Hour, AlarmPath: "alarm.wav"}

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}))
	select {
	case <-n.entered:
	case <-time.After(time.Second):
		t.Fatal("boundary notification never sent")
	}
	require.Eventually(t, func() bool { return v.seen(timer.StateBreakWait) }, time.Second, time.Millisecond,
		"a hung notification must not hold up the loop")

	start := time.Now()
	require.NoError(t, send(t, a, control.Command{Type: control.CmdStop}))
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, a.runner.Running())
}

func TestAppManager_MuteDismissesNotification(t *testing.T) {
	n := &fakeNotifier{}
	a, _ := newTestApp(t, &fakePlayer{}, nil, n)
	cfg := timer.Config{Study: time.Millisecond, Break: time.Hour, AlarmPath: "alarm.wav"}

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: cfg}))
	require.Eventually(t, func() bool { return n.count() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, send(t, a, control.Command{Type: control.CmdMute}))
	require.Eventually(t, func() bool { return len(n.closedIDs()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint32{1}, n.closedIDs())

	require.NoError(t, send(t, a, control.Command{Type: control.CmdMute}))
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, n.closedIDs(), 1, "nothing left to withdraw")
}

func TestUrgencyFor(t *testing.T) {
	assert.Equal(t, notify.UrgencyNormal, urgencyFor(timer.PhaseStudy))
	assert.Equal(t, notify.UrgencyCritical, urgencyFor(timer.PhaseBreak))
}

func TestAppManager_Shutdown(t *testing.T) {
	p := &fakePlayer{}
	a := NewAppManager(p, nil, nil)
	v := &fakeView{}
	a.SetView(v)

	require.NoError(t, send(t, a, control.Command{Type: control.CmdStart, Config: timer.NewConfig(1, 1, "alarm.wav")}))
	a.Shutdown(time.Second)

	assert.False(t, a.runner.Running())
	_, stops := p.counts()
	assert.Equal(t, 1, stops)
	select {
	case <-a.loopDone:
	default:
		t.Fatal("command loop still running")
	}

	assert.NotPanics(t, func() { a.Shutdown(time.Second) }, "shutdown is idempotent")
}

func TestDefaultAlarm_Installed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	installed := filepath.Join(dir, "assets", defaultAlarmName)
	require.NoError(t, os.WriteFile(installed, []byte("RIFF"), 0o644))

	path, err := defaultAlarm(fstest.MapFS{}, dir)
	require.NoError(t, err)
	assert.Equal(t, installed, path)
}

func TestDefaultAlarm_Extracted(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()

	assets := fstest.MapFS{"assets/" + defaultAlarmName: {Data: []byte("chime")}}
	path, err := defaultAlarm(assets, t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chime", string(data))

	again, err := defaultAlarm(assets, "")
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestDefaultAlarm_Missing(t *testing.T) {
	_, err := defaultAlarm(fstest.MapFS{}, "")
	assert.Error(t, err)
}

func TestEmbeddedAssets(t *testing.T) {
	_, err := content.ReadFile("assets/" + defaultAlarmName)
	assert.NoError(t, err)
	_, err = content.ReadFile("assets/icon.png")
	assert.NoError(t, err)
}
