package ui

import (
	"StudyBreak/audio"
	"StudyBreak/config"
	"StudyBreak/control"
	"StudyBreak/i18n"
	"StudyBreak/timer"
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

const (
	windowWidth  = 320
	windowHeight = 300
	replyTimeout = 200 * time.Millisecond
)

// App is what the window needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
}

// Defaults seeds the form.
type Defaults struct {
	StudyMinutes int
	BreakMinutes int
	AlarmPath    string
}

// MainView is the timer form: two duration spinners, the alarm path and the
// start, stop and mute controls.
type MainView struct {
	app    App
	window fyne.Window

	study      *Spinner
	breakTime  *Spinner
	alarmEntry *widget.Entry

	browseButton *ttwidget.Button
	startButton  *ttwidget.Button
	stopButton   *ttwidget.Button
	muteButton   *ttwidget.Button
	statusLabel  *widget.Label

	content fyne.CanvasObject
}

// NewMainView builds the form. Window may be nil in tests; dialogs are then
// skipped.
func NewMainView(a App, w fyne.Window, d Defaults) *MainView {
	v := &MainView{app: a, window: w}

	v.study = NewSpinner(config.MinStudyMinutes, config.MaxStudyMinutes, config.MinutesStep, d.StudyMinutes)
	v.breakTime = NewSpinner(config.MinBreakMinutes, config.MaxBreakMinutes, config.MinutesStep, d.BreakMinutes)

	v.alarmEntry = widget.NewEntry()
	v.alarmEntry.SetText(d.AlarmPath)

	v.browseButton = ttwidget.NewButtonWithIcon("", theme.FolderOpenIcon(), v.browse)
	v.browseButton.SetToolTip(i18n.T("Browse"))
	v.startButton = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), v.Start)
	v.startButton.SetToolTip(i18n.T("Start"))
	v.stopButton = ttwidget.NewButtonWithIcon("", theme.MediaStopIcon(), v.Stop)
	v.stopButton.SetToolTip(i18n.T("Stop timer"))
	v.muteButton = ttwidget.NewButtonWithIcon("", theme.VolumeMuteIcon(), v.Mute)
	v.muteButton.SetToolTip(i18n.T("Stop sound"))

	v.statusLabel = widget.NewLabel(i18n.T("Idle"))
	v.statusLabel.Alignment = fyne.TextAlignCenter

	alarmRow := container.NewBorder(nil, nil, nil, v.browseButton, v.alarmEntry)
	controls := container.NewGridWithColumns(2, v.startButton, v.stopButton)

	v.content = container.NewVBox(
		widget.NewLabel(i18n.T("Study Time (minutes):")),
		v.study,
		widget.NewLabel(i18n.T("Break Time (minutes):")),
		v.breakTime,
		widget.NewLabel(i18n.T("Sound file path:")),
		alarmRow,
		controls,
		v.muteButton,
		v.statusLabel,
	)
	return v
}

// Content returns the root canvas object.
func (v *MainView) Content() fyne.CanvasObject {
	return v.content
}

// Config reads the form into a run configuration.
func (v *MainView) Config() timer.Config {
	return timer.NewConfig(v.study.Value(), v.breakTime.Value(), strings.TrimSpace(v.alarmEntry.Text))
}

// Start requests a new run. A refused start shows a warning and leaves the
// form untouched.
func (v *MainView) Start() {
	err := v.request(control.Command{Type: control.CmdStart, Config: v.Config()})
	switch {
	case errors.Is(err, timer.ErrNoAlarm):
		v.showWarning(i18n.T("Please select an alarm sound file."))
	case err != nil:
		v.showWarning(err.Error())
	}
}

// Stop requests cancellation of the current run.
func (v *MainView) Stop() {
	_ = v.request(control.Command{Type: control.CmdStop})
}

// Mute silences the alarm without stopping the timer.
func (v *MainView) Mute() {
	_ = v.request(control.Command{Type: control.CmdMute})
}

func (v *MainView) request(cmd control.Command) error {
	reply := make(chan error, 1)
	cmd.Reply = reply
	v.app.EnqueueCommand(cmd)
	select {
	case err := <-reply:
		return err
	case <-time.After(replyTimeout):
		return nil
	}
}

func (v *MainView) showWarning(msg string) {
	if v.window == nil {
		return
	}
	dialog.ShowInformation(i18n.T("Warning"), msg, v.window)
}

func (v *MainView) browse() {
	if v.window == nil {
		return
	}
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		v.alarmEntry.SetText(r.URI().Path())
	}, v.window)
	d.SetFilter(storage.NewExtensionFileFilter(audio.Extensions()))
	d.Show()
}

// SetRunning toggles the controls that must not change during a run. It may
// be called from any goroutine.
func (v *MainView) SetRunning(running bool) {
	fyne.Do(func() {
		v.applyRunning(running)
	})
}

func (v *MainView) applyRunning(running bool) {
	if running {
		v.startButton.Disable()
		v.study.Disable()
		v.breakTime.Disable()
		v.alarmEntry.Disable()
		v.browseButton.Disable()
		return
	}
	v.startButton.Enable()
	v.study.Enable()
	v.breakTime.Enable()
	v.alarmEntry.Enable()
	v.browseButton.Enable()
	v.statusLabel.SetText(i18n.T("Idle"))
}

// ShowStatus renders a loop status. It may be called from any goroutine.
func (v *MainView) ShowStatus(st timer.Status) {
	text := StatusText(st)
	fyne.Do(func() {
		v.statusLabel.SetText(text)
	})
}

// StatusText formats a loop status for the status line.
func StatusText(st timer.Status) string {
	switch st.State {
	case timer.StateStudyWait:
		return fmt.Sprintf("%s %s · %s %d", i18n.T("Studying"), timer.FormatTime(st.Remaining), i18n.T("Cycle"), st.Cycle)
	case timer.StateBreakWait:
		return fmt.Sprintf("%s %s · %s %d", i18n.T("On break"), timer.FormatTime(st.Remaining), i18n.T("Cycle"), st.Cycle)
	case timer.StateStudyAlert, timer.StateBreakAlert:
		if st.Err != nil {
			return i18n.T("Alarm sound failed")
		}
		return i18n.T("Alarm!")
	default:
		return i18n.T("Idle")
	}
}

// HandleKeyRune maps shortcuts: space starts or stops, m mutes.
func (v *MainView) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		if v.startButton.Disabled() {
			v.Stop()
		} else {
			v.Start()
		}
	case 'm', 'M':
		v.Mute()
	}
}

// CreateMainWindow builds the application window around a MainView.
func CreateMainWindow(a App, fyneApp fyne.App, d Defaults) (fyne.Window, *MainView) {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "StudyBreak"
	}
	w := fyneApp.NewWindow(title)

	v := NewMainView(a, w, d)
	w.Canvas().SetOnTypedRune(v.HandleKeyRune)
	w.SetContent(fynetooltip.AddWindowToolTipLayer(v.Content(), w.Canvas()))
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.SetFixedSize(true)
	return w, v
}
