package main

import (
	"StudyBreak/audio"
	"StudyBreak/config"
	"StudyBreak/i18n"
	"StudyBreak/notify"
	"StudyBreak/timer"
	"StudyBreak/ui"
	"embed"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

const (
	appID           = "io.github.studybreak"
	shutdownTimeout = 2 * time.Second
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	i18n.SetLang(cfg.Language)

	fyneApp := app.NewWithID(appID)

	if iconBytes, err := content.ReadFile("assets/icon.png"); err == nil {
		fyneApp.SetIcon(fyne.NewStaticResource("icon.png", iconBytes))
	} else {
		log.Printf("Failed to load icon. %v", err)
	}
	fyneApp.Settings().SetTheme(ui.NewCustomTheme())

	var player timer.Player
	var fallback timer.Player
	speakerPlayer := audio.NewPlayer()
	if err := speakerPlayer.Init(); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v", err)
		player = audio.NewBeeper()
	} else {
		player = speakerPlayer
		fallback = audio.NewBeeper()
	}

	notifier := notify.Disabled()
	if cfg.Notifications {
		if notifier, err = notify.New("StudyBreak", appID); err != nil {
			log.Printf("Notifications disabled: %v", err)
			notifier = notify.Disabled()
		}
	}

	alarmPath := cfg.AlarmPath
	if alarmPath == "" {
		if alarmPath, err = defaultAlarm(content, executableDir()); err != nil {
			log.Printf("No default alarm sound: %v", err)
			alarmPath = ""
		}
	}

	a := NewAppManager(player, fallback, notifier)
	w, view := ui.CreateMainWindow(a, fyneApp, ui.Defaults{
		StudyMinutes: cfg.StudyMinutes,
		BreakMinutes: cfg.BreakMinutes,
		AlarmPath:    alarmPath,
	})
	a.SetView(view)

	w.SetCloseIntercept(func() {
		a.Shutdown(shutdownTimeout)
		w.Close()
	})

	w.ShowAndRun()
	a.Shutdown(shutdownTimeout)
}
