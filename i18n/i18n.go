package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Study Time (minutes):": {
		"pt": "Tempo de estudo (minutos):",
		"es": "Tiempo de estudio (minutos):",
		"ru": "Время учёбы (минуты):",
	},
	"Break Time (minutes):": {
		"pt": "Tempo de pausa (minutos):",
		"es": "Tiempo de descanso (minutos):",
		"ru": "Время перерыва (минуты):",
	},
	"Sound file path:": {
		"pt": "Arquivo de som:",
		"es": "Archivo de sonido:",
		"ru": "Звуковой файл:",
	},
	"Warning": {
		"pt": "Aviso",
		"es": "Advertencia",
		"ru": "Внимание",
	},
	"Please select an alarm sound file.": {
		"pt": "Selecione um arquivo de som para o alarme.",
		"es": "Seleccione un archivo de sonido para la alarma.",
		"ru": "Выберите звуковой файл для сигнала.",
	},
	"Browse": {
		"pt": "Procurar",
		"es": "Examinar",
		"ru": "Обзор",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Stop timer": {
		"pt": "Parar timer",
		"es": "Detener temporizador",
		"ru": "Остановить таймер",
	},
	"Stop sound": {
		"pt": "Parar som",
		"es": "Detener sonido",
		"ru": "Выключить звук",
	},
	"Idle": {
		"pt": "Parado",
		"es": "Inactivo",
		"ru": "Ожидание",
	},
	"Studying": {
		"pt": "Estudando",
		"es": "Estudiando",
		"ru": "Учёба",
	},
	"On break": {
		"pt": "Em pausa",
		"es": "En descanso",
		"ru": "Перерыв",
	},
	"Alarm!": {
		"pt": "Alarme!",
		"es": "¡Alarma!",
		"ru": "Сигнал!",
	},
	"Study time is over": {
		"pt": "O tempo de estudo acabou",
		"es": "Se acabó el tiempo de estudio",
		"ru": "Время учёбы закончилось",
	},
	"Break is over": {
		"pt": "A pausa acabou",
		"es": "Se acabó el descanso",
		"ru": "Перерыв закончился",
	},
	"Alarm sound failed": {
		"pt": "Falha ao tocar o alarme",
		"es": "Error al reproducir la alarma",
		"ru": "Не удалось воспроизвести сигнал",
	},
	"Cycle": {
		"pt": "Ciclo",
		"es": "Ciclo",
		"ru": "Цикл",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("STUDYBREAK_LANG")); forcedLang != "" {
		log.Printf("STUDYBREAK_LANG is set to: '%s'", forcedLang)
		lang = forcedLang
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	if len(userLocales) > 0 {
		lang = match(userLocales[0])
		log.Printf("Detected user locale: %s, language set to: %s", userLocales[0], lang)
	} else {
		lang = "en"
	}
}

// match maps a locale such as "pt-BR" to a supported language code.
func match(loc string) string {
	for _, l := range supported {
		if strings.HasPrefix(loc, l) {
			return l
		}
	}
	return "en"
}

// SetLang overrides the detected language. An empty value keeps the current
// one; the environment override always wins.
func SetLang(l string) {
	if l == "" || os.Getenv("STUDYBREAK_LANG") != "" {
		return
	}
	lang = match(strings.ToLower(l))
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
