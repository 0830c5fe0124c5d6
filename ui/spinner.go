package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Spinner is a bounded integer entry with step buttons.
type Spinner struct {
	widget.BaseWidget

	min, max, step int
	value          int

	entry *widget.Entry
	down  *widget.Button
	up    *widget.Button

	OnChanged func(int)
}

// NewSpinner creates a spinner holding initial, clamped to [min, max].
func NewSpinner(min, max, step, initial int) *Spinner {
	s := &Spinner{min: min, max: max, step: step}
	s.entry = widget.NewEntry()
	s.entry.OnChanged = s.parse
	s.entry.OnSubmitted = func(string) { s.SetValue(s.value) }
	s.down = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), s.Decrement)
	s.up = widget.NewButtonWithIcon("", theme.ContentAddIcon(), s.Increment)
	s.SetValue(initial)
	s.ExtendBaseWidget(s)
	return s
}

func (s *Spinner) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewHBox(s.down, s.up)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, buttons, s.entry))
}

// Value returns the last valid value.
func (s *Spinner) Value() int {
	return s.value
}

// SetValue clamps v into range and updates the entry text.
func (s *Spinner) SetValue(v int) {
	s.set(clamp(v, s.min, s.max))
	s.entry.SetText(strconv.Itoa(s.value))
}

func (s *Spinner) set(v int) {
	if v == s.value {
		return
	}
	s.value = v
	if s.OnChanged != nil {
		s.OnChanged(v)
	}
}

func (s *Spinner) Increment() { s.SetValue(s.value + s.step) }

func (s *Spinner) Decrement() { s.SetValue(s.value - s.step) }

// Enable and Disable toggle the whole control.
func (s *Spinner) Enable() {
	s.entry.Enable()
	s.down.Enable()
	s.up.Enable()
}

func (s *Spinner) Disable() {
	s.entry.Disable()
	s.down.Disable()
	s.up.Disable()
}

// parse accepts in-range numbers typed into the entry; anything else keeps
// the previous value until the entry is submitted.
func (s *Spinner) parse(text string) {
	v, err := strconv.Atoi(text)
	if err != nil || v < s.min || v > s.max {
		return
	}
	s.set(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
