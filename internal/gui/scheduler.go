package gui

import (
	"time"

	"fyne.io/fyne/v2"
)

// scheduler runs delayed callbacks on the fyne main thread
type scheduler struct{}

func (scheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { fyne.Do(fn) })
}
