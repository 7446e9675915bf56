package main

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/borgmon/meet-minder/pkg/schedule"
)

const trayUpcomingLimit = 5

func (mm *MeetMinder) setupSystemTray() {
	mm.updateSystemTrayMenu()
}

func (mm *MeetMinder) updateSystemTrayMenu() {
	desk, ok := mm.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	// Upcoming reminders section at the top. Clicking an entry skips
	// that occurrence for the day.
	upcoming := mm.upcomingTodayTriggers(trayUpcomingLimit)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today (click to skip):", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, trigger := range upcoming {
			event, ok := mm.scheduler.EventFor(trigger.ID)
			if !ok {
				continue
			}

			itemText := fmt.Sprintf("  %s - %s",
				trigger.At.Format("3:04 PM"),
				truncateString(event.Title, 35))

			menuItems = append(menuItems, fyne.NewMenuItem(itemText, func() {
				mm.skipOccurrence(event)
			}))
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Sync Now", func() {
			go mm.syncEvents()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		mm.quit()
	}))

	menu := fyne.NewMenu("Meet Minder", menuItems...)
	desk.SetSystemTrayMenu(menu)
}

// upcomingTodayTriggers returns the next N armed triggers firing before
// the end of today, earliest first.
func (mm *MeetMinder) upcomingTodayTriggers(limit int) []schedule.Trigger {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24 * time.Hour)

	armed := mm.scheduler.Armed()
	sort.Slice(armed, func(i, j int) bool {
		return armed[i].At.Before(armed[j].At)
	})

	upcoming := []schedule.Trigger{}
	for _, trigger := range armed {
		if trigger.At.After(now) && trigger.At.Before(todayEnd) {
			upcoming = append(upcoming, trigger)
			if len(upcoming) >= limit {
				break
			}
		}
	}

	return upcoming
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
