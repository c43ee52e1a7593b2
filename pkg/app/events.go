// Package app provides the bubbletea skeleton of the dashboard: the Widget
// contract, the root model that routes messages to widgets, and the timing
// primitives widgets use to drive themselves (Ticker and Rotator).
//
// There is no shared store. Each widget owns its state; the root model only
// forwards messages and lays widgets out.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
)

// DataUpdateEvent carries new data from a collector goroutine back into the
// bubbletea update loop. Receivers type-assert Data based on Source.
type DataUpdateEvent struct {
	Source    string      // Collector name (e.g., "weather", "fx", "quakes")
	Data      interface{} // Type-asserted by the receiver
	Err       error       // Non-nil if the fetch failed
	Timestamp time.Time
}

// FromUpdate converts a runner update into the event widgets receive.
func FromUpdate(u collectors.Update) DataUpdateEvent {
	return DataUpdateEvent{
		Source:    u.Source,
		Data:      u.Data,
		Err:       u.Error,
		Timestamp: u.Timestamp,
	}
}

// Listen returns a Cmd that blocks on the updates channel and delivers the
// next update as a DataUpdateEvent. The model re-issues it after every
// event. A closed channel ends the chain.
func Listen(updates <-chan collectors.Update) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return FromUpdate(u)
	}
}
