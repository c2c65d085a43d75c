package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-autotracker/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when controllers connect or disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// opener creates a controller for a port that was just seen
type opener func() (Controller, error)

// DeviceManager polls MIDI ports and connects Launchpads as they appear
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	allow       []string
}

// NewDeviceManager creates a device manager. allow restricts autoconnect to
// ports whose name contains one of the given substrings; empty allows any
// Launchpad.
func NewDeviceManager(allow []string) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		allow:       allow,
	}
}

// Events returns the connect/disconnect channel. It is closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run polls until ctx is cancelled (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()
	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	type ports struct {
		in  []drivers.In
		out []drivers.Out
	}
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{in: gomidi.GetInPorts(), out: gomidi.GetOutPorts()}
	}()

	var p ports
	select {
	case p = <-ch:
	case <-time.After(3 * time.Second):
		// CoreMIDI is hung, skip this scan
		debug.Log("midi", "port scan timed out")
		return
	}

	found := make(map[string]opener)
	for _, in := range p.in {
		name := in.String()
		if !dm.wants(name) {
			continue
		}
		var out drivers.Out
		for _, o := range p.out {
			if strings.EqualFold(o.String(), name) {
				out = o
				break
			}
		}
		found[name] = func() (Controller, error) {
			return NewLaunchpad(name, in, out)
		}
	}
	dm.reconcile(found)
}

func (dm *DeviceManager) wants(name string) bool {
	if !isLaunchpad(name) {
		return false
	}
	if len(dm.allow) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, a := range dm.allow {
		if strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// reconcile opens newly seen ports and closes the ones that went away
func (dm *DeviceManager) reconcile(found map[string]opener) {
	for id, open := range found {
		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := open()
		if err != nil {
			debug.Log("midi", "connect %s: %v", id, err)
			continue
		}
		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		debug.Log("midi", "connected %s", id)
		dm.emit(DeviceEvent{Type: DeviceConnected, Controller: c, ID: id})
	}

	dm.mu.Lock()
	var gone []string
	for id, c := range dm.controllers {
		if _, ok := found[id]; !ok {
			c.Close()
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		delete(dm.controllers, id)
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Log("midi", "disconnected %s", id)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
		debug.Log("midi", "device event dropped: %s", ev.ID)
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}

// InPortNames lists the available input ports
func InPortNames() ([]string, error) {
	ch := make(chan []drivers.In, 1)
	go func() { ch <- gomidi.GetInPorts() }()
	select {
	case ports := <-ch:
		names := make([]string, len(ports))
		for i, p := range ports {
			names[i] = p.String()
		}
		return names, nil
	case <-time.After(3 * time.Second):
		return nil, fmt.Errorf("timed out listing MIDI ports")
	}
}
