package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/models"
)

// deviceRegistry knows this device and every peer sharing the store.
type deviceRegistry struct {
	mu    sync.RWMutex
	self  string
	peers map[string]struct{}
}

func newDeviceRegistry() *deviceRegistry {
	return &deviceRegistry{peers: make(map[string]struct{})}
}

// bootstrap reads every device record, registers self when missing and
// replaces the peer list with the other devices seen.
func (d *deviceRegistry) bootstrap(ctx context.Context, remote adapter.RemoteStore, self string) error {
	recs, err := remote.QueryRecords(ctx, models.RecordQuery{RecordType: models.DeviceRecordType})
	if err != nil {
		return fmt.Errorf("%w: query devices: %w", ErrRemoteRead, err)
	}

	registered := false
	peers := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		dev := models.DeviceFromRecord(rec)
		switch dev.DeviceID {
		case "":
		case self:
			registered = true
		default:
			peers[dev.DeviceID] = struct{}{}
		}
	}

	if !registered {
		if _, err = remote.SaveRecord(ctx, models.Device{DeviceID: self}.ToRecord()); err != nil {
			return fmt.Errorf("%w: register device %s: %w", ErrRemoteWrite, self, err)
		}
	}

	d.mu.Lock()
	d.self = self
	d.peers = peers
	d.mu.Unlock()
	return nil
}

// addPeer records a device announced after bootstrap. It reports whether
// the device was new.
func (d *deviceRegistry) addPeer(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == "" || id == d.self {
		return false
	}
	if _, ok := d.peers[id]; ok {
		return false
	}
	d.peers[id] = struct{}{}
	return true
}

func (d *deviceRegistry) peerIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.peers))
	for id := range d.peers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
