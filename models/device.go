package models

// Record types owned by the sync engine itself.
const (
	DeviceRecordType      = "Device"
	DeleteQueueRecordType = "DeleteQueue"
)

// Delete queue record field names.
const (
	DeleteQueueDeviceField     = "dq_device_id"
	DeleteQueueRecordIDField   = "dq_record_id"
	DeleteQueueRecordTypeField = "dq_record_type"
)

// DeviceIDField holds the device id on a device record.
const DeviceIDField = "device_id"

// Device is a registered installation sharing the remote store.
type Device struct {
	DeviceID string
}

// ToRecord encodes the device as a remote record keyed by its id.
func (d Device) ToRecord() Record {
	rec := NewRecord(DeviceRecordType, d.DeviceID)
	rec.Set(DeviceIDField, StringValue(d.DeviceID))
	return rec
}

// DeviceFromRecord decodes a device record. Records written without the
// id field fall back to the record id.
func DeviceFromRecord(rec Record) Device {
	id := rec.StringField(DeviceIDField)
	if id == "" {
		id = rec.ID
	}
	return Device{DeviceID: id}
}

// DeleteQueueEntry tells one device that a record was deleted elsewhere.
type DeleteQueueEntry struct {
	ID                string
	TargetDeviceID    string
	DeletedSyncID     string
	DeletedRecordType string
}

// ToRecord encodes the entry as a remote record with the given id.
func (e DeleteQueueEntry) ToRecord(id string) Record {
	rec := NewRecord(DeleteQueueRecordType, id)
	rec.Set(DeleteQueueDeviceField, StringValue(e.TargetDeviceID))
	rec.Set(DeleteQueueRecordIDField, StringValue(e.DeletedSyncID))
	rec.Set(DeleteQueueRecordTypeField, StringValue(e.DeletedRecordType))
	return rec
}

// DeleteQueueEntryFromRecord decodes a delete queue record.
func DeleteQueueEntryFromRecord(rec Record) DeleteQueueEntry {
	return DeleteQueueEntry{
		ID:                rec.ID,
		TargetDeviceID:    rec.StringField(DeleteQueueDeviceField),
		DeletedSyncID:     rec.StringField(DeleteQueueRecordIDField),
		DeletedRecordType: rec.StringField(DeleteQueueRecordTypeField),
	}
}

// DeleteInfo is handed to the local store for every remote deletion.
// EntityType is the local type name registered with the engine.
type DeleteInfo struct {
	EntityType string
	SyncID     string
}
