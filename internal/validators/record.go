package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-record-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the client-supplied record id.
	FieldID = "id"

	// FieldType targets the record type name.
	FieldType = "type"

	// FieldFields targets the field map of a record: names, value kinds
	// and reference payloads.
	FieldFields = "fields"

	// FieldRecords targets the record list of a save request.
	FieldRecords = "records"

	// FieldLength targets the declared length of a batch request.
	FieldLength = "length"

	// FieldIDs targets the id list of fetch and delete requests.
	FieldIDs = "ids"

	// FieldEvents targets the event list of a subscription.
	FieldEvents = "events"
)

// maxIDLength bounds record and subscription ids.
const maxIDLength = 256

var knownKinds = map[models.ValueKind]struct{}{
	models.KindNull:          {},
	models.KindString:        {},
	models.KindInt:           {},
	models.KindFloat:         {},
	models.KindBool:          {},
	models.KindTime:          {},
	models.KindBytes:         {},
	models.KindReference:     {},
	models.KindReferenceList: {},
}

type RecordValidator struct {
}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Record:
		return v.validateRecord(ctx, value, fields...)
	case *models.Record:
		return v.validateRecord(ctx, *value, fields...)

	case models.SaveRecordsRequest:
		return v.validateSaveRequest(ctx, value, fields...)
	case *models.SaveRecordsRequest:
		return v.validateSaveRequest(ctx, *value, fields...)

	case models.FetchRecordsRequest:
		return validateIDs(value.IDs)
	case *models.FetchRecordsRequest:
		return validateIDs(value.IDs)

	case models.DeleteRecordsRequest:
		return validateIDs(value.IDs)
	case *models.DeleteRecordsRequest:
		return validateIDs(value.IDs)

	case models.RecordQuery:
		return v.validateQuery(value)
	case *models.RecordQuery:
		return v.validateQuery(*value)

	case models.Subscription:
		return v.validateSubscription(value, fields...)
	case *models.Subscription:
		return v.validateSubscription(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func validID(id string) bool {
	return id != "" && len(id) <= maxIDLength && strings.TrimSpace(id) == id
}

func (v *RecordValidator) validateRecord(ctx context.Context, rec models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldType, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if !validID(rec.ID) {
				return ErrInvalidRecordID
			}
		case FieldType:
			if !validID(rec.Type) {
				return ErrInvalidRecordType
			}
		case FieldFields:
			for name, value := range rec.Fields {
				if name == "" {
					return ErrInvalidFieldName
				}
				if _, ok := knownKinds[value.Kind]; !ok && value.Kind != "" {
					return fmt.Errorf("%w: field %q has kind %q", ErrInvalidFieldValue, name, value.Kind)
				}
				if err := validateReferences(name, value); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateReferences(name string, value models.Value) error {
	var refs []models.Reference
	switch value.Kind {
	case models.KindReference:
		refs = []models.Reference{value.Reference}
	case models.KindReferenceList:
		refs = value.References
	default:
		return nil
	}

	for _, ref := range refs {
		if !validID(ref.RecordID) {
			return fmt.Errorf("%w: field %q", ErrInvalidReference, name)
		}
		switch ref.Action {
		case "", models.ReferenceActionNone, models.ReferenceActionDeleteSelf:
		default:
			return fmt.Errorf("%w: field %q has action %q", ErrInvalidReference, name, ref.Action)
		}
	}
	return nil
}

func (v *RecordValidator) validateSaveRequest(ctx context.Context, request models.SaveRecordsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecords, FieldLength}
	}

	for _, f := range fields {
		switch f {
		case FieldRecords:
			if len(request.Records) == 0 {
				return ErrEmptyRecords
			}
			seen := make(map[string]struct{}, len(request.Records))
			for i, rec := range request.Records {
				if err := v.validateRecord(ctx, rec); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				if _, dup := seen[rec.ID]; dup {
					return fmt.Errorf("validation error at index %d: %w", i, ErrDuplicateID)
				}
				seen[rec.ID] = struct{}{}
			}
		case FieldLength:
			if request.Length != len(request.Records) {
				return ErrLengthMismatch
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptyIDs
	}
	for i, id := range ids {
		if !validID(id) {
			return fmt.Errorf("validation error at index %d: %w", i, ErrInvalidRecordID)
		}
	}
	return nil
}

func (v *RecordValidator) validateQuery(q models.RecordQuery) error {
	if !validID(q.RecordType) {
		return ErrInvalidQueryTypeName
	}
	for field := range q.Equals {
		if field == "" {
			return ErrInvalidFieldName
		}
	}
	return nil
}

func (v *RecordValidator) validateSubscription(sub models.Subscription, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldType, FieldEvents}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if !validID(sub.ID) || strings.Contains(sub.ID, "/") {
				return ErrInvalidSubscription
			}
		case FieldType:
			if !validID(sub.RecordType) {
				return ErrInvalidRecordType
			}
		case FieldEvents:
			if len(sub.Events) == 0 {
				return ErrInvalidEvents
			}
			for _, e := range sub.Events {
				switch e {
				case models.EventRecordCreated, models.EventRecordUpdated, models.EventRecordDeleted:
				default:
					return ErrInvalidEvents
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
