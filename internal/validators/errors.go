package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidRecordID      = errors.New("invalid record id")
	ErrInvalidRecordType    = errors.New("invalid record type")
	ErrInvalidFieldName     = errors.New("invalid field name")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrInvalidReference     = errors.New("invalid reference")
	ErrEmptyRecords         = errors.New("records list cannot be empty")
	ErrEmptyIDs             = errors.New("IDs list cannot be empty")
	ErrLengthMismatch       = errors.New("length does not match the number of records")
	ErrDuplicateID          = errors.New("duplicate record id in request")
	ErrInvalidSubscription  = errors.New("invalid subscription id")
	ErrInvalidEvents        = errors.New("subscription needs at least one known event")
	ErrInvalidQueryTypeName = errors.New("query needs a record type")
)
