// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the response messages shared by the record-store
// HTTP handlers and middleware.
//
// The Msg* constants are written into response bodies in place of raw error
// text, so clients see stable wording while the underlying error is logged.
package app

const (
	// MsgInvalidDataProvided is returned when a request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgLengthMismatch is returned when the declared length of a batch does
	// not match the number of items it carries.
	MsgLengthMismatch = "declared length does not match the records provided"

	// MsgUnsupportedFieldType is returned when a record field carries a value
	// type the store cannot persist.
	MsgUnsupportedFieldType = "unsupported field type"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a device token is expired
	// or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoDeviceIDProvided is returned when a handler requires the device id
	// from the token but none is present in the request context.
	MsgNoDeviceIDProvided = "no device ID provided"

	// MsgContainerNotFound is returned when the container named in the URL
	// is not configured on the server.
	MsgContainerNotFound = "container not found"

	// MsgRecordNotFound is returned when a record lookup finds nothing.
	MsgRecordNotFound = "record not found"

	// MsgSubscriptionNotFound is returned when a subscription id is unknown
	// for the calling device.
	MsgSubscriptionNotFound = "subscription not found"

	// MsgRecordAlreadyExists is returned when a record id collides with an
	// existing record of another type.
	MsgRecordAlreadyExists = "record already exists"
)
