// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks records, batch requests and subscriptions before
// the record store persists them.
//
// A [Validator] accepts any of the request models and may be narrowed to a
// subset of fields (see the Field* constants), so a handler can check only
// what a route uses.
package validators

import "context"

// Validator validates a request value. When fields are given, only those
// parts of the value are checked.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
