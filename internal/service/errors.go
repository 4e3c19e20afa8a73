package service

import (
	"errors"

	"github.com/MKhiriev/go-record-sync/internal/registry"
)

var (
	// ErrConfiguration is matched by every setup failure caused by a bad
	// descriptor or an unusable remote container.
	ErrConfiguration = registry.ErrConfiguration

	// ErrSyncLocked signals that an operation was deferred because sync is
	// locked or the remote store is unreachable. It is not a failure.
	ErrSyncLocked = errors.New("sync is locked or offline")

	ErrRemoteWrite         = errors.New("remote write failed")
	ErrRemoteRead          = errors.New("remote read failed")
	ErrReferenceResolution = errors.New("reference could not be resolved")

	// ErrReferenceTypeMismatch is returned when a reference field holds an
	// entity of a type other than the one its mapping declares.
	ErrReferenceTypeMismatch = errors.New("referenced entity has an unexpected type")

	ErrEngineNotReady   = errors.New("sync engine is not set up")
	ErrCallbackReentry  = errors.New("blocking sync call made from a local store callback")
	ErrNilEntity        = errors.New("nil entity")
	ErrInvalidListField = errors.New("reference list field must hold []registry.Entity")
	ErrFinishCalled     = errors.New("sync finish already called")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrContainerNotFound     = errors.New("container not found")
	ErrInvalidDataProvided   = errors.New("invalid data provided")
)
