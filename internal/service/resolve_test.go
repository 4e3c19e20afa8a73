package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-record-sync/internal/registry"
	"github.com/MKhiriev/go-record-sync/models"
)

func petRecord(id, name string) models.Record {
	rec := models.NewRecord("Pet", id)
	rec.Set("name", models.StringValue(name))
	return rec
}

func TestUpdateEntity_ResolvesReferences(t *testing.T) {
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)

	remote.put(personRecord("p-bob", "Bob", time.Now()))
	remote.put(petRecord("pet-1", "Rex"))
	remote.put(petRecord("pet-2", "Tom"))

	rec := personRecord("p-ann", "Ann", time.Now())
	rec.Set("friend", models.ReferenceValue(models.Reference{RecordID: "p-bob"}))
	rec.Set("pets", models.ReferenceListValue([]models.Reference{
		{RecordID: "pet-1"}, {RecordID: "missing"}, {RecordID: "pet-2"},
	}))

	ann := &person{}
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, true))

	assert.Equal(t, "p-ann", ann.SID)
	assert.Equal(t, "Ann", ann.Name)

	require.NotNil(t, ann.Friend)
	assert.Equal(t, "p-bob", ann.Friend.SID)
	assert.Equal(t, "Bob", ann.Friend.Name)

	require.Len(t, ann.Pets, 2, "missing members are skipped")
	assert.Equal(t, "Rex", ann.Pets[0].(*pet).Name)
	assert.Equal(t, "Tom", ann.Pets[1].(*pet).Name)

	created, err := f.local.FetchEntity(context.Background(), "Pet", "pet-1")
	require.NoError(t, err)
	assert.Same(t, ann.Pets[0], created, "referenced entities are created locally")
}

func TestUpdateEntity_MissingReferenceUsesPlaceholder(t *testing.T) {
	f := newFixture(t, newFakeRemote(), "device-a", true)

	rec := personRecord("p-ann", "Ann", time.Now())
	rec.Set("friend", models.ReferenceValue(models.Reference{RecordID: "nowhere"}))

	ann := &person{}
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, true))

	assert.Same(t, nobody, ann.Friend)
}

func TestUpdateEntity_AbsentReferenceUsesPlaceholder(t *testing.T) {
	f := newFixture(t, newFakeRemote(), "device-a", true)

	ann := &person{Friend: &person{Name: "stale"}}
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, personRecord("p-ann", "Ann", time.Now()), true))

	assert.Same(t, nobody, ann.Friend)
}

func TestUpdateEntity_KeepsNewerLocalReference(t *testing.T) {
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)

	remote.put(personRecord("p-bob", "Bob (remote)", time.Now().Add(-time.Hour)))
	bob := &person{SID: "p-bob", Name: "Bob (local)", TS: time.Now()}
	f.local.add(bob)

	rec := personRecord("p-ann", "Ann", time.Now())
	rec.Set("friend", models.ReferenceValue(models.Reference{RecordID: "p-bob"}))

	ann := &person{}
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, true))

	assert.Same(t, bob, ann.Friend)
	assert.Equal(t, "Bob (local)", bob.Name)
}

func TestUpdateEntity_WithoutReferences(t *testing.T) {
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)
	remote.put(personRecord("p-bob", "Bob", time.Now()))

	rec := personRecord("p-ann", "Ann", time.Now())
	rec.Set("friend", models.ReferenceValue(models.Reference{RecordID: "p-bob"}))

	ann := &person{Pets: []registry.Entity{&pet{Name: "kept"}}}
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, false))

	assert.Equal(t, "Ann", ann.Name)
	assert.Nil(t, ann.Friend)
	assert.Len(t, ann.Pets, 1)

	events := f.local.saveEvents()
	require.NotEmpty(t, events)
	assert.Same(t, ann, events[len(events)-1].entity)
}

func TestUpdateEntity_ListFetchFailureLeavesListUnchanged(t *testing.T) {
	remote := newFakeRemote()
	f := newFixture(t, remote, "device-a", true)

	rec := personRecord("p-ann", "Ann", time.Now())
	rec.Set("pets", models.ReferenceListValue([]models.Reference{{RecordID: "pet-1"}}))

	kept := &pet{Name: "kept"}
	ann := &person{Pets: []registry.Entity{kept}}

	remote.setOffline(true)
	require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, true))

	require.Len(t, ann.Pets, 1)
	assert.Same(t, kept, ann.Pets[0])
	assert.Same(t, nobody, ann.Friend)
}

func TestUpdateEntity_NilEntity(t *testing.T) {
	f := newFixture(t, newFakeRemote(), "device-a", true)

	var p *person
	err := f.engine.UpdateEntity(context.Background(), p, models.Record{}, false)

	assert.ErrorIs(t, err, ErrNilEntity)
}

func TestUpdateEntity_PlaceholderFollowsTargetType(t *testing.T) {
	tests := []struct {
		name   string
		friend models.Reference
	}{
		{name: "missing record", friend: models.Reference{RecordID: "nowhere"}},
		{name: "record of another type", friend: models.Reference{RecordID: "pet-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			f := newFixture(t, remote, "device-a", true)
			remote.put(petRecord("pet-1", "Rex"))

			rec := personRecord("p-ann", "Ann", time.Now())
			rec.Set("friend", models.ReferenceValue(tt.friend))

			ann := &person{}
			require.NoError(t, f.engine.UpdateEntity(context.Background(), ann, rec, true))

			assert.Same(t, nobody, ann.Friend)
			created, err := f.local.FetchEntity(context.Background(), "Pet", "pet-1")
			require.NoError(t, err)
			assert.Nil(t, created, "a mistyped reference is not materialized")
		})
	}
}
