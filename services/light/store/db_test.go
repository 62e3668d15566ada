package store

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func openTestDB(t *testing.T) (*DB, func()) {
	dir, err := ioutil.TempDir("", "xylight-store")
	if err != nil {
		t.Fatal(err)
	}

	db := &DB{}
	if err := db.Open(filepath.Join(dir, "profiles.db")); err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}

	return db, func() {
		db.Close()
		os.RemoveAll(dir)
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := &Profile{
		Name: "kitchen strip",
		Kind: KindRGB,
		Data: []byte(`{"standard":"led"}`),
	}
	assert.NoError(t, db.SaveProfile(ctx, p))
	assert.NotEmpty(t, p.ID)

	loaded, err := db.Profile(ctx, p.ID)
	assert.NoError(t, err)
	assert.Equal(t, p.Name, loaded.Name)
	assert.Equal(t, KindRGB, loaded.Kind)
	assert.Equal(t, p.Data, loaded.Data)
	assert.True(t, p.Updated.Equal(loaded.Updated))
}

func TestSaveProfileReplaces(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := &Profile{ID: "panel", Name: "panel", Kind: KindCwWw, Data: []byte(`{"cold_white":"6500K"}`)}
	assert.NoError(t, db.SaveProfile(ctx, p))

	p.Data = []byte(`{"cold_white":"6000K"}`)
	assert.NoError(t, db.SaveProfile(ctx, p))

	profiles, err := db.Profiles(ctx)
	assert.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, `{"cold_white":"6000K"}`, string(profiles[0].Data))
}

func TestProfilesOrdering(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, p := range []*Profile{
		{Name: "b", Kind: KindWhite, Data: []byte("{}")},
		{Name: "a", Kind: KindRGB, Data: []byte("{}")},
		{Name: "c", Kind: KindWhite, Data: []byte("{}")},
	} {
		assert.NoError(t, db.SaveProfile(ctx, p))
	}

	profiles, err := db.Profiles(ctx)
	assert.NoError(t, err)
	assert.Len(t, profiles, 3)
	assert.Equal(t, "a", profiles[0].Name)
	assert.Equal(t, "c", profiles[2].Name)

	whites, err := db.ProfilesByKind(ctx, KindWhite)
	assert.NoError(t, err)
	assert.Len(t, whites, 2)
	assert.Equal(t, "b", whites[0].Name)
}

func TestDeleteProfile(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	ctx := context.Background()
	p := &Profile{Name: "lamp", Kind: KindWhite, Data: []byte("{}")}
	assert.NoError(t, db.SaveProfile(ctx, p))

	assert.NoError(t, db.DeleteProfile(ctx, p.ID))
	assert.Equal(t, ErrProfileNotFound, db.DeleteProfile(ctx, p.ID))

	_, err := db.Profile(ctx, p.ID)
	assert.Equal(t, ErrProfileNotFound, err)
}

var invalidProfileTests = []struct {
	name    string
	profile *Profile
}{
	{"missing kind", &Profile{Name: "x", Data: []byte("{}")}},
	{"missing data", &Profile{Name: "x", Kind: KindRGB}},
}

func TestInvalidProfile(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	for _, tt := range invalidProfileTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ErrInvalidProfile, db.SaveProfile(context.Background(), tt.profile))
		})
	}
}

func TestNotSetup(t *testing.T) {
	db := &DB{}
	_, err := db.Profiles(context.Background())
	assert.Equal(t, ErrDatabaseNotSetup, err)
	assert.Equal(t, ErrDatabaseNotSetup, db.DeleteProfile(context.Background(), "x"))
	db.Close()
}
