package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	ID   uint
	Name string
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &probe{}))
	require.NoError(t, db.Create(&probe{Name: "a"}).Error)

	var count int64
	require.NoError(t, db.Model(&probe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.ErrorContains(t, err, "unsupported database driver")
}
