package db

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/log"
)

func TestGetConnectionString(t *testing.T) {
	cfg := config.Settings{
		DBPath: "/test/path/db.sqlite",
	}
	expected := "sqlite3:///test/path/db.sqlite"
	assert.Equal(t, expected, GetConnectionString(cfg))
}

func TestConnect(t *testing.T) {
	tmpDB, err := os.CreateTemp("", "test.*.db")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpDB.Name()) }()

	testConfig := &config.Settings{
		DBPath:  tmpDB.Name(),
		Verbose: true,
	}
	config.SetConfig(testConfig)

	log.Init(true)

	db, err := Connect()
	assert.NoError(t, err)
	assert.NotNil(t, db)

	err = db.Ping()
	assert.NoError(t, err)

	_ = db.Close()
}

func TestMigrations(t *testing.T) {
	tmpDB, err := os.CreateTemp("", "test.*.db")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpDB.Name()) }()

	testConfig := config.Settings{
		DBPath:  tmpDB.Name(),
		Verbose: true,
	}

	log.Init(true)

	err = Up(testConfig)
	assert.NoError(t, err)

	err = Down(testConfig)
	assert.NoError(t, err)
}
