package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TIMETABLE_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("TIMETABLE_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("TIMETABLE_TEST_MISSING", "default"))
}

func TestLoad(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DOCPROC_URL", "http://docproc:9000")

	Load()

	assert.Equal(t, "8080", AppConfig.Port)
	assert.Equal(t, "client-id", AppConfig.GoogleClientID)
	assert.Equal(t, "http://docproc:9000", AppConfig.DocprocURL)
	assert.Equal(t, "./data/timetable.db", AppConfig.DBPath)
	assert.True(t, AppConfig.IsProduction())
}
