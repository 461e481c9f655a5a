package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTxtriggerAdmissionKey(t *testing.T) {
	assert.Equal(t, "txtrigger:admitted:0xA", txtriggerAdmissionKey("0xA"))
}

func TestNewLedger_TTLNormalization(t *testing.T) {
	c := &client{}

	t.Run("zero applies the default retention", func(t *testing.T) {
		l := c.NewLedger(0)
		assert.Equal(t, defaultAdmissionTTL, l.ttl)
	})

	t.Run("negative disables expiry", func(t *testing.T) {
		l := c.NewLedger(-1)
		assert.Equal(t, time.Duration(0), l.ttl)
	})

	t.Run("explicit ttl is kept", func(t *testing.T) {
		l := c.NewLedger(time.Hour)
		assert.Equal(t, time.Hour, l.ttl)
	})
}
