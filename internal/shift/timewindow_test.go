package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.Local)
}

func TestOpenAllowedRegularShift(t *testing.T) {
	// 08:00 - 16:00
	cases := []struct {
		name    string
		now     time.Time
		allowed bool
	}{
		{"well before start", at(6, 0), true},
		{"during shift", at(12, 0), true},
		{"one minute before end", at(15, 59), true},
		{"exactly at end", at(16, 0), true},
		{"one minute after end", at(16, 1), false},
		{"late evening", at(22, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := OpenAllowed("08:00", "16:00", tc.now, DefaultDeadZoneCutoffMinutes)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestOpenAllowedOvernightShift(t *testing.T) {
	// With the 05:00 default, a shift ending at 06:00 has an empty dead zone,
	// so the dead-zone cases use a 17:00-00:59 shift.
	cases := []struct {
		name    string
		start   string
		end     string
		now     time.Time
		allowed bool
	}{
		{"during overnight span", "22:00", "06:00", at(23, 0), true},
		{"daytime before tonight's start", "22:00", "06:00", at(10, 0), true},
		{"just after overnight end", "17:00", "00:59", at(1, 30), false},
		{"deep in dead zone", "17:00", "00:59", at(4, 0), false},
		{"dead zone over at cutoff", "17:00", "00:59", at(5, 0), true},
		{"after dead zone", "17:00", "00:59", at(5, 1), true},
		{"before start same day", "17:00", "00:59", at(12, 0), true},
		{"inside overnight span before midnight", "17:00", "00:59", at(23, 30), true},
		{"inside overnight span after midnight", "17:00", "00:59", at(0, 30), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := OpenAllowed(tc.start, tc.end, tc.now, DefaultDeadZoneCutoffMinutes)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestOpenAllowedLateCutoff(t *testing.T) {
	// start=22:00 end=06:00 with a cutoff past the end time: 06:30 falls in
	// the dead zone only if the cutoff reaches it.
	const cutoff = 7 * 60

	allowed, err := OpenAllowed("22:00", "06:00", at(6, 30), cutoff)
	assert.NoError(t, err)
	assert.False(t, allowed, "06:30 is after the shift ended")

	allowed, err = OpenAllowed("22:00", "06:00", at(23, 0), cutoff)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = OpenAllowed("22:00", "06:00", at(10, 0), cutoff)
	assert.NoError(t, err)
	assert.True(t, allowed, "daytime before tonight's start is open-able")
}

func TestOpenAllowedConfigurableCutoff(t *testing.T) {
	// With a 03:00 cutoff the dead zone for a 17:00-00:59 shift shrinks.
	allowed, err := OpenAllowed("17:00", "00:59", at(4, 0), 180)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = OpenAllowed("17:00", "00:59", at(2, 0), 180)
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestOpenAllowedInvalidTimes(t *testing.T) {
	_, err := OpenAllowed("8am", "16:00", at(12, 0), DefaultDeadZoneCutoffMinutes)
	assert.Error(t, err)

	_, err = OpenAllowed("08:00", "25:00", at(12, 0), DefaultDeadZoneCutoffMinutes)
	assert.Error(t, err)

	_, err = OpenAllowed("08:00", "16:61", at(12, 0), DefaultDeadZoneCutoffMinutes)
	assert.Error(t, err)
}
