package transformers

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiletimeRoundTrip(t *testing.T) {
	for _, seconds := range []int64{1, 86400, 1364415117, 1700000000, -86400, 253402300799} {
		ticks, err := UnixToFiletime(seconds)
		require.NoError(t, err)
		assert.Equal(t, seconds, FiletimeToUnix(ticks), "seconds=%d", seconds)
	}
}

func TestUnixToFiletime(t *testing.T) {
	ticks, err := UnixToFiletime(1364415117)
	require.NoError(t, err)
	assert.Equal(t, int64(130088887170000000), ticks)

	for _, sentinel := range []int64{0, -1} {
		ticks, err := UnixToFiletime(sentinel)
		require.NoError(t, err)
		assert.Equal(t, sentinel, ticks)
	}

	_, err = UnixToFiletime(math.MaxInt64 / 2)
	assert.Error(t, err)
}

func TestFiletimeToUnix(t *testing.T) {
	assert.Equal(t, int64(0), FiletimeToUnix(0))
	assert.Equal(t, int64(0), FiletimeToUnix(math.MaxInt64))
	assert.Equal(t, int64(1364415117), FiletimeToUnix(130088887179999999))
	assert.Equal(t, int64(-11644473601), FiletimeToUnix(-1))
}

func TestTimestampTransforms(t *testing.T) {
	out, err := timestampToWire(int64(1))
	require.NoError(t, err)
	assert.Equal(t, "116444736010000000", out)

	out, err = timestampToWire(0)
	require.NoError(t, err)
	assert.Equal(t, "0", out)

	out, err = timestampToWire("-1")
	require.NoError(t, err)
	assert.Equal(t, "-1", out)

	out, err = timestampToNative([]byte("9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out)

	out, err = timestampToNative("133444736000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), out)

	_, err = timestampToNative("yesterday")
	var malformedErr *MalformedInputError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, MethodTimestamp, malformedErr.Method)

	_, err = timestampToWire(uint64(math.MaxUint64))
	assert.Error(t, err)
}

func TestBoolTransforms(t *testing.T) {
	out, err := boolToWire(true)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", out)

	out, err = boolToWire(false)
	require.NoError(t, err)
	assert.Equal(t, "FALSE", out)

	_, err = boolToWire("true")
	assert.Error(t, err)

	for input, expected := range map[string]bool{"true": true, "TRUE": true, "True": true, "FALSE": false, "false": false} {
		out, err := boolToNative(input)
		require.NoError(t, err)
		assert.Equal(t, expected, out, input)
	}

	out, err = boolToNative([]byte("TRUE"))
	require.NoError(t, err)
	assert.Equal(t, true, out)

	_, err = boolToNative("yes")
	var malformedErr *MalformedInputError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestBinaryToNative(t *testing.T) {
	out, err := binaryToNative([]byte{0x00, 0x01, 0x02, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "AAEC/w==", out)

	out, err = binaryToNative("\x00\x01\x02\xff")
	require.NoError(t, err)
	assert.Equal(t, "AAEC/w==", out)

	_, err = binaryToNative(42)
	assert.Error(t, err)
}

type fakeObject struct{ dn string }

func (o fakeObject) DistinguishedName() string { return o.dn }

func TestObjectToWire(t *testing.T) {
	out, err := objectToWire(fakeObject{dn: "CN=Alice,OU=Users,DC=example,DC=com"})
	require.NoError(t, err)
	assert.Equal(t, "CN=Alice,OU=Users,DC=example,DC=com", out)

	out, err = objectToWire("CN=Bob,DC=example,DC=com")
	require.NoError(t, err)
	assert.Equal(t, "CN=Bob,DC=example,DC=com", out)

	_, err = objectToWire(fakeObject{})
	assert.ErrorIs(t, err, ErrUnpersistedReference)

	_, err = objectToWire(12)
	var malformedErr *MalformedInputError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestLDAPTimeTransforms(t *testing.T) {
	toWire := ldapTimeToWire(MethodUTCTime)
	toNative := ldapTimeToNative(MethodUTCTime)

	out, err := toWire(int64(1364415117))
	require.NoError(t, err)
	assert.Equal(t, "20130327201157.0Z", out)

	tests := []struct {
		input    string
		expected int64
	}{
		{"20130327201157.0Z", 1364415117},
		{"20130327201157.123456Z", 1364415117},
		{"20130327201157Z", 1364415117},
		{"20130327201157", 1364415117},
		{"20130327203157.0+0200", 1364409117},
		{"20130327181157-0200", 1364415117},
		{"20130327201157.0z", 1364415117},
		{"20130327221157.0+02", 1364415117},
		{"20130327181157-02", 1364415117},
		{"20130327201157.0+0000", 1364415117},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := toNative(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	for _, bad := range []string{"", "2013", "20131327201157.0Z", "20130327201157.0X", "20130327201157+2", "20130327201157+02:00", "20130327201157+0a"} {
		_, err := toNative(bad)
		var malformedErr *MalformedInputError
		require.ErrorAs(t, err, &malformedErr, bad)
		assert.Equal(t, MethodUTCTime, malformedErr.Method)
	}
}

func TestGUIDTransforms(t *testing.T) {
	display := "01234567-89ab-cdef-0123-456789abcdef"
	wire := []byte{0x67, 0x45, 0x23, 0x01, 0xab, 0x89, 0xef, 0xcd, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	out, err := guidToWire(display)
	require.NoError(t, err)
	assert.Equal(t, wire, out)

	out, err = guidToWire("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, wire, out)

	out, err = guidToWire(uuid.MustParse(display))
	require.NoError(t, err)
	assert.Equal(t, wire, out)

	out, err = guidToNative(wire)
	require.NoError(t, err)
	assert.Equal(t, display, out)

	out, err = guidToNative(string(wire))
	require.NoError(t, err)
	assert.Equal(t, display, out)

	_, err = guidToNative([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = guidToWire("not-a-guid")
	assert.Error(t, err)
}

func TestGUIDRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		id := uuid.New()
		wire, err := guidToWire(id.String())
		require.NoError(t, err)

		back, err := guidToNative(wire)
		require.NoError(t, err)
		assert.Equal(t, id.String(), back)

		decoded, err := GUIDFromWire(GUIDToWire(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestUnicodePwdToWire(t *testing.T) {
	out, err := unicodePwdToWire("pw")
	require.NoError(t, err)
	assert.Equal(t, "\x22\x00\x70\x00\x77\x00\x22\x00", out)

	out, err = unicodePwdToWire("é")
	require.NoError(t, err)
	assert.Equal(t, "\x22\x00\xe9\x00\x22\x00", out)

	_, err = unicodePwdToWire(1234)
	assert.Error(t, err)
}

func TestMalformedInputError(t *testing.T) {
	inner := errors.New("boom")
	err := malformed(MethodBool, "maybe", inner)
	assert.Equal(t, `malformed bool value "maybe": boom`, err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `malformed bool value "maybe"`, malformed(MethodBool, "maybe", nil).Error())
}
