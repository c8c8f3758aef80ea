package transformers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ObjectReference is a directory object that can be referenced from a DN-valued attribute.
// An empty DistinguishedName means the object has not been persisted yet.
type ObjectReference interface {
	DistinguishedName() string
}

// asText accepts the two shapes go-ldap hands out for a raw value.
func asText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	}
	return "", false
}

func asInt64(method Method, v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, malformed(method, v, errors.New("out of int64 range"))
		}
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return 0, malformed(method, v, errors.New("out of int64 range"))
		}
		return int64(val), nil
	}

	s, ok := asText(v)
	if !ok {
		return 0, malformed(method, v, fmt.Errorf("unsupported type %T", v))
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, malformed(method, v, err)
	}
	return n, nil
}

// bool

func boolToWire(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, malformed(MethodBool, v, fmt.Errorf("expected bool, got %T", v))
	}
	if b {
		return "TRUE", nil
	}
	return "FALSE", nil
}

func boolToNative(v any) (any, error) {
	s, ok := asText(v)
	switch {
	case ok && strings.EqualFold(s, "true"):
		return true, nil
	case ok && strings.EqualFold(s, "false"):
		return false, nil
	}
	return nil, malformed(MethodBool, v, nil)
}

// binary

func binaryToNative(v any) (any, error) {
	switch val := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(val), nil
	case string:
		return base64.StdEncoding.EncodeToString([]byte(val)), nil
	}
	return nil, malformed(MethodBinary, v, fmt.Errorf("unsupported type %T", v))
}

// object

func objectToWire(v any) (any, error) {
	switch ref := v.(type) {
	case ObjectReference:
		dn := ref.DistinguishedName()
		if dn == "" {
			return nil, ErrUnpersistedReference
		}
		return dn, nil
	case string:
		if ref == "" {
			return nil, ErrUnpersistedReference
		}
		return ref, nil
	}
	return nil, malformed(MethodObject, v, fmt.Errorf("expected an object reference, got %T", v))
}

// timestamp (FILETIME: 100ns ticks since 1601-01-01 UTC)

const (
	filetimeTicksPerSecond     = 10_000_000
	filetimeEpochOffsetSeconds = 11_644_473_600
	filetimeNever              = int64(math.MaxInt64)

	// largest Unix second whose FILETIME still fits in an int64
	maxFiletimeUnixSeconds = math.MaxInt64/filetimeTicksPerSecond - filetimeEpochOffsetSeconds
	minFiletimeUnixSeconds = math.MinInt64/filetimeTicksPerSecond - filetimeEpochOffsetSeconds
)

// FiletimeToUnix converts a FILETIME tick count to Unix epoch seconds, rounding
// down. 0 and 0x7FFFFFFFFFFFFFFF both mean "never" and convert to 0.
func FiletimeToUnix(ticks int64) int64 {
	if ticks == 0 || ticks == filetimeNever {
		return 0
	}
	seconds := ticks / filetimeTicksPerSecond
	if ticks%filetimeTicksPerSecond != 0 && ticks < 0 {
		seconds--
	}
	return seconds - filetimeEpochOffsetSeconds
}

// UnixToFiletime converts Unix epoch seconds to a FILETIME tick count.
// 0 (unset) and -1 (force change) are directory sentinels and are returned unchanged.
func UnixToFiletime(seconds int64) (int64, error) {
	if seconds == 0 || seconds == -1 {
		return seconds, nil
	}
	if seconds > maxFiletimeUnixSeconds || seconds < minFiletimeUnixSeconds {
		return 0, fmt.Errorf("unix time %d is outside the FILETIME range", seconds)
	}
	return (seconds + filetimeEpochOffsetSeconds) * filetimeTicksPerSecond, nil
}

func timestampToWire(v any) (any, error) {
	seconds, err := asInt64(MethodTimestamp, v)
	if err != nil {
		return nil, err
	}
	ticks, err := UnixToFiletime(seconds)
	if err != nil {
		return nil, malformed(MethodTimestamp, v, err)
	}
	return strconv.FormatInt(ticks, 10), nil
}

func timestampToNative(v any) (any, error) {
	ticks, err := asInt64(MethodTimestamp, v)
	if err != nil {
		return nil, err
	}
	return FiletimeToUnix(ticks), nil
}

// utctime / generalisedtime

const ldapTimeLayout = "20060102150405"

// ldapTimeToWire and ldapTimeToNative serve both utctime and generalisedtime;
// the directory accepts the same textual shape for each.
func ldapTimeToWire(method Method) TransformFunc {
	return func(v any) (any, error) {
		var t time.Time
		if tv, ok := v.(time.Time); ok {
			t = tv
		} else {
			seconds, err := asInt64(method, v)
			if err != nil {
				return nil, err
			}
			t = time.Unix(seconds, 0)
		}
		return t.UTC().Format(ldapTimeLayout) + ".0Z", nil
	}
}

// ParseLDAPTime parses YYYYMMDDHHMMSS[.frac][Z|+hh|+hhmm|-hh|-hhmm]. Fractional
// seconds are dropped. A missing zone or Z means UTC; an explicit offset is honoured.
func ParseLDAPTime(s string) (time.Time, error) {
	if len(s) < len(ldapTimeLayout) {
		return time.Time{}, fmt.Errorf("too short for %s", ldapTimeLayout)
	}
	stamp, rest := s[:len(ldapTimeLayout)], s[len(ldapTimeLayout):]

	if len(rest) > 0 && (rest[0] == '.' || rest[0] == ',') {
		i := 1
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		rest = rest[i:]
	}

	loc, err := ldapTimeZone(rest)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(ldapTimeLayout, stamp, loc)
}

// ldapTimeZone resolves the zone suffix of an LDAP time.
func ldapTimeZone(suffix string) (*time.Location, error) {
	switch {
	case suffix == "" || suffix == "Z" || suffix == "z":
		return time.UTC, nil
	case len(suffix) == 3 || len(suffix) == 5:
		if suffix[0] != '+' && suffix[0] != '-' {
			break
		}
		layout := "-0700"
		if len(suffix) == 3 {
			layout = "-07"
		}
		zone, err := time.Parse(layout, suffix)
		if err != nil {
			return nil, fmt.Errorf("invalid zone offset %q: %w", suffix, err)
		}
		_, offset := zone.Zone()
		return time.FixedZone(suffix, offset), nil
	}
	return nil, fmt.Errorf("unexpected suffix %q", suffix)
}

func ldapTimeToNative(method Method) TransformFunc {
	return func(v any) (any, error) {
		s, ok := asText(v)
		if !ok {
			return nil, malformed(method, v, fmt.Errorf("unsupported type %T", v))
		}
		t, err := ParseLDAPTime(strings.TrimSpace(s))
		if err != nil {
			return nil, malformed(method, v, err)
		}
		return t.Unix(), nil
	}
}

// guid

// swapGUIDByteOrder converts between the directory's mixed-endian GUID layout
// and RFC 4122 byte order. The first three groups (4, 2, 2 bytes) are
// reversed; the last two are left alone. The operation is its own inverse.
func swapGUIDByteOrder(b []byte) []byte {
	out := make([]byte, 16)
	copy(out, b)
	out[0], out[1], out[2], out[3] = out[3], out[2], out[1], out[0]
	out[4], out[5] = out[5], out[4]
	out[6], out[7] = out[7], out[6]
	return out
}

// GUIDFromWire decodes the 16 wire bytes of a GUID. Its String form is the
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx display form.
func GUIDFromWire(raw []byte) (uuid.UUID, error) {
	if len(raw) != 16 {
		return uuid.Nil, fmt.Errorf("expected 16 bytes, got %d", len(raw))
	}
	return uuid.FromBytes(swapGUIDByteOrder(raw))
}

// GUIDToWire returns the directory byte order of a GUID.
func GUIDToWire(id uuid.UUID) []byte {
	return swapGUIDByteOrder(id[:])
}

func guidToNative(v any) (any, error) {
	raw, ok := v.([]byte)
	if !ok {
		s, isText := v.(string)
		if !isText {
			return nil, malformed(MethodGUID, v, fmt.Errorf("unsupported type %T", v))
		}
		raw = []byte(s)
	}
	id, err := GUIDFromWire(raw)
	if err != nil {
		return nil, malformed(MethodGUID, v, err)
	}
	return id.String(), nil
}

func guidToWire(v any) (any, error) {
	switch val := v.(type) {
	case uuid.UUID:
		return GUIDToWire(val), nil
	case string:
		id, err := uuid.Parse(strings.ReplaceAll(val, "-", ""))
		if err != nil {
			return nil, malformed(MethodGUID, v, err)
		}
		return GUIDToWire(id), nil
	}
	return nil, malformed(MethodGUID, v, fmt.Errorf("unsupported type %T", v))
}

// unicodepwd

// EncodePassword quotes the password and encodes it as UTF-16LE, the form
// the directory requires when setting unicodePwd.
// See: https://learn.microsoft.com/en-us/openspecs/windows_protocols/ms-adts/6e803168-f140-4d23-b2d3-c3a8ab5917d2
func EncodePassword(password string) (string, error) {
	return utf16le.NewEncoder().String("\"" + password + "\"")
}

func unicodePwdToWire(v any) (any, error) {
	password, ok := asText(v)
	if !ok {
		return nil, malformed(MethodUnicodePwd, v, fmt.Errorf("expected a string, got %T", v))
	}
	encoded, err := EncodePassword(password)
	if err != nil {
		return nil, malformed(MethodUnicodePwd, "<redacted>", err)
	}
	return encoded, nil
}
