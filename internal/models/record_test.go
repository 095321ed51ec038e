package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophsync/internal/crypto"
)

func mustRecord(t *testing.T, id string, fields map[string]any) *Record {
	t.Helper()
	r, err := NewRecord(id, "note", fields)
	require.NoError(t, err)
	return r
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("note-1", "note", map[string]any{
		"title":    "A",
		"priority": 3,
		"tags":     []string{"a", "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, "note-1", r.ID)
	assert.Equal(t, "note", r.EntityType)
	assert.Equal(t, int64(3), r.Fields["priority"], "int должен нормализоваться в int64")
	assert.Equal(t, []any{"a", "b"}, r.Fields["tags"])
	assert.Len(t, r.Checksum, 64)
	require.NoError(t, r.VerifyChecksum())
}

func TestNewRecord_UnsupportedValue(t *testing.T) {
	_, err := NewRecord("note-1", "note", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestRecord_ChecksumIgnoresMetadata(t *testing.T) {
	// scenario: title равен, версии разные - checksum одинаковый
	local := mustRecord(t, "doc", map[string]any{"title": "A"})
	local.Version = 2
	server := mustRecord(t, "doc", map[string]any{"title": "A"})
	server.Version = 3
	server.LastModified = 999

	assert.Equal(t, local.Checksum, server.Checksum)
	assert.True(t, local.SameContent(server))
}

func TestRecord_ChecksumIndependentOfKeyOrderAndNFC(t *testing.T) {
	a := mustRecord(t, "doc", map[string]any{"a": 1, "b": "caf\u00e9"})
	b := mustRecord(t, "doc", map[string]any{"b": "cafe\u0301", "a": 1})

	assert.Equal(t, a.Checksum, b.Checksum, "NFC-нормализация должна давать одинаковый checksum")
}

func TestRecord_VerifyChecksum(t *testing.T) {
	r := mustRecord(t, "doc", map[string]any{"title": "A"})
	r.Fields["title"] = "tampered"

	err := r.VerifyChecksum()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	var mismatch *ChecksumMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "doc", mismatch.RecordID)
	assert.NotEqual(t, mismatch.Stored, mismatch.Computed)
	assert.ErrorIs(t, err, crypto.ErrContentMismatch)

	// запись без checksum тоже не проходит проверку
	r.Checksum = ""
	err = r.VerifyChecksum()
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	require.True(t, errors.As(err, &mismatch))
	assert.Empty(t, mismatch.Stored)

	require.NoError(t, r.Seal())
	assert.NoError(t, r.VerifyChecksum())
}

func TestRecord_IsNewerThan(t *testing.T) {
	tests := []struct {
		self     *Record
		other    *Record
		name     string
		expected bool
	}{
		{
			name:     "self version greater",
			self:     &Record{Version: 4},
			other:    &Record{Version: 3},
			expected: true,
		},
		{
			name:     "self version smaller despite later timestamp",
			self:     &Record{Version: 2, LastModified: 500},
			other:    &Record{Version: 3, LastModified: 100},
			expected: false,
		},
		{
			name:     "versions equal, timestamp decides",
			self:     &Record{Version: 5, LastModified: 200},
			other:    &Record{Version: 5, LastModified: 100},
			expected: true,
		},
		{
			name:     "no versions, timestamp decides",
			self:     &Record{LastModified: 100},
			other:    &Record{LastModified: 200},
			expected: false,
		},
		{
			name:     "everything equal",
			self:     &Record{Version: 5, LastModified: 100},
			other:    &Record{Version: 5, LastModified: 100},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.IsNewerThan(tt.other))
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	original := mustRecord(t, "doc", map[string]any{
		"tags": []any{"a"},
		"meta": map[string]any{"k": "v"},
	})
	original.Version = 7
	original.LastModified = 42

	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Изменение копии не должно затрагивать оригинал
	clone.Fields["tags"].([]any)[0] = "changed"
	clone.Fields["meta"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "a", original.Fields["tags"].([]any)[0])
	assert.Equal(t, "v", original.Fields["meta"].(map[string]any)["k"])

	var nilRecord *Record
	assert.Nil(t, nilRecord.Clone())
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		record  *Record
		name    string
		wantErr bool
	}{
		{name: "valid", record: &Record{ID: "note-1", Fields: map[string]any{"title": "x"}}},
		{name: "empty id", record: &Record{ID: ""}, wantErr: true},
		{name: "bad field name", record: &Record{ID: "n", Fields: map[string]any{"1bad": "x"}}, wantErr: true},
		{name: "negative version", record: &Record{ID: "n", Version: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRecord)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRecord_JSONRoundTripKeepsChecksum(t *testing.T) {
	r := mustRecord(t, "doc", map[string]any{
		"priority": 7,
		"ratio":    0.5,
		"tags":     []string{"a"},
		"nested":   map[string]any{"n": 1},
	})
	r.Version = 3

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, int64(7), decoded.Fields["priority"], "целые должны декодироваться как int64")
	assert.Equal(t, 0.5, decoded.Fields["ratio"])
	require.NoError(t, decoded.VerifyChecksum())
	assert.Equal(t, r, &decoded)
}
