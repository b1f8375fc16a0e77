package repository

import (
    "database/sql"
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestEncodeListNeverProducesNull(t *testing.T) {
    assert.Equal(t, "[]", encodeList(nil))
    assert.Equal(t, "[]", encodeList([]string{}))
    assert.Equal(t, `["Go","SQL"]`, encodeList([]string{"Go", "SQL"}))
}

func TestDecodeListTolerantOfBadRows(t *testing.T) {
    cases := []struct {
        name string
        col  sql.NullString
        want []string
    }{
        {"null column", sql.NullString{}, []string{}},
        {"empty string", sql.NullString{Valid: true}, []string{}},
        {"json null", sql.NullString{String: "null", Valid: true}, []string{}},
        {"malformed", sql.NullString{String: "{not json", Valid: true}, []string{}},
        {"valid", sql.NullString{String: `["a","b"]`, Valid: true}, []string{"a", "b"}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := decodeList(tc.col)
            assert.NotNil(t, got)
            assert.Equal(t, tc.want, got)
        })
    }
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
    in := []string{"3+ years Go", "MySQL", "On-call rotation"}
    col := sql.NullString{String: encodeList(in), Valid: true}
    assert.Equal(t, in, decodeList(col))
}

func TestNullIfEmpty(t *testing.T) {
    assert.Nil(t, nullIfEmpty(""))
    assert.Equal(t, "uploads/cv.pdf", nullIfEmpty("uploads/cv.pdf"))
}
