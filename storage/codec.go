package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const recordFormatVersionV1 = 1

// EncodeRecord serializes a record to the versioned binary form persisted by
// the shipped backends. ExpiresAt is written as UTC UnixNano, so the
// timestamp survives any backend round-trip exactly.
func EncodeRecord(r *Record) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}

	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersionV1)
	buf.WriteByte(byte(r.Kind))

	if err := binary.Write(&buf, binary.BigEndian, r.ExpiresAt.UTC().UnixNano()); err != nil {
		return nil, err
	}

	if len(r.UserID) > 65535 {
		return nil, errors.New("record user id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(r.UserID))); err != nil {
		return nil, err
	}
	buf.WriteString(r.UserID)

	if len(r.LinkedAccessHash) > 255 {
		return nil, errors.New("record linked hash too long")
	}
	buf.WriteByte(byte(len(r.LinkedAccessHash)))
	buf.WriteString(r.LinkedAccessHash)

	if len(r.Scopes) > 65535 {
		return nil, errors.New("record scope list too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(r.Scopes))); err != nil {
		return nil, err
	}
	for _, scope := range r.Scopes {
		if len(scope) > 65535 {
			return nil, errors.New("record scope too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(scope))); err != nil {
			return nil, err
		}
		buf.WriteString(scope)
	}

	return buf.Bytes(), nil
}

// DecodeRecord parses the binary form produced by EncodeRecord.
func DecodeRecord(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordFormatVersionV1 {
		return nil, errors.New("invalid record version")
	}

	kind, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	r := &Record{Kind: Kind(kind)}

	var expiresAt int64
	if err := binary.Read(reader, binary.BigEndian, &expiresAt); err != nil {
		return nil, err
	}
	r.ExpiresAt = time.Unix(0, expiresAt).UTC()

	var userIDLen uint16
	if err := binary.Read(reader, binary.BigEndian, &userIDLen); err != nil {
		return nil, err
	}
	userID := make([]byte, userIDLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return nil, err
	}
	r.UserID = string(userID)

	linkedLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	linked := make([]byte, linkedLen)
	if _, err := io.ReadFull(reader, linked); err != nil {
		return nil, err
	}
	r.LinkedAccessHash = string(linked)

	var scopeCount uint16
	if err := binary.Read(reader, binary.BigEndian, &scopeCount); err != nil {
		return nil, err
	}
	r.Scopes = make([]string, 0, scopeCount)
	for i := 0; i < int(scopeCount); i++ {
		var scopeLen uint16
		if err := binary.Read(reader, binary.BigEndian, &scopeLen); err != nil {
			return nil, err
		}
		scope := make([]byte, scopeLen)
		if _, err := io.ReadFull(reader, scope); err != nil {
			return nil, err
		}
		r.Scopes = append(r.Scopes, string(scope))
	}

	return r, nil
}
