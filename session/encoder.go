package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const tokenRecordVersion1 = 1

// ErrCorruptRecord is returned when a stored token blob cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt token record")

func Encode(t *Tokens) ([]byte, error) {
	if t.Access == "" || t.Refresh == "" {
		return nil, errors.New("incomplete token pair")
	}
	if len(t.Access) > 65535 || len(t.Refresh) > 65535 {
		return nil, errors.New("token length exceeded")
	}

	var buf bytes.Buffer
	buf.WriteByte(tokenRecordVersion1)

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(t.Access))); err != nil {
		return nil, err
	}
	buf.WriteString(t.Access)

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(t.Refresh))); err != nil {
		return nil, err
	}
	buf.WriteString(t.Refresh)

	if err := binary.Write(&buf, binary.BigEndian, t.SavedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Tokens, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if version != tokenRecordVersion1 {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptRecord, version)
	}

	t := &Tokens{}

	var accessLen uint16
	if err := binary.Read(reader, binary.BigEndian, &accessLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	access := make([]byte, accessLen)
	if _, err := io.ReadFull(reader, access); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	t.Access = string(access)

	var refreshLen uint16
	if err := binary.Read(reader, binary.BigEndian, &refreshLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	refresh := make([]byte, refreshLen)
	if _, err := io.ReadFull(reader, refresh); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	t.Refresh = string(refresh)

	if err := binary.Read(reader, binary.BigEndian, &t.SavedAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	if t.Access == "" || t.Refresh == "" {
		return nil, fmt.Errorf("%w: incomplete pair", ErrCorruptRecord)
	}

	return t, nil
}
