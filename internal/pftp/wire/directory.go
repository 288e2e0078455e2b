package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// PftpDirectory is assumed to carry its entries as repeated field 1, each
// entry itself a message whose name is field 1 — a reasonable, internally
// consistent placement for a schema the spec treats as externally defined.
const (
	directoryEntryField protowire.Number = 1
	entryNameField      protowire.Number = 1
)

// EncodeDirectory builds a PftpDirectory message from plain entry names.
func EncodeDirectory(names []string) []byte {
	var b []byte
	for _, name := range names {
		var entry []byte
		entry = protowire.AppendTag(entry, entryNameField, protowire.BytesType)
		entry = protowire.AppendBytes(entry, []byte(name))

		b = protowire.AppendTag(b, directoryEntryField, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// DecodeDirectory parses a PftpDirectory message into its entry names, in
// the order they were encoded. A trailing "/" in a name signals a
// subdirectory; callers (not this package) interpret that convention.
func DecodeDirectory(data []byte) ([]string, error) {
	var names []string
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("wire: invalid directory tag")
		}
		b = b[n:]

		if num == directoryEntryField && typ == protowire.BytesType {
			entry, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("wire: invalid directory entry")
			}
			b = b[m:]

			name, err := decodeEntryName(entry)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return nil, fmt.Errorf("wire: invalid directory field")
		}
		b = b[m:]
	}
	return names, nil
}

func decodeEntryName(entry []byte) (string, error) {
	var name string
	b := entry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", fmt.Errorf("wire: invalid entry tag")
		}
		b = b[n:]

		if num == entryNameField && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return "", fmt.Errorf("wire: invalid entry name")
			}
			name = string(v)
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return "", fmt.Errorf("wire: invalid entry field")
		}
		b = b[m:]
	}
	return name, nil
}
