// Package wire hand-encodes and decodes the small protobuf-shaped messages
// PFTP requests and responses carry, using the wire-format primitives from
// google.golang.org/protobuf/encoding/protowire directly rather than
// generated bindings — the message shapes involved (one int field plus one
// string field; one repeated string-named entry) are simple enough that
// protoc codegen would add a build step for no benefit.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	operationCommandField protowire.Number = 1
	operationPathField    protowire.Number = 2
)

// EncodeOperation builds the wire bytes for a PftpOperation{command, path}
// request: field 1 is the command as a varint, field 2 is the path as a
// length-delimited string.
func EncodeOperation(command int32, path string) []byte {
	var b []byte
	b = protowire.AppendTag(b, operationCommandField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(command))
	b = protowire.AppendTag(b, operationPathField, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(path))
	return b
}

// EncodeOperationPath builds just the command+path portion of a request,
// for callers (such as the file-upload frame) that need to splice raw
// bytes in after the path field rather than use a full PftpOperation.
func EncodeOperationPath(command int32, path string) []byte {
	return EncodeOperation(command, path)
}

// DecodeOperation parses a PftpOperation back into its command and path,
// used by tests that assert on the frames this package builds.
func DecodeOperation(data []byte) (command int32, path string, err error) {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, "", fmt.Errorf("wire: invalid operation tag")
		}
		b = b[n:]
		switch {
		case num == operationCommandField && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return 0, "", fmt.Errorf("wire: invalid operation command")
			}
			command = int32(v)
			b = b[m:]
		case num == operationPathField && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return 0, "", fmt.Errorf("wire: invalid operation path")
			}
			path = string(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return 0, "", fmt.Errorf("wire: invalid operation field")
			}
			b = b[m:]
		}
	}
	return command, path, nil
}
