// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/rankit/core"
)

// Stored documents are serialized in MUS format. The record is small
// enough that the serializers are written directly against the mus-go
// primitives instead of generated.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(id), err
}

// MarshalStoredDocument serializes a StoredDocument to bytes.
func MarshalStoredDocument(doc *core.StoredDocument) []byte {
	size := varint.Uint64.Size(uint64(doc.Id)) +
		varint.Uint64.Size(doc.Seq) +
		ord.String.Size(doc.Contents)
	buf := make([]byte, size)

	n := varint.Uint64.Marshal(uint64(doc.Id), buf)
	n += varint.Uint64.Marshal(doc.Seq, buf[n:])
	ord.String.Marshal(doc.Contents, buf[n:])
	return buf
}

// UnmarshalStoredDocument deserializes a StoredDocument from bytes.
func UnmarshalStoredDocument(data []byte) (*core.StoredDocument, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	seq, m, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	contents, _, err := ord.String.Unmarshal(data[n+m:])
	if err != nil {
		return nil, err
	}
	return &core.StoredDocument{
		Id:       core.ID(id),
		Seq:      seq,
		Contents: contents,
	}, nil
}
