// Copyright 2025 the Embedding Atlas Agent authors
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
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// MUS serializers for the checkpoint payload. The payload is two ints and a
// slice of float32 slices, so the serializers are composed directly from
// mus-go primitives instead of generated.
var (
	vectorMUS  = ord.NewSliceSer[float32](raw.Float32)
	vectorsMUS = ord.NewSliceSer[[]float32](vectorMUS)
)

// batchResultMUS serializes core.BatchResult.
type batchResultMUS struct{}

// BatchResultMUS is the serializer used for checkpoint values.
var BatchResultMUS = batchResultMUS{}

func (batchResultMUS) Marshal(v core.BatchResult, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(v.BatchIndex, bs)
	n += varint.PositiveInt.Marshal(v.Start, bs[n:])
	n += vectorsMUS.Marshal(v.Vectors, bs[n:])
	return
}

func (batchResultMUS) Unmarshal(bs []byte) (v core.BatchResult, n int, err error) {
	v.BatchIndex, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Start, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vectors, n1, err = vectorsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (batchResultMUS) Size(v core.BatchResult) (size int) {
	size = varint.PositiveInt.Size(v.BatchIndex)
	size += varint.PositiveInt.Size(v.Start)
	size += vectorsMUS.Size(v.Vectors)
	return
}

func (batchResultMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.PositiveInt.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.PositiveInt.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = vectorsMUS.Skip(bs[n:])
	n += n1
	return
}

// MarshalBatchResult serializes a BatchResult to bytes.
func MarshalBatchResult(result *core.BatchResult) []byte {
	buf := make([]byte, BatchResultMUS.Size(*result))
	BatchResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalBatchResult deserializes a BatchResult from bytes.
func UnmarshalBatchResult(data []byte) (*core.BatchResult, error) {
	result, _, err := BatchResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
