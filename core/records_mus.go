package core

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Binary serializers for persisted records. They follow the mus-go
// Marshal/Unmarshal/Size convention: Marshal writes into a buffer sized by
// Size and returns the bytes written; Unmarshal returns the value, the bytes
// consumed and an error.

var (
	TimeMUS          = timeMUS{}
	StringsMUS       = stringsMUS{}
	VectorMUS        = vectorMUS{}
	SearchOptionsMUS = searchOptionsMUS{}
	SavedSearchMUS   = savedSearchMUS{}
	HistoryEntryMUS  = historyEntryMUS{}
	NodePayloadMUS   = nodePayloadMUS{}
	VectorEntryMUS   = vectorEntryMUS{}
)

// timeMUS stores a presence flag followed by Unix microseconds, so the zero
// time survives a round trip as the zero time.
type timeMUS struct{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	if v.IsZero() {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	n += varint.Int64.Marshal(v.UnixMicro(), bs[n:])
	return
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v = time.UnixMicro(micros).UTC()
	return
}

func (s timeMUS) Size(v time.Time) (size int) {
	if v.IsZero() {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Int64.Size(v.UnixMicro())
}

type stringsMUS struct{}

func (s stringsMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int64.Marshal(int64(len(v)), bs)
	for _, e := range v {
		n += ord.String.Marshal(e, bs[n:])
	}
	return
}

func (s stringsMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := unmarshalLength(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]string, length)
	var n1 int
	for i := range v {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s stringsMUS) Size(v []string) (size int) {
	size = varint.Int64.Size(int64(len(v)))
	for _, e := range v {
		size += ord.String.Size(e)
	}
	return
}

// vectorMUS stores a length prefix followed by fixed 4-byte little-endian
// float32 values.
type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int64.Marshal(int64(len(v)), bs)
	for _, f := range v {
		binary.LittleEndian.PutUint32(bs[n:], math.Float32bits(f))
		n += 4
	}
	return
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := unmarshalLength(bs)
	if err != nil || length == 0 {
		return
	}
	if len(bs)-n < length*4 {
		err = ErrTruncated
		return
	}
	v = make([]float32, length)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(bs[n:]))
		n += 4
	}
	return
}

func (s vectorMUS) Size(v []float32) (size int) {
	return varint.Int64.Size(int64(len(v))) + 4*len(v)
}

type searchOptionsMUS struct{}

func (s searchOptionsMUS) Marshal(v SearchOptions, bs []byte) (n int) {
	n = ord.String.Marshal(v.Query, bs)
	n += ord.String.Marshal(string(v.SearchType), bs[n:])
	n += varint.Int64.Marshal(int64(v.MaxResults), bs[n:])
	n += ord.Bool.Marshal(v.UseRerank, bs[n:])
	n += varint.Uint64.Marshal(math.Float64bits(v.RerankThreshold), bs[n:])
	n += ord.Bool.Marshal(v.IncludeContent, bs[n:])
	n += StringsMUS.Marshal(v.FileTypes, bs[n:])
	n += StringsMUS.Marshal(v.Tags, bs[n:])
	n += StringsMUS.Marshal(v.Folders, bs[n:])
	n += ord.Bool.Marshal(v.DateRange != nil, bs[n:])
	if v.DateRange != nil {
		n += TimeMUS.Marshal(v.DateRange.Start, bs[n:])
		n += TimeMUS.Marshal(v.DateRange.End, bs[n:])
	}
	n += ord.String.Marshal(string(v.SortBy), bs[n:])
	n += ord.String.Marshal(string(v.SortOrder), bs[n:])
	return
}

func (s searchOptionsMUS) Unmarshal(bs []byte) (v SearchOptions, n int, err error) {
	var (
		n1         int
		str        string
		i64        int64
		bits       uint64
		hasRange   bool
		start, end time.Time
	)
	v.Query, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	str, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SearchType = SearchType(str)
	i64, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MaxResults = int(i64)
	v.UseRerank, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	bits, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RerankThreshold = math.Float64frombits(bits)
	v.IncludeContent, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileTypes, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Folders, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	hasRange, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if hasRange {
		start, n1, err = TimeMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		end, n1, err = TimeMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.DateRange = &DateRange{Start: start, End: end}
	}
	str, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SortBy = SortBy(str)
	str, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SortOrder = SortOrder(str)
	return
}

func (s searchOptionsMUS) Size(v SearchOptions) (size int) {
	size = ord.String.Size(v.Query)
	size += ord.String.Size(string(v.SearchType))
	size += varint.Int64.Size(int64(v.MaxResults))
	size += ord.Bool.Size(v.UseRerank)
	size += varint.Uint64.Size(math.Float64bits(v.RerankThreshold))
	size += ord.Bool.Size(v.IncludeContent)
	size += StringsMUS.Size(v.FileTypes)
	size += StringsMUS.Size(v.Tags)
	size += StringsMUS.Size(v.Folders)
	size += ord.Bool.Size(v.DateRange != nil)
	if v.DateRange != nil {
		size += TimeMUS.Size(v.DateRange.Start)
		size += TimeMUS.Size(v.DateRange.End)
	}
	size += ord.String.Size(string(v.SortBy))
	size += ord.String.Size(string(v.SortOrder))
	return
}

type savedSearchMUS struct{}

func (s savedSearchMUS) Marshal(v SavedSearch, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += SearchOptionsMUS.Marshal(v.Options, bs[n:])
	n += StringsMUS.Marshal(v.Filters, bs[n:])
	n += TimeMUS.Marshal(v.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(v.LastUsed, bs[n:])
	n += varint.Int64.Marshal(int64(v.UseCount), bs[n:])
	return
}

func (s savedSearchMUS) Unmarshal(bs []byte) (v SavedSearch, n int, err error) {
	var (
		n1  int
		i64 int64
	)
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Query, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Options, n1, err = SearchOptionsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Filters, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LastUsed, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	i64, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	v.UseCount = int(i64)
	return
}

func (s savedSearchMUS) Size(v SavedSearch) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Query)
	size += SearchOptionsMUS.Size(v.Options)
	size += StringsMUS.Size(v.Filters)
	size += TimeMUS.Size(v.CreatedAt)
	size += TimeMUS.Size(v.LastUsed)
	size += varint.Int64.Size(int64(v.UseCount))
	return
}

type historyEntryMUS struct{}

func (s historyEntryMUS) Marshal(v HistoryEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Query, bs)
	n += ord.String.Marshal(string(v.SearchType), bs[n:])
	n += TimeMUS.Marshal(v.Timestamp, bs[n:])
	n += varint.Int64.Marshal(int64(v.ResultCount), bs[n:])
	return
}

func (s historyEntryMUS) Unmarshal(bs []byte) (v HistoryEntry, n int, err error) {
	var (
		n1  int
		str string
		i64 int64
	)
	v.Query, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	str, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SearchType = SearchType(str)
	v.Timestamp, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	i64, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	v.ResultCount = int(i64)
	return
}

func (s historyEntryMUS) Size(v HistoryEntry) (size int) {
	size = ord.String.Size(v.Query)
	size += ord.String.Size(string(v.SearchType))
	size += TimeMUS.Size(v.Timestamp)
	size += varint.Int64.Size(int64(v.ResultCount))
	return
}

type nodePayloadMUS struct{}

func (s nodePayloadMUS) Marshal(v NodePayload, bs []byte) (n int) {
	n = ord.String.Marshal(v.Path, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += StringsMUS.Marshal(v.Tags, bs[n:])
	n += TimeMUS.Marshal(v.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(v.ModifiedAt, bs[n:])
	n += ord.String.Marshal(v.ContentHash, bs[n:])
	return
}

func (s nodePayloadMUS) Unmarshal(bs []byte) (v NodePayload, n int, err error) {
	var n1 int
	v.Path, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ModifiedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentHash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s nodePayloadMUS) Size(v NodePayload) (size int) {
	size = ord.String.Size(v.Path)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += StringsMUS.Size(v.Tags)
	size += TimeMUS.Size(v.CreatedAt)
	size += TimeMUS.Size(v.ModifiedAt)
	size += ord.String.Size(v.ContentHash)
	return
}

type vectorEntryMUS struct{}

func (s vectorEntryMUS) Marshal(v VectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += VectorMUS.Marshal(v.Vector, bs[n:])
	n += NodePayloadMUS.Marshal(v.Payload, bs[n:])
	return
}

func (s vectorEntryMUS) Unmarshal(bs []byte) (v VectorEntry, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Vector, n1, err = VectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Payload, n1, err = NodePayloadMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorEntryMUS) Size(v VectorEntry) (size int) {
	return ord.String.Size(v.ID) + VectorMUS.Size(v.Vector) + NodePayloadMUS.Size(v.Payload)
}

func unmarshalLength(bs []byte) (length int, n int, err error) {
	l, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	if l < 0 {
		err = ErrNegativeLength
		return
	}
	length = int(l)
	return
}
