package keyvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataStructureSize(t *testing.T) {
	tests := []struct {
		name                              string
		rowLen, famLen, qualLen, valueLen int
		tagsLen                           int
		wantKey, wantRecord, wantWithTags int64
	}{
		{
			name:   "row1/cf:q",
			rowLen: 4, famLen: 2, qualLen: 1, valueLen: 1,
			wantKey: 19, wantRecord: 28, wantWithTags: 28,
		},
		{
			name:    "empty key",
			wantKey: 12, wantRecord: 20, wantWithTags: 20,
		},
		{
			name:   "with tags",
			rowLen: 3, famLen: 1, qualLen: 0, valueLen: 5, tagsLen: 7,
			wantKey: 16, wantRecord: 29, wantWithTags: 38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, KeyDataStructureSize(tt.rowLen, tt.famLen, tt.qualLen))
			assert.Equal(t, tt.wantRecord, KeyValueDataStructureSize(tt.rowLen, tt.famLen, tt.qualLen, tt.valueLen))
			assert.Equal(t, tt.wantWithTags,
				KeyValueDataStructureSizeWithTags(tt.rowLen, tt.famLen, tt.qualLen, tt.valueLen, tt.tagsLen))
			assert.Equal(t, int(tt.wantWithTags), RecordSize(int(tt.wantKey), tt.valueLen, tt.tagsLen))
		})
	}
}

func TestLayoutConstants(t *testing.T) {
	assert.Equal(t, 12, KeyInfrastructureSize)
	assert.Equal(t, 8, RowOffset)
	assert.Equal(t, 10, KeyValueWithTagsInfrastructureSize)
	assert.Equal(t, 32767, MaxRowLength)
	assert.Equal(t, 127, MaxFamilyLength)
	assert.Equal(t, 65535, MaxTagsLength)
}
