package jpeg

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderLen     = len(iccMarkerTag) + 2 // tag + seq + count
	maxChunkDataSize = 65535 - 2 - iccHeaderLen
	maxChunks        = 255
)

// iccChunk is one APP2 segment of an embedded profile.
type iccChunk struct {
	seq  int
	data []byte
}

// ExtractICC reassembles an ICC profile from APP2 marker payloads.
// Payloads that are not ICC chunks are ignored. It returns nil, nil when no
// profile is present.
func ExtractICC(markers [][]byte) ([]byte, error) {
	var chunks []iccChunk
	expectedCount := 0

	for _, m := range markers {
		if len(m) < iccHeaderLen || string(m[:len(iccMarkerTag)]) != iccMarkerTag {
			continue
		}
		seq, count := int(m[12]), int(m[13])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		}
		switch {
		case expectedCount == 0:
			expectedCount = count
		case count != expectedCount:
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, expectedCount)
		}
		chunks = append(chunks, iccChunk{seq: seq, data: m[iccHeaderLen:]})
	}

	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != expectedCount {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", expectedCount, len(chunks))
	}

	slices.SortFunc(chunks, func(a, b iccChunk) int { return cmp.Compare(a.seq, b.seq) })
	for i, c := range chunks {
		if c.seq != i+1 {
			return nil, fmt.Errorf("duplicate ICC chunk %d", c.seq)
		}
	}

	parts := make([][]byte, len(chunks))
	for i, c := range chunks {
		parts[i] = c.data
	}
	return bytes.Join(parts, nil), nil
}

// ChunkICC splits an ICC profile into complete APP2 marker payloads
// (tag, 1-based sequence number, count, profile bytes).
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	numChunks := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if numChunks > maxChunks {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max %d)", numChunks, maxChunks)
	}

	chunks := make([][]byte, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * maxChunkDataSize
		end := min(start+maxChunkDataSize, len(profile))

		chunk := make([]byte, 0, iccHeaderLen+end-start)
		chunk = append(chunk, iccMarkerTag...)
		chunk = append(chunk, byte(i+1), byte(numChunks))
		chunk = append(chunk, profile[start:end]...)
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
