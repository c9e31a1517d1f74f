package jpeg

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

const (
	iccTag       = "ICC_PROFILE\x00"
	iccHeaderLen = len(iccTag) + 2 // tag + seq + count

	// Largest profile slice one APP2 segment can carry: 65535 minus the
	// length field and the ICC header.
	maxICCChunk = 0xFFFF - 2 - iccHeaderLen
)

// ExtractICC reassembles an ICC profile from APP2 segment payloads. Payloads
// that are not ICC chunks are ignored. It returns nil, nil when no chunk is
// present.
func ExtractICC(app2 [][]byte) ([]byte, error) {
	type chunk struct {
		seq  int
		data []byte
	}
	var (
		chunks []chunk
		total  int
		seen   = map[int]bool{}
	)
	for _, p := range app2 {
		if len(p) < iccHeaderLen || string(p[:len(iccTag)]) != iccTag {
			continue
		}
		seq, count := int(p[12]), int(p[13])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("icc chunk %d of %d out of range", seq, count)
		}
		if total == 0 {
			total = count
		} else if count != total {
			return nil, fmt.Errorf("icc chunk count changed from %d to %d", total, count)
		}
		if seen[seq] {
			return nil, fmt.Errorf("duplicate icc chunk %d", seq)
		}
		seen[seq] = true
		chunks = append(chunks, chunk{seq: seq, data: p[iccHeaderLen:]})
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != total {
		return nil, fmt.Errorf("icc profile has %d of %d chunks", len(chunks), total)
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c.data)
	}
	return buf.Bytes(), nil
}

// ChunkICC splits profile into APP2 payloads, each carrying the ICC header.
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty icc profile")
	}
	n := (len(profile) + maxICCChunk - 1) / maxICCChunk
	if n > 255 {
		return nil, fmt.Errorf("icc profile of %d bytes needs %d chunks, max 255", len(profile), n)
	}

	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		part := profile[i*maxICCChunk : min((i+1)*maxICCChunk, len(profile))]
		p := make([]byte, 0, iccHeaderLen+len(part))
		p = append(p, iccTag...)
		p = append(p, byte(i+1), byte(n))
		p = append(p, part...)
		out = append(out, p)
	}
	return out, nil
}
