package scoreloader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func smfFile(division uint16, tracks ...[]byte) []byte {
	var data = []byte("MThd\x00\x00\x00\x06")
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, uint16(len(tracks)))
	data = binary.BigEndian.AppendUint16(data, division)
	for _, events := range tracks {
		data = append(data, "MTrk"...)
		data = binary.BigEndian.AppendUint32(data, uint32(len(events)))
		data = append(data, events...)
	}
	return data
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
