//go:build !unix

package mmfile

import "os"

// Open reads the whole file into memory on platforms without a unix mmap.
func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return heapMapping(data), nil
}
