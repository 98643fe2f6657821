// Package compressed gzips cache entries before handing them to another cache.
package compressed

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/apis/cache"
)

const (
	cachePrefix = "cc:"

	// Entries start with a marker byte so small values can skip compression.
	markerRaw  byte = 'r'
	markerGzip byte = 'z'

	// DefaultMinSize is the smallest value worth compressing.
	DefaultMinSize = 512
)

type Cache struct {
	Cache   cache.Cache
	MinSize int
}

func NewCompressedCache(c cache.Cache) *Cache {
	return &Cache{
		Cache:   c,
		MinSize: DefaultMinSize,
	}
}

func (c *Cache) Get(key string) ([]byte, error) {
	b, err := c.Cache.Get(cachePrefix + key)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty cache item %s", key)
	}

	switch b[0] {
	case markerRaw:
		return b[1:], nil
	case markerGzip:
		return uncompress(b[1:])
	default:
		return nil, fmt.Errorf("unknown cache item marker %q for %s", b[0], key)
	}
}

func (c *Cache) Set(key string, content []byte, duration time.Duration) error {
	if len(content) < c.MinSize {
		return c.Cache.Set(cachePrefix+key, append([]byte{markerRaw}, content...), duration)
	}

	data, err := compress(content)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"key":    key,
		"before": len(content),
		"after":  len(data),
	}).Debug("compressed cache entry")

	return c.Cache.Set(cachePrefix+key, append([]byte{markerGzip}, data...), duration)
}

// compress returns the gzipped value followed by a big endian CRC32 of the original.
func compress(value []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(value); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint32(buf.Bytes(), crc32.ChecksumIEEE(value)), nil
}

func uncompress(value []byte) ([]byte, error) {
	if len(value) < 4 {
		return nil, fmt.Errorf("invalid cache item length")
	}
	body, sum := value[:len(value)-4], binary.BigEndian.Uint32(value[len(value)-4:])

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(out) != sum {
		return nil, fmt.Errorf("checksum validation did not match")
	}
	return out, nil
}
