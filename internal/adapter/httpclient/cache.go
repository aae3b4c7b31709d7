package httpclient

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"sort"
	"sync"

	"github.com/peterbourgon/diskv"
)

// MaxCacheSize bounds each on-disk HTTP cache.
const MaxCacheSize = 20 * 1024 * 1024

// diskCache is an httpcache.Cache stored in a flat diskv directory. After
// every write the oldest entries are evicted until the directory fits max.
type diskCache struct {
	mu  sync.Mutex
	d   *diskv.Diskv
	dir string
	max int64
}

func newDiskCache(dir string, max int64) *diskCache {
	return &diskCache{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 0,
		}),
		dir: dir,
		max: max,
	}
}

func keyName(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *diskCache) Get(key string) ([]byte, bool) {
	b, err := c.d.Read(keyName(key))
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *diskCache) Set(key string, resp []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int64(len(resp)) > c.max {
		return
	}
	if err := c.d.Write(keyName(key), resp); err != nil {
		return
	}
	c.trim()
}

func (c *diskCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.d.Erase(keyName(key))
}

// trim must be called with mu held.
func (c *diskCache) trim() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	type file struct {
		name string
		size int64
		mod  int64
	}
	var files []file
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, file{name: e.Name(), size: info.Size(), mod: info.ModTime().UnixNano()})
		total += info.Size()
	}
	if total <= c.max {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })
	for _, f := range files {
		if total <= c.max {
			break
		}
		if err := c.d.Erase(f.name); err == nil {
			total -= f.size
		}
	}
}
