package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"itemseek-backend/internal/metrics"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheHeader reports whether a GET was answered from memory.
const CacheHeader = "X-Cache"

// Cache serves repeated GET requests from memory. Any successful write
// request flushes the whole store. A read that was still running when a
// flush happened is not stored, so it cannot outlive the write.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	var (
		mu         sync.Mutex
		generation uint64
	)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if succeeded(c.Writer.Status()) {
				mu.Lock()
				generation++
				store.Flush()
				mu.Unlock()
				metrics.CacheLookups.WithLabelValues("flush").Inc()
			}
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			resp.(cachedResponse).replay(c)
			c.Abort()
			return
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()

		mu.Lock()
		started := generation
		mu.Unlock()

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw
		c.Writer.Header().Set(CacheHeader, "MISS")

		c.Next()

		if !succeeded(blw.Status()) {
			return
		}
		headers := blw.Header().Clone()
		headers.Del(CacheHeader)

		mu.Lock()
		defer mu.Unlock()
		if generation != started {
			return
		}
		store.Set(key, cachedResponse{
			status:  blw.Status(),
			headers: headers,
			body:    blw.body.Bytes(),
		}, duration)
	}
}

func (r cachedResponse) replay(c *gin.Context) {
	for k, v := range r.headers {
		c.Writer.Header()[k] = v
	}
	c.Writer.Header().Set(CacheHeader, "HIT")
	c.Writer.WriteHeader(r.status)
	c.Writer.Write(r.body)
}

func succeeded(status int) bool {
	return status >= 200 && status < 300
}
