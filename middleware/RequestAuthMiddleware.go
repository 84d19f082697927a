package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bwayne222/youtube-video-downloader/config"
	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/utils"
)

const (
	empty         = ""
	keyRds        = "X-RAND-STRING"
	keyTimestamp  = "X-TIMESTAMP"
	KeyClientSign = "X-CLIENT-SIGN"
)

// RequestAuthMiddleware verifies request signatures on admin routes.
// With no salt configured the check is skipped entirely.
func RequestAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		salt := config.Get().Salt
		if salt != empty {
			body, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			if !VerifyReqRaw(c.Request, body, salt) {
				log.Warn("ip:%s,req:%s has sign error", utils.GetClientIP(c), c.Request.URL.Path)
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}
		c.Next()
	}
}

// VerifyReqRaw checks md5(body + rand + timestamp + salt) against the
// client-supplied signature header.
func VerifyReqRaw(r *http.Request, body []byte, salt string) bool {
	if salt == empty {
		return true
	}
	randStr := r.Header.Get(keyRds)
	timestamp := r.Header.Get(keyTimestamp)
	clientSign := r.Header.Get(KeyClientSign)
	if clientSign == empty || timestamp == empty || randStr == empty {
		return false
	}
	serverSign := utils.GetMd5(string(body) + randStr + timestamp + salt)
	if serverSign == clientSign {
		return true
	}
	log.Debug("client sign: %s, serverSign: %s", clientSign, serverSign)
	return false
}
